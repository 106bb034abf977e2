// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package autopilot

// =============================================================================
// CLASSIFICATION TABLES
// =============================================================================

// The three classification sets are constructed once at package init and
// never mutated, so concurrent classification needs no synchronization.

// alwaysSafeRules are purely mechanical style rules: deterministic fixes
// with no semantic risk.
var alwaysSafeRules = ruleSet(
	"prettier/prettier",
	"semi",
	"quotes",
	"indent",
	"comma-dangle",
	"comma-spacing",
	"eol-last",
	"no-trailing-spaces",
	"no-multiple-empty-lines",
	"object-curly-spacing",
	"space-before-blocks",
	"arrow-parens",
	"sort-imports",
	"import/order",
	"import/newline-after-import",
	"@typescript-eslint/semi",
	"@typescript-eslint/quotes",
)

// contextDependentRules are rules whose safe auto-fix depends on where
// the issue occurs. See CheckContext for the per-rule predicates.
var contextDependentRules = ruleSet(
	"no-debugger",
	"no-console",
	"no-alert",
)

// neverAutoRules are explicit entries for rules touching program
// semantics. The set is also the fallback bucket: any identifier absent
// from all three sets classifies as NEVER_AUTO with reduced confidence.
var neverAutoRules = ruleSet(
	"no-undef",
	"no-unused-vars",
	"no-unreachable",
	"no-dupe-keys",
	"no-func-assign",
	"eqeqeq",
	"no-eval",
	"no-fallthrough",
	"@typescript-eslint/no-unused-vars",
	"@typescript-eslint/no-explicit-any",
	"@typescript-eslint/no-floating-promises",
)

// ruleSet builds an immutable lookup set from rule identifiers.
func ruleSet(rules ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(rules))
	for _, rule := range rules {
		set[rule] = struct{}{}
	}
	return set
}

// Classification confidence levels.
const (
	confidenceKnown            = 1.0
	confidenceContextDependent = 0.8
	confidenceUnknown          = 0.5
)

// ClassifyRule classifies a rule identifier into its safety tier.
//
// Description:
//
//	Pure O(1) lookup across the three immutable sets. Unknown rule
//	identifiers default to NEVER_AUTO with confidence 0.5: unknown
//	rules are conservatively never auto-applied. Two calls with the
//	same identifier always return structurally equal results.
//
// Inputs:
//
//	rule - The engine-specific rule identifier
//
// Outputs:
//
//	RuleClassification - The static judgment for the rule
//
// Thread Safety: Safe for concurrent use.
func ClassifyRule(rule string) RuleClassification {
	if _, ok := alwaysSafeRules[rule]; ok {
		return RuleClassification{
			Rule:        rule,
			Category:    CategoryAlwaysSafe,
			Confidence:  confidenceKnown,
			AutoFixable: true,
		}
	}
	if _, ok := contextDependentRules[rule]; ok {
		return RuleClassification{
			Rule:        rule,
			Category:    CategoryContextDependent,
			Confidence:  confidenceContextDependent,
			AutoFixable: true,
		}
	}
	if _, ok := neverAutoRules[rule]; ok {
		return RuleClassification{
			Rule:        rule,
			Category:    CategoryNeverAuto,
			Confidence:  confidenceKnown,
			AutoFixable: false,
		}
	}
	return RuleClassification{
		Rule:        rule,
		Category:    CategoryNeverAuto,
		Confidence:  confidenceUnknown,
		AutoFixable: false,
	}
}
