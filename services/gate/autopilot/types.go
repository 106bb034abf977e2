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

import (
	"github.com/AleutianAI/codegate/services/gate/check"
)

// =============================================================================
// CATEGORY
// =============================================================================

// Category is the safety tier of a rule identifier.
type Category int

const (
	// CategoryNeverAuto covers rules touching program semantics. The
	// default bucket: unknown identifiers land here.
	CategoryNeverAuto Category = iota

	// CategoryAlwaysSafe covers purely mechanical style rules.
	CategoryAlwaysSafe

	// CategoryContextDependent covers rules whose safe auto-fix depends
	// on where the issue occurs.
	CategoryContextDependent
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryNeverAuto:
		return "never_auto"
	case CategoryAlwaysSafe:
		return "always_safe"
	case CategoryContextDependent:
		return "context_dependent"
	default:
		return "unknown"
	}
}

// =============================================================================
// RULE CLASSIFICATION
// =============================================================================

// RuleClassification is the static judgment about a rule identifier.
//
// Thread Safety: Immutable after creation.
type RuleClassification struct {
	// Rule is the rule identifier that was classified.
	Rule string `json:"rule"`

	// Category is the safety tier.
	Category Category `json:"category"`

	// Confidence is the classification confidence in [0, 1].
	Confidence float64 `json:"confidence"`

	// AutoFixable indicates the rule's fix is mechanically applicable
	// (subject to context for CONTEXT_DEPENDENT rules).
	AutoFixable bool `json:"auto_fixable"`
}

// =============================================================================
// ACTION / DECISION
// =============================================================================

// Action is the autopilot's verdict kind for one aggregate result.
type Action int

const (
	// ActionContinue means there is nothing to do: no issues.
	ActionContinue Action = iota

	// ActionFixSilently means every issue is auto-fixable.
	ActionFixSilently

	// ActionFixAndReport means the fixable subset is fixed and the
	// remainder reported.
	ActionFixAndReport

	// ActionReportOnly means no issue is auto-fixable.
	ActionReportOnly
)

// String returns the string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionContinue:
		return "continue"
	case ActionFixSilently:
		return "fix_silently"
	case ActionFixAndReport:
		return "fix_and_report"
	case ActionReportOnly:
		return "report_only"
	default:
		return "unknown"
	}
}

// Decision is the autopilot's verdict for one result's issues.
//
// Fixes and Issues partition the input issue set with no overlap.
// Action is ActionContinue iff the input issue set was empty.
//
// Thread Safety: Immutable after creation.
type Decision struct {
	// Action is the verdict kind.
	Action Action `json:"action"`

	// Confidence is the decision confidence in [0, 1].
	Confidence float64 `json:"confidence"`

	// Fixes are the issues that may be auto-fixed silently.
	Fixes []check.Issue `json:"fixes"`

	// Issues are the non-fixed remainder to report.
	Issues []check.Issue `json:"issues"`
}
