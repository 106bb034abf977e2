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
	"log/slog"

	"github.com/AleutianAI/codegate/services/gate/check"
)

// degradedConfidence is used when the input is malformed and the engine
// degrades to CONTINUE instead of failing the pipeline.
const degradedConfidence = 0.5

// Decide produces the autopilot verdict for one result's issues.
//
// Description:
//
//	Partitions the issue set into a silently-fixable subset and a
//	report remainder:
//
//	  1. No issues: CONTINUE, confidence 1.0.
//	  2. Every issue auto-fixable: FIX_SILENTLY, confidence 1.0.
//	  3. Mixed: FIX_AND_REPORT; confidence is the mean classification
//	     confidence across issues.
//	  4. Nothing auto-fixable: REPORT_ONLY, confidence 1.0.
//
//	An issue missing its rule identifier is conservatively unfixable.
//	A nil result degrades to CONTINUE with confidence 0.5; the engine
//	never panics on partial input.
//
// Inputs:
//
//	result - One engine's (or the merged) check result
//
// Outputs:
//
//	Decision - Fixes and Issues partition the input set with no overlap
//
// Thread Safety: Safe for concurrent use.
func Decide(result *check.Result) Decision {
	if result == nil {
		slog.Warn("Autopilot received malformed result, degrading to continue")
		recordDecision(ActionContinue, 0)
		return Decision{
			Action:     ActionContinue,
			Confidence: degradedConfidence,
			Fixes:      make([]check.Issue, 0),
			Issues:     make([]check.Issue, 0),
		}
	}

	if len(result.Issues) == 0 {
		recordDecision(ActionContinue, 0)
		return Decision{
			Action:     ActionContinue,
			Confidence: 1.0,
			Fixes:      make([]check.Issue, 0),
			Issues:     make([]check.Issue, 0),
		}
	}

	fixes := make([]check.Issue, 0, len(result.Issues))
	remainder := make([]check.Issue, 0, len(result.Issues))
	confidenceSum := 0.0

	for _, issue := range result.Issues {
		classification := ClassifyRule(issue.Rule)
		confidenceSum += classification.Confidence

		if shouldAutoFix(issue, classification) {
			fixes = append(fixes, issue)
		} else {
			remainder = append(remainder, issue)
		}
	}

	decision := Decision{Fixes: fixes, Issues: remainder}
	switch {
	case len(remainder) == 0:
		decision.Action = ActionFixSilently
		decision.Confidence = 1.0
	case len(fixes) == 0:
		decision.Action = ActionReportOnly
		decision.Confidence = 1.0
	default:
		decision.Action = ActionFixAndReport
		decision.Confidence = confidenceSum / float64(len(result.Issues))
	}

	recordDecision(decision.Action, len(result.Issues))

	slog.Debug("Autopilot decision",
		slog.String("action", decision.Action.String()),
		slog.Int("fixes", len(decision.Fixes)),
		slog.Int("reported", len(decision.Issues)),
	)

	return decision
}

// shouldAutoFix combines classification and file context for one issue.
func shouldAutoFix(issue check.Issue, classification RuleClassification) bool {
	if issue.Rule == "" {
		return false
	}

	switch classification.Category {
	case CategoryAlwaysSafe:
		return true
	case CategoryContextDependent:
		return CheckContext(issue.Rule, issue.File)
	default:
		return false
	}
}
