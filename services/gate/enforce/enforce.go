// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package enforce

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/AleutianAI/codegate/services/gate/autopilot"
	"github.com/AleutianAI/codegate/services/gate/check"
)

// =============================================================================
// TYPES
// =============================================================================

// Classification summarizes the fixable/unfixable split of a decision.
//
// Thread Safety: Immutable after creation.
type Classification struct {
	// FixableCount is the number of issues the autopilot fixed or
	// would fix silently.
	FixableCount int `json:"fixable_count"`

	// UnfixableCount is the number of issues that must be reported.
	UnfixableCount int `json:"unfixable_count"`
}

// Result is the enforcement verdict derived from an autopilot decision.
//
// Thread Safety: Immutable after creation.
type Result struct {
	// Blocked indicates the editing action must not proceed as-is.
	Blocked bool `json:"blocked"`

	// ExitCode is the enforcement layer's suggested exit code. The
	// exit-code table may override it.
	ExitCode int `json:"exit_code"`

	// Message is the rendered issue report, empty when silent.
	Message string `json:"message,omitempty"`

	// Classification carries the fixable/unfixable counts.
	Classification Classification `json:"classification"`

	// Silent indicates everything was handled without needing output.
	Silent bool `json:"silent"`
}

// =============================================================================
// ENFORCEMENT
// =============================================================================

// Enforce derives the enforcement verdict from an autopilot decision.
//
// Description:
//
//	CONTINUE and FIX_SILENTLY are silent successes. A remainder
//	containing error-severity issues blocks the action. A warnings-only
//	remainder is reported without blocking.
//
// Inputs:
//
//	decision - The autopilot verdict for the merged result
//
// Outputs:
//
//	Result - The enforcement verdict
//
// Thread Safety: Safe for concurrent use.
func Enforce(decision autopilot.Decision) Result {
	classification := Classification{
		FixableCount:   len(decision.Fixes),
		UnfixableCount: len(decision.Issues),
	}

	switch decision.Action {
	case autopilot.ActionContinue, autopilot.ActionFixSilently:
		return Result{
			Blocked:        false,
			ExitCode:       0,
			Classification: classification,
			Silent:         true,
		}
	}

	blocked := hasBlockingIssue(decision.Issues)
	result := Result{
		Blocked:        blocked,
		Message:        renderIssues(decision.Issues),
		Classification: classification,
		Silent:         false,
	}
	if blocked {
		result.ExitCode = 2
	}

	slog.Debug("Enforcement verdict",
		slog.Bool("blocked", result.Blocked),
		slog.Int("fixable", classification.FixableCount),
		slog.Int("unfixable", classification.UnfixableCount),
	)

	return result
}

// hasBlockingIssue reports whether any issue carries error severity.
func hasBlockingIssue(issues []check.Issue) bool {
	for _, issue := range issues {
		if issue.Severity == check.SeverityError {
			return true
		}
	}
	return false
}

// renderIssues formats the remainder as one line per issue.
func renderIssues(issues []check.Issue) string {
	if len(issues) == 0 {
		return ""
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "%d issue(s) require attention:\n", len(issues))
	for _, issue := range issues {
		fmt.Fprintf(&builder, "  [%s] %s %s: %s",
			issue.Engine, issue.Location(), issue.Severity, issue.Message)
		if issue.Rule != "" {
			fmt.Fprintf(&builder, " (%s)", issue.Rule)
		}
		builder.WriteByte('\n')
	}
	return strings.TrimRight(builder.String(), "\n")
}
