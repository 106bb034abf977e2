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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/codegate/services/gate/autopilot"
	"github.com/AleutianAI/codegate/services/gate/check"
)

func lintIssue(rule string, severity check.Severity) check.Issue {
	return check.Issue{
		Engine:   check.EngineLint,
		Severity: severity,
		Rule:     rule,
		File:     "/repo/src/app.ts",
		Line:     3,
		Column:   7,
		Message:  "issue for " + rule,
	}
}

func TestEnforce_ContinueIsSilent(t *testing.T) {
	result := Enforce(autopilot.Decision{Action: autopilot.ActionContinue, Confidence: 1.0})

	assert.False(t, result.Blocked)
	assert.True(t, result.Silent)
	assert.Equal(t, 0, result.ExitCode)
	assert.Empty(t, result.Message)
}

func TestEnforce_FixSilentlyIsSilent(t *testing.T) {
	decision := autopilot.Decision{
		Action:     autopilot.ActionFixSilently,
		Confidence: 1.0,
		Fixes: []check.Issue{
			lintIssue("semi", check.SeverityWarning),
			lintIssue("quotes", check.SeverityWarning),
		},
	}
	result := Enforce(decision)

	assert.False(t, result.Blocked)
	assert.True(t, result.Silent)
	assert.Equal(t, 2, result.Classification.FixableCount)
	assert.Equal(t, 0, result.Classification.UnfixableCount)
}

func TestEnforce_ErrorRemainderBlocks(t *testing.T) {
	decision := autopilot.Decision{
		Action: autopilot.ActionReportOnly,
		Issues: []check.Issue{
			lintIssue("no-undef", check.SeverityError),
		},
	}
	result := Enforce(decision)

	assert.True(t, result.Blocked)
	assert.False(t, result.Silent)
	assert.Equal(t, 2, result.ExitCode)
	assert.Contains(t, result.Message, "no-undef")
	assert.Contains(t, result.Message, "/repo/src/app.ts")
}

func TestEnforce_WarningsOnlyRemainderReportsWithoutBlocking(t *testing.T) {
	decision := autopilot.Decision{
		Action: autopilot.ActionFixAndReport,
		Fixes: []check.Issue{
			lintIssue("semi", check.SeverityWarning),
		},
		Issues: []check.Issue{
			lintIssue("no-console", check.SeverityWarning),
		},
	}
	result := Enforce(decision)

	assert.False(t, result.Blocked)
	assert.False(t, result.Silent)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, 1, result.Classification.FixableCount)
	assert.Equal(t, 1, result.Classification.UnfixableCount)
	assert.Contains(t, result.Message, "no-console")
}

func TestEnforce_MessageListsEveryIssue(t *testing.T) {
	decision := autopilot.Decision{
		Action: autopilot.ActionReportOnly,
		Issues: []check.Issue{
			lintIssue("no-undef", check.SeverityError),
			lintIssue("eqeqeq", check.SeverityWarning),
		},
	}
	result := Enforce(decision)

	assert.Contains(t, result.Message, "2 issue(s)")
	assert.Contains(t, result.Message, "no-undef")
	assert.Contains(t, result.Message, "eqeqeq")
}
