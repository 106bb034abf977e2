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
	"testing"

	"github.com/AleutianAI/codegate/services/gate/check"
)

func issueFor(rule, file string) check.Issue {
	return check.Issue{
		Engine:   check.EngineLint,
		Severity: check.SeverityWarning,
		Rule:     rule,
		File:     file,
		Line:     1,
		Column:   1,
		Message:  "test issue for " + rule,
	}
}

func TestDecide_NoIssues(t *testing.T) {
	decision := Decide(check.EmptyResult(0))

	if decision.Action != ActionContinue {
		t.Errorf("Action = %v, want %v", decision.Action, ActionContinue)
	}
	if decision.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", decision.Confidence)
	}
	if len(decision.Fixes) != 0 || len(decision.Issues) != 0 {
		t.Errorf("expected empty partition, got %d fixes / %d issues",
			len(decision.Fixes), len(decision.Issues))
	}
}

func TestDecide_AllSafeFixesSilently(t *testing.T) {
	issues := []check.Issue{
		issueFor("semi", "/repo/src/app.ts"),
		issueFor("quotes", "/repo/src/app.ts"),
		issueFor("prettier/prettier", "/repo/src/util.ts"),
	}
	decision := Decide(check.NewResult(issues, 0))

	if decision.Action != ActionFixSilently {
		t.Fatalf("Action = %v, want %v", decision.Action, ActionFixSilently)
	}
	if decision.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", decision.Confidence)
	}
	if len(decision.Fixes) != len(issues) {
		t.Errorf("Fixes = %d, want %d", len(decision.Fixes), len(issues))
	}
	if len(decision.Issues) != 0 {
		t.Errorf("Issues = %d, want 0", len(decision.Issues))
	}
}

func TestDecide_MixedFixesAndReports(t *testing.T) {
	issues := []check.Issue{
		issueFor("semi", "/repo/src/app.ts"),
		issueFor("no-undef", "/repo/src/app.ts"),
	}
	decision := Decide(check.NewResult(issues, 0))

	if decision.Action != ActionFixAndReport {
		t.Fatalf("Action = %v, want %v", decision.Action, ActionFixAndReport)
	}
	if len(decision.Fixes) != 1 || decision.Fixes[0].Rule != "semi" {
		t.Errorf("expected single semi fix, got %+v", decision.Fixes)
	}
	if len(decision.Issues) != 1 || decision.Issues[0].Rule != "no-undef" {
		t.Errorf("expected single no-undef report, got %+v", decision.Issues)
	}
	// Mean of the per-rule confidences: (1.0 + 1.0) / 2.
	if decision.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", decision.Confidence)
	}
}

func TestDecide_MixedConfidenceIsMean(t *testing.T) {
	// semi classifies at 1.0, an unknown rule at 0.5.
	issues := []check.Issue{
		issueFor("semi", "/repo/src/app.ts"),
		issueFor("totally-unknown", "/repo/src/a.ts"),
	}
	decision := Decide(check.NewResult(issues, 0))

	if decision.Action != ActionFixAndReport {
		t.Fatalf("Action = %v, want %v", decision.Action, ActionFixAndReport)
	}
	if decision.Confidence != 0.75 {
		t.Errorf("Confidence = %v, want 0.75", decision.Confidence)
	}
}

func TestDecide_NoneFixableReportsOnly(t *testing.T) {
	issues := []check.Issue{
		issueFor("no-undef", "/repo/src/app.ts"),
		issueFor("no-unused-vars", "/repo/src/app.ts"),
	}
	decision := Decide(check.NewResult(issues, 0))

	if decision.Action != ActionReportOnly {
		t.Fatalf("Action = %v, want %v", decision.Action, ActionReportOnly)
	}
	if decision.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", decision.Confidence)
	}
	if len(decision.Fixes) != 0 {
		t.Errorf("Fixes = %d, want 0", len(decision.Fixes))
	}
	if len(decision.Issues) != len(issues) {
		t.Errorf("Issues = %d, want %d", len(decision.Issues), len(issues))
	}
}

func TestDecide_MissingRuleNeverFixed(t *testing.T) {
	issues := []check.Issue{
		issueFor("", "/repo/src/app.ts"),
	}
	decision := Decide(check.NewResult(issues, 0))

	if decision.Action != ActionReportOnly {
		t.Fatalf("Action = %v, want %v", decision.Action, ActionReportOnly)
	}
	if len(decision.Fixes) != 0 {
		t.Errorf("issue without a rule must never be fixed, got %+v", decision.Fixes)
	}
	if len(decision.Issues) != 1 {
		t.Errorf("Issues = %d, want 1", len(decision.Issues))
	}
}

func TestDecide_ContextDependentRespectsFilePath(t *testing.T) {
	issues := []check.Issue{
		issueFor("no-console", "/repo/src/app.ts"),      // production: fix
		issueFor("no-console", "/repo/src/app.test.ts"), // test: report
		issueFor("no-debugger", "/repo/src/app.test.ts"), // always fix
	}
	decision := Decide(check.NewResult(issues, 0))

	if decision.Action != ActionFixAndReport {
		t.Fatalf("Action = %v, want %v", decision.Action, ActionFixAndReport)
	}
	if len(decision.Fixes) != 2 {
		t.Errorf("Fixes = %d, want 2", len(decision.Fixes))
	}
	if len(decision.Issues) != 1 || decision.Issues[0].File != "/repo/src/app.test.ts" {
		t.Errorf("expected the test-file no-console reported, got %+v", decision.Issues)
	}
}

func TestDecide_NilResultDegrades(t *testing.T) {
	decision := Decide(nil)

	if decision.Action != ActionContinue {
		t.Errorf("Action = %v, want %v", decision.Action, ActionContinue)
	}
	if decision.Confidence >= 1.0 {
		t.Errorf("Confidence = %v, want < 1.0 for degraded input", decision.Confidence)
	}
	if decision.Fixes == nil || decision.Issues == nil {
		t.Error("degraded decision must carry non-nil empty slices")
	}
}

func TestDecide_PartitionCoversInput(t *testing.T) {
	issues := []check.Issue{
		issueFor("semi", "/repo/src/a.ts"),
		issueFor("no-console", "/repo/src/a.test.ts"),
		issueFor("no-undef", "/repo/src/a.ts"),
		issueFor("eol-last", "/repo/src/b.ts"),
		issueFor("mystery-rule", "/repo/src/b.ts"),
	}
	decision := Decide(check.NewResult(issues, 0))

	if got := len(decision.Fixes) + len(decision.Issues); got != len(issues) {
		t.Errorf("partition size = %d, want %d", got, len(issues))
	}

	seen := make(map[string]int)
	for _, issue := range decision.Fixes {
		seen[issue.Rule]++
	}
	for _, issue := range decision.Issues {
		seen[issue.Rule]++
	}
	for _, issue := range issues {
		if seen[issue.Rule] == 0 {
			t.Errorf("issue %q missing from partition", issue.Rule)
		}
	}
}
