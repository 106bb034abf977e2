// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package typecheck

import (
	"testing"

	"github.com/AleutianAI/codegate/services/gate/check"
)

func TestParseCompilerOutput_FileDiagnostic(t *testing.T) {
	output := "src/app.ts(12,5): error TS2304: Cannot find name 'bar'.\n"

	issues := parseCompilerOutput([]byte(output))
	if len(issues) != 1 {
		t.Fatalf("issue count = %d, want 1", len(issues))
	}

	issue := issues[0]
	if issue.File != "src/app.ts" {
		t.Errorf("File = %q", issue.File)
	}
	if issue.Line != 12 || issue.Column != 5 {
		t.Errorf("position = %d:%d, want 12:5", issue.Line, issue.Column)
	}
	if issue.Rule != "TS2304" {
		t.Errorf("Rule = %q", issue.Rule)
	}
	if issue.Severity != check.SeverityError {
		t.Errorf("Severity = %v", issue.Severity)
	}
	if issue.Message != "Cannot find name 'bar'." {
		t.Errorf("Message = %q", issue.Message)
	}
	if issue.Engine != check.EngineTypeCheck {
		t.Errorf("Engine = %v", issue.Engine)
	}
}

func TestParseCompilerOutput_GlobalDiagnostic(t *testing.T) {
	output := "error TS18003: No inputs were found in config file 'tsconfig.json'.\n"

	issues := parseCompilerOutput([]byte(output))
	if len(issues) != 1 {
		t.Fatalf("issue count = %d, want 1", len(issues))
	}

	issue := issues[0]
	if issue.File != "" {
		t.Errorf("File = %q, want empty (fallback applied at Result boundary)", issue.File)
	}
	if issue.Rule != "TS18003" {
		t.Errorf("Rule = %q", issue.Rule)
	}
	if issue.Line != 1 || issue.Column != 1 {
		t.Errorf("position = %d:%d, want 1:1", issue.Line, issue.Column)
	}
}

func TestParseCompilerOutput_ContinuationLines(t *testing.T) {
	output := "src/app.ts(3,10): error TS2345: Argument of type 'string' is not assignable.\n" +
		"  Type 'string' is not assignable to type 'number'.\n"

	issues := parseCompilerOutput([]byte(output))
	if len(issues) != 1 {
		t.Fatalf("issue count = %d, want 1", len(issues))
	}
	want := "Argument of type 'string' is not assignable. Type 'string' is not assignable to type 'number'."
	if issues[0].Message != want {
		t.Errorf("Message = %q, want %q", issues[0].Message, want)
	}
}

func TestParseCompilerOutput_SkipsNoise(t *testing.T) {
	output := "\nVersion 5.6.2\n\nsome unrelated line\n"

	if issues := parseCompilerOutput([]byte(output)); len(issues) != 0 {
		t.Errorf("issue count = %d, want 0: %+v", len(issues), issues)
	}
}

func TestParseCompilerOutput_MultipleDiagnostics(t *testing.T) {
	output := "a.ts(1,1): error TS2304: Cannot find name 'x'.\n" +
		"b.ts(2,3): warning TS6133: 'y' is declared but its value is never read.\n"

	issues := parseCompilerOutput([]byte(output))
	if len(issues) != 2 {
		t.Fatalf("issue count = %d, want 2", len(issues))
	}
	if issues[1].Severity != check.SeverityWarning {
		t.Errorf("second severity = %v, want warning", issues[1].Severity)
	}
}
