// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package lint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AleutianAI/codegate/services/gate/check"
)

// newTestEngine returns an engine whose linter invocation is stubbed out.
func newTestEngine(t *testing.T, run func(ctx context.Context, dir string, args []string) ([]byte, error)) *Engine {
	t.Helper()
	e := NewEngine()
	e.lookPath = func(string) (string, error) { return "/usr/bin/eslint", nil }
	e.runTool = run
	return e
}

func TestEngine_Check_ToolMissing(t *testing.T) {
	e := NewEngine()
	e.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	_, err := e.Check(context.Background(), check.Config{Files: []string{"/f.ts"}})
	if !errors.Is(err, check.ErrToolMissing) {
		t.Errorf("err = %v, want ErrToolMissing", err)
	}

	var toolErr *check.ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("err = %T, want *check.ToolError", err)
	}
	if toolErr.Tool != "eslint" {
		t.Errorf("Tool = %q", toolErr.Tool)
	}
}

func TestEngine_Check_InvalidInput(t *testing.T) {
	e := newTestEngine(t, nil)
	if _, err := e.Check(context.Background(), check.Config{}); !errors.Is(err, check.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestEngine_Check_CleanRun(t *testing.T) {
	e := newTestEngine(t, func(ctx context.Context, dir string, args []string) ([]byte, error) {
		return []byte(`[{"filePath":"/f.ts","messages":[],"errorCount":0,"warningCount":0}]`), nil
	})

	result, err := e.Check(context.Background(), check.Config{Files: []string{"/f.ts"}})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !result.Success || len(result.Issues) != 0 {
		t.Errorf("result = %+v, want clean success", result)
	}
}

func TestEngine_Check_IssuesReported(t *testing.T) {
	output := `[{"filePath":"/src/app.ts","messages":[
		{"ruleId":"no-unused-vars","severity":2,"message":"'x' is defined but never used.","line":4,"column":7},
		{"ruleId":"semi","severity":1,"message":"Missing semicolon.","line":9,"column":20,"fix":{"range":[120,120],"text":";"}}
	],"errorCount":1,"warningCount":1,"fixableErrorCount":0,"fixableWarningCount":1}]`

	e := newTestEngine(t, func(ctx context.Context, dir string, args []string) ([]byte, error) {
		return []byte(output), errors.New("exit status 1")
	})

	result, err := e.Check(context.Background(), check.Config{Files: []string{"/src/app.ts"}})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.Success {
		t.Fatal("result should carry issues")
	}
	if len(result.Issues) != 2 {
		t.Fatalf("issue count = %d, want 2", len(result.Issues))
	}
	if !result.Fixable {
		t.Error("Fixable should be true: one message carries a fix")
	}
	if result.Issues[0].Rule != "no-unused-vars" || result.Issues[0].Severity != check.SeverityError {
		t.Errorf("first issue = %+v", result.Issues[0])
	}
	if result.Issues[1].Severity != check.SeverityWarning {
		t.Errorf("second issue severity = %v", result.Issues[1].Severity)
	}
}

func TestEngine_Check_FixModeWritesAtomically(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "app.ts")
	if err := os.WriteFile(target, []byte("const a = 1\n"), 0644); err != nil {
		t.Fatalf("writing target: %v", err)
	}

	plain := fmt.Sprintf(`[{"filePath":%q,"messages":[
		{"ruleId":"semi","severity":2,"message":"Missing semicolon.","line":1,"column":12,"fix":{"range":[11,11],"text":";"}}
	],"errorCount":1,"warningCount":0}]`, target)
	fixed := fmt.Sprintf(`[{"filePath":%q,"messages":[],"errorCount":0,"warningCount":0,"output":"const a = 1;\n"}]`, target)

	e := newTestEngine(t, func(ctx context.Context, dir string, args []string) ([]byte, error) {
		for _, a := range args {
			if a == "--fix-dry-run" {
				return []byte(fixed), nil
			}
		}
		return []byte(plain), errors.New("exit status 1")
	})

	result, err := e.Check(context.Background(), check.Config{Files: []string{target}, Fix: true})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !result.Success {
		t.Errorf("all issues fixed, result should be success: %+v", result.Issues)
	}
	if result.FixedCount != 1 {
		t.Errorf("FixedCount = %d, want 1", result.FixedCount)
	}
	if len(result.ModifiedFiles) != 1 || result.ModifiedFiles[0] != target {
		t.Errorf("ModifiedFiles = %v", result.ModifiedFiles)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "const a = 1;\n" {
		t.Errorf("file content = %q", data)
	}
	entries, _ := os.ReadDir(dir)
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", entry.Name())
		}
	}
}

func TestEngine_Check_Cancelled(t *testing.T) {
	e := newTestEngine(t, func(ctx context.Context, dir string, args []string) ([]byte, error) {
		t.Fatal("linter must not run after cancellation")
		return nil, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := e.Check(ctx, check.Config{Files: []string{"/f.ts"}})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !result.Success || len(result.Issues) != 0 {
		t.Errorf("cancelled Check should return empty success, got %+v", result)
	}
}

func TestEngine_Check_ExecutionFailure(t *testing.T) {
	e := newTestEngine(t, func(ctx context.Context, dir string, args []string) ([]byte, error) {
		return nil, errors.New("no such file or directory")
	})

	result, err := e.Check(context.Background(), check.Config{Files: []string{"/missing.ts"}})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.Success {
		t.Error("execution failure should surface as a failed result")
	}
	if len(result.Issues) != 1 || result.Issues[0].Severity != check.SeverityError {
		t.Errorf("issues = %+v, want single error issue", result.Issues)
	}
}

func TestEngine_Check_UnparseableOutput(t *testing.T) {
	e := newTestEngine(t, func(ctx context.Context, dir string, args []string) ([]byte, error) {
		return []byte("not json"), nil
	})

	result, err := e.Check(context.Background(), check.Config{Files: []string{"/f.ts"}})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.Success || len(result.Issues) != 1 {
		t.Errorf("unparseable output should yield single-issue failure, got %+v", result)
	}
}
