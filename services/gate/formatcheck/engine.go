// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package formatcheck

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/AleutianAI/codegate/services/gate/check"
)

// toolName is the formatter binary the engine drives.
const toolName = "prettier"

// ruleID tags every formatting difference. The identifier matches the
// formatter's lint-integration rule name so the autopilot classification
// tables treat both entry points identically.
const ruleID = "prettier/prettier"

// Engine wraps the formatter as a check.Checker.
//
// Thread Safety: Safe for concurrent use.
type Engine struct {
	workingDir string

	// runTool renders one file through the formatter. Overridable in tests.
	runTool func(ctx context.Context, dir string, args []string) ([]byte, []byte, error)

	// lookPath probes for the formatter binary. Overridable in tests.
	lookPath func(file string) (string, error)
}

// Option configures the Engine.
type Option func(*Engine)

// WithWorkingDir sets the directory the formatter executes in.
func WithWorkingDir(dir string) Option {
	return func(e *Engine) {
		e.workingDir = dir
	}
}

// NewEngine creates a format engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		runTool:  runFormatter,
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the underlying tool name.
func (e *Engine) Name() string { return toolName }

// Engine returns the engine tag for issues this checker produces.
func (e *Engine) Engine() check.Engine { return check.EngineFormat }

// Check verifies formatting of the configured files.
//
// Description:
//
//	Renders each file through the formatter and compares the rendering
//	against the on-disk content. Unformatted files yield one issue each;
//	with Fix set, the rendering is written back atomically instead. A
//	file the formatter cannot parse yields an error issue and processing
//	continues with the remaining files.
//
// Inputs:
//
//	ctx - Context for cancellation; checked between files
//	cfg - Files to verify, fix flag, optional working directory
//
// Outputs:
//
//	*check.Result - One issue per unformatted or unparseable file
//	error - check.ErrToolMissing (wrapped) if the formatter is not
//	    installed, or ErrInvalidInput for bad arguments
//
// Thread Safety: Safe for concurrent use on disjoint file sets.
func (e *Engine) Check(ctx context.Context, cfg check.Config) (*check.Result, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: ctx must not be nil", check.ErrInvalidInput)
	}
	if len(cfg.Files) == 0 {
		return nil, fmt.Errorf("%w: files must not be empty", check.ErrInvalidInput)
	}

	ctx, span := startFormatSpan(ctx, len(cfg.Files), cfg.Fix)
	defer span.End()
	start := time.Now()

	if _, err := e.lookPath(toolName); err != nil {
		return nil, check.NewToolError(toolName, check.EngineFormat, check.ErrToolMissing)
	}

	workDir := cfg.WorkingDir
	if workDir == "" {
		workDir = e.workingDir
	}

	var issues []check.Issue
	var modified []string
	fixedCount := 0

	for _, file := range cfg.Files {
		// Cancellation is a non-verdict: drop accumulated issues.
		if ctx.Err() != nil {
			return check.EmptyResult(time.Since(start)), nil
		}

		issue, wrote, err := e.checkFile(ctx, workDir, file, cfg.Fix)
		if err != nil {
			return nil, err
		}
		if wrote {
			modified = append(modified, file)
			fixedCount++
		}
		if issue != nil {
			issues = append(issues, *issue)
		}
	}

	result := check.NewResult(issues, time.Since(start))
	result.Fixable = hasFixable(issues)
	result.FixedCount = fixedCount
	result.ModifiedFiles = modified

	setFormatSpanResult(span, len(result.Issues), result.Success)
	recordFormatMetrics(ctx, time.Since(start), len(result.Issues), result.Success)

	slog.Debug("Format check completed",
		slog.Int("files", len(cfg.Files)),
		slog.Int("issues", len(result.Issues)),
		slog.Int("fixed", fixedCount),
		slog.Duration("duration", result.Duration),
	)

	return result, nil
}

// checkFile renders one file and diffs or rewrites it.
//
// Returns the issue for the file (nil when clean or fixed) and whether
// the file was rewritten.
func (e *Engine) checkFile(ctx context.Context, workDir, file string, fix bool) (*check.Issue, bool, error) {
	current, err := os.ReadFile(file)
	if err != nil {
		// Missing file is an engine-specific error issue, not a thrown
		// exception.
		return &check.Issue{
			Engine:   check.EngineFormat,
			Severity: check.SeverityError,
			File:     file,
			Message:  fmt.Sprintf("reading file: %v", err),
		}, false, nil
	}

	formatted, stderr, err := e.runTool(ctx, workDir, []string{file})
	if ctx.Err() != nil {
		return nil, false, nil
	}
	if err != nil {
		// The formatter rejects files it cannot parse (syntax errors).
		msg := string(bytes.TrimSpace(stderr))
		if msg == "" {
			msg = err.Error()
		}
		return &check.Issue{
			Engine:   check.EngineFormat,
			Severity: check.SeverityError,
			File:     file,
			Message:  msg,
		}, false, nil
	}

	if bytes.Equal(current, formatted) {
		return nil, false, nil
	}

	if fix {
		if err := check.WriteFileAtomic(file, formatted); err != nil {
			return &check.Issue{
				Engine:   check.EngineFormat,
				Severity: check.SeverityError,
				File:     file,
				Message:  fmt.Sprintf("applying format: %v", err),
			}, false, nil
		}
		return nil, true, nil
	}

	return &check.Issue{
		Engine:     check.EngineFormat,
		Severity:   check.SeverityWarning,
		Rule:       ruleID,
		File:       file,
		Line:       firstDiffLine(current, formatted),
		Column:     1,
		Message:    "File is not formatted",
		Suggestion: fmt.Sprintf("Run %s --write %s", toolName, file),
	}, false, nil
}

// hasFixable reports whether any issue is a mechanical formatting diff.
func hasFixable(issues []check.Issue) bool {
	for _, issue := range issues {
		if issue.Rule == ruleID {
			return true
		}
	}
	return false
}

// firstDiffLine returns the 1-based line where two contents diverge.
func firstDiffLine(a, b []byte) int {
	aLines := bytes.Split(a, []byte("\n"))
	bLines := bytes.Split(b, []byte("\n"))

	n := len(aLines)
	if len(bLines) < n {
		n = len(bLines)
	}
	for i := 0; i < n; i++ {
		if !bytes.Equal(aLines[i], bLines[i]) {
			return i + 1
		}
	}
	if len(aLines) != len(bLines) {
		return n + 1
	}
	return 1
}

// runFormatter renders one file through the formatter binary.
func runFormatter(ctx context.Context, dir string, args []string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, toolName, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
