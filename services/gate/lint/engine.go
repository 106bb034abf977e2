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
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/AleutianAI/codegate/services/gate/check"
)

// toolName is the linter binary the engine drives.
const toolName = "eslint"

// Engine wraps the linter as a check.Checker.
//
// Thread Safety: Safe for concurrent use.
type Engine struct {
	workingDir string

	// runTool executes the linter. Overridable in tests.
	runTool func(ctx context.Context, dir string, args []string) ([]byte, error)

	// lookPath probes for the linter binary. Overridable in tests.
	lookPath func(file string) (string, error)
}

// Option configures the Engine.
type Option func(*Engine)

// WithWorkingDir sets the directory the linter executes in.
func WithWorkingDir(dir string) Option {
	return func(e *Engine) {
		e.workingDir = dir
	}
}

// NewEngine creates a lint engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		runTool:  runLinter,
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
func (e *Engine) Engine() check.Engine { return check.EngineLint }

// Check lints the configured files.
//
// Description:
//
//	Runs the linter with JSON output and normalizes its messages. In fix
//	mode the linter runs once plain (to count fixable issues) and once
//	with --fix-dry-run; fixed file contents from the dry run are written
//	by the adapter via atomic rename, and the returned result carries the
//	remaining unfixed issues plus the modified-file list.
//
// Inputs:
//
//	ctx - Context for cancellation and caller-enforced timeouts
//	cfg - Files to lint, fix flag, optional working directory
//
// Outputs:
//
//	*check.Result - Normalized diagnostics; empty successful result when
//	    the context is cancelled at a suspension point
//	error - check.ErrToolMissing (wrapped) if the linter is not
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

	ctx, span := startLintSpan(ctx, len(cfg.Files), cfg.Fix)
	defer span.End()
	start := time.Now()

	// A linter that cannot be loaded is a configuration problem, not a
	// diagnosable finding. Propagate.
	if _, err := e.lookPath(toolName); err != nil {
		return nil, check.NewToolError(toolName, check.EngineLint, check.ErrToolMissing)
	}

	if ctx.Err() != nil {
		return check.EmptyResult(time.Since(start)), nil
	}

	workDir := cfg.WorkingDir
	if workDir == "" {
		workDir = e.workingDir
	}

	report, result := e.runAndParse(ctx, workDir, cfg.Files, false, start)
	if result != nil {
		recordLintMetrics(ctx, time.Since(start), len(result.Issues), result.Success)
		return result, nil
	}

	if !cfg.Fix {
		result = check.NewResult(report.issues, time.Since(start))
		result.Fixable = report.fixableCount > 0
		setLintSpanResult(span, len(result.Issues), result.Success)
		recordLintMetrics(ctx, time.Since(start), len(result.Issues), result.Success)
		return result, nil
	}

	// Fix mode: dry-run fix, then the adapter performs the writes.
	if ctx.Err() != nil {
		return check.EmptyResult(time.Since(start)), nil
	}

	fixed, result := e.runAndParse(ctx, workDir, cfg.Files, true, start)
	if result != nil {
		recordLintMetrics(ctx, time.Since(start), len(result.Issues), result.Success)
		return result, nil
	}

	var modified []string
	for path, content := range fixed.outputs {
		if err := check.WriteFileAtomic(path, []byte(content)); err != nil {
			fixed.issues = append(fixed.issues, check.Issue{
				Engine:   check.EngineLint,
				Severity: check.SeverityError,
				File:     path,
				Message:  fmt.Sprintf("applying fixes: %v", err),
			})
			continue
		}
		modified = append(modified, path)
	}

	result = check.NewResult(fixed.issues, time.Since(start))
	result.Fixable = fixed.fixableCount > 0
	result.ModifiedFiles = modified
	if delta := len(report.issues) - len(fixed.issues); delta > 0 {
		result.FixedCount = delta
	}

	setLintSpanResult(span, len(result.Issues), result.Success)
	recordLintMetrics(ctx, time.Since(start), len(result.Issues), result.Success)

	slog.Debug("Lint fix completed",
		slog.Int("fixed", result.FixedCount),
		slog.Int("remaining", len(result.Issues)),
		slog.Int("modified_files", len(modified)),
	)

	return result, nil
}

// runAndParse executes the linter and parses its report.
//
// Returns a non-nil result instead of a report when the call must short
// circuit: cancellation, an execution failure, or unparseable output.
func (e *Engine) runAndParse(ctx context.Context, workDir string, files []string, fix bool, start time.Time) (*report, *check.Result) {
	args := []string{"--format", "json"}
	if fix {
		args = append(args, "--fix-dry-run")
	}
	args = append(args, files...)

	output, err := e.runTool(ctx, workDir, args)

	if ctx.Err() != nil {
		return nil, check.EmptyResult(time.Since(start))
	}
	if err != nil && len(output) == 0 {
		// Unrecoverable tool failure (e.g. a file the linter cannot open)
		// becomes a single-issue failure result.
		return nil, check.FailureResult(check.EngineLint,
			fmt.Sprintf("%s failed: %v", toolName, err), time.Since(start))
	}

	rep, perr := parseLinterOutput(output)
	if perr != nil {
		return nil, check.FailureResult(check.EngineLint,
			fmt.Sprintf("%v: %v", check.ErrParseOutput, perr), time.Since(start))
	}
	return rep, nil
}

// runLinter invokes the linter binary and returns its stdout.
//
// The linter exits non-zero when it finds issues, so a non-zero exit with
// JSON on stdout is a normal outcome, not a failure.
func runLinter(ctx context.Context, dir string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, toolName, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil && stdout.Len() == 0 {
		return nil, check.NewToolError(toolName, check.EngineLint, err).
			WithOutput(stderr.String())
	}
	return stdout.Bytes(), err
}
