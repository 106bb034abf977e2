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
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/AleutianAI/codegate/services/gate/check"
)

// toolName is the compiler binary the engine drives.
const toolName = "tsc"

// =============================================================================
// CACHE STATE
// =============================================================================

// cacheState tracks the lifecycle of the incremental compilation unit.
type cacheState int

const (
	// stateCold means no program has been constructed yet.
	stateCold cacheState = iota

	// stateWarm means a program exists and is reused across Check calls.
	stateWarm

	// stateClearing means a ClearCache is in flight; Check calls observing
	// this state return an empty successful result instead of rebuilding.
	stateClearing

	// stateCleared means the cache was explicitly reset; the next Check
	// rebuilds from scratch.
	stateCleared
)

// String returns the string representation of the cache state.
func (s cacheState) String() string {
	switch s {
	case stateCold:
		return "cold"
	case stateWarm:
		return "warm"
	case stateClearing:
		return "clearing"
	case stateCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// program is the in-memory handle onto the incremental compilation unit.
//
// The heavy cross-file analysis state lives in the compiler's persisted
// build-info artifact; program pins the resolved project identity so warm
// Check calls skip configuration re-resolution.
//
// Thread Safety: Exclusively owned by one Engine instance.
type program struct {
	// configPath is the resolved project configuration file.
	configPath string

	// buildInfoPath is the persisted incremental build-info artifact.
	buildInfoPath string

	// createdAt records when this unit was constructed (cold start).
	createdAt time.Time
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine wraps the TypeScript compiler as a check.Checker.
//
// Thread Safety: Safe for concurrent use; Check and ClearCache on the
// same instance serialize through an internal lock.
type Engine struct {
	mu       sync.Mutex
	state    cacheState
	program  *program
	cacheDir string

	// runTool executes the compiler. Overridable in tests.
	runTool func(ctx context.Context, dir string, args []string) ([]byte, error)

	// lookPath probes for the compiler binary. Overridable in tests.
	lookPath func(file string) (string, error)
}

// Option configures the Engine.
type Option func(*Engine)

// WithCacheDir overrides where the build-info artifact is persisted.
func WithCacheDir(dir string) Option {
	return func(e *Engine) {
		e.cacheDir = dir
	}
}

// NewEngine creates a type-check engine.
//
// Description:
//
//	The engine starts cold; the first Check resolves the project
//	configuration and constructs the incremental compilation unit.
//
// Inputs:
//
//	opts - Optional configuration options
//
// Outputs:
//
//	*Engine - The configured engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		state:    stateCold,
		cacheDir: filepath.Join(os.TempDir(), "codegate-typecheck"),
		runTool:  runCompiler,
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
func (e *Engine) Engine() check.Engine { return check.EngineTypeCheck }

// Check type-checks the configured files.
//
// Description:
//
//	On a cold start, resolves the nearest tsconfig.json upward from the
//	first target file (or the working directory) and constructs the
//	incremental compilation unit rooted at the full project file set.
//	Warm calls reuse the unit; only issues attached to the requested
//	files (plus project-level diagnostics with no file) are reported.
//
// Inputs:
//
//	ctx - Context for cancellation and caller-enforced timeouts
//	cfg - Files to query, optional cache directory override
//
// Outputs:
//
//	*check.Result - Normalized diagnostics; empty successful result on
//	    cancellation, in-flight clear, or a degraded environment
//	error - Only for invalid input; tool failures become issue data
//
// Thread Safety: Safe for concurrent use across instances. A Check racing
// a ClearCache on the same instance returns an empty successful result.
func (e *Engine) Check(ctx context.Context, cfg check.Config) (*check.Result, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: ctx must not be nil", check.ErrInvalidInput)
	}
	if len(cfg.Files) == 0 {
		return nil, fmt.Errorf("%w: files must not be empty", check.ErrInvalidInput)
	}

	ctx, span := startCheckSpan(ctx, len(cfg.Files))
	defer span.End()
	start := time.Now()

	// Cancellation check before touching engine state.
	if ctx.Err() != nil {
		return check.EmptyResult(time.Since(start)), nil
	}

	prog, result := e.acquireProgram(cfg, start)
	if result != nil {
		recordCheckMetrics(ctx, time.Since(start), len(result.Issues), result.Success)
		return result, nil
	}

	// Degraded environment: compiler gone entirely. Do not fail the run;
	// the remaining engines can still produce a verdict.
	if _, err := e.lookPath(toolName); err != nil {
		slog.Warn("Type-check compiler unavailable, skipping",
			slog.String("tool", toolName),
		)
		setCheckSpanResult(span, 0, false)
		return check.EmptyResult(time.Since(start)), nil
	}

	// Cancellation check before invoking the compiler.
	if ctx.Err() != nil {
		return check.EmptyResult(time.Since(start)), nil
	}

	args := []string{
		"--noEmit",
		"--incremental",
		"--tsBuildInfoFile", prog.buildInfoPath,
		"--pretty", "false",
		"-p", prog.configPath,
	}
	output, err := e.runTool(ctx, filepath.Dir(prog.configPath), args)

	if ctx.Err() != nil {
		// Cancelled mid-run: no verdict, never a partial result.
		return check.EmptyResult(time.Since(start)), nil
	}
	if err != nil && len(output) == 0 {
		// The compiler exits non-zero when diagnostics exist, so a bare
		// error with no output is an execution failure, not a finding.
		result := check.FailureResult(check.EngineTypeCheck,
			fmt.Sprintf("%s failed: %v", toolName, err), time.Since(start))
		recordCheckMetrics(ctx, time.Since(start), 1, false)
		return result, nil
	}

	diags := parseCompilerOutput(output)
	issues := filterIssues(diags, cfg.Files, filepath.Dir(prog.configPath))

	result = check.NewResult(issues, time.Since(start))
	setCheckSpanResult(span, len(result.Issues), result.Success)
	recordCheckMetrics(ctx, time.Since(start), len(result.Issues), result.Success)

	slog.Debug("Type-check completed",
		slog.String("config", prog.configPath),
		slog.Duration("duration", result.Duration),
		slog.Int("issues", len(result.Issues)),
	)

	return result, nil
}

// acquireProgram returns the warm program, constructing it on a cold start.
//
// Returns a non-nil result instead of a program when the call must short
// circuit: an in-flight clear, or a project-configuration failure.
func (e *Engine) acquireProgram(cfg check.Config, start time.Time) (*program, *check.Result) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == stateClearing {
		slog.Debug("Check observed in-flight cache clear, returning no verdict")
		return nil, check.EmptyResult(time.Since(start))
	}

	if e.state == stateWarm && e.program != nil {
		return e.program, nil
	}

	// Cold (or cleared, which is equivalent): resolve the project.
	searchFrom := cfg.WorkingDir
	if len(cfg.Files) > 0 {
		searchFrom = filepath.Dir(cfg.Files[0])
	}
	configPath, err := findProjectConfig(searchFrom)
	if err != nil {
		return nil, check.FailureResult(check.EngineTypeCheck,
			fmt.Sprintf("project configuration not found: %v", err), time.Since(start))
	}
	if err := validateProjectConfig(configPath); err != nil {
		return nil, check.FailureResult(check.EngineTypeCheck,
			fmt.Sprintf("project configuration invalid: %v", err), time.Since(start))
	}

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = e.cacheDir
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, check.FailureResult(check.EngineTypeCheck,
			fmt.Sprintf("cache directory: %v", err), time.Since(start))
	}

	e.program = &program{
		configPath:    configPath,
		buildInfoPath: buildInfoPathFor(cacheDir, configPath),
		createdAt:     time.Now(),
	}
	e.state = stateWarm

	slog.Info("Constructed incremental compilation unit",
		slog.String("config", configPath),
		slog.String("build_info", e.program.buildInfoPath),
	)

	return e.program, nil
}

// ClearCache drops the compilation unit and deletes the build-info artifact.
//
// Description:
//
//	Transitions warm → clearing → cleared. The on-disk artifact deletion
//	happens in the clearing window, during which a racing Check returns
//	an empty successful result rather than reconstructing state mid-clear.
//	Idempotent: repeated calls are no-ops and the engine accepts a fresh
//	Check (cold rebuild) afterward.
//
// Outputs:
//
//	error - Non-nil only if the artifact exists and cannot be removed
//
// Thread Safety: Safe for concurrent use.
func (e *Engine) ClearCache() error {
	e.mu.Lock()
	if e.state == stateClearing {
		e.mu.Unlock()
		return nil
	}
	prog := e.program
	e.program = nil
	e.state = stateClearing
	e.mu.Unlock()

	var removeErr error
	if prog != nil {
		if err := os.Remove(prog.buildInfoPath); err != nil && !os.IsNotExist(err) {
			removeErr = fmt.Errorf("removing build info: %w", err)
		}
	}

	e.mu.Lock()
	e.state = stateCleared
	e.mu.Unlock()

	slog.Debug("Type-check cache cleared")
	return removeErr
}

// Dispose releases all engine resources. Equivalent to ClearCache.
func (e *Engine) Dispose() error {
	return e.ClearCache()
}

// warm reports whether the compilation unit currently exists.
func (e *Engine) warm() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == stateWarm && e.program != nil
}

// =============================================================================
// COMPILER EXECUTION
// =============================================================================

// runCompiler invokes the compiler binary and returns its stdout.
func runCompiler(ctx context.Context, dir string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, toolName, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil && stdout.Len() == 0 {
		return nil, check.NewToolError(toolName, check.EngineTypeCheck, err).
			WithOutput(stderr.String())
	}
	return stdout.Bytes(), err
}

// filterIssues keeps issues attached to the requested files plus
// project-level diagnostics that carry no file association.
//
// The compiler emits diagnostic paths relative to its own working
// directory (the project directory), not the process working directory,
// so relative issue paths resolve against baseDir. Requested files come
// from the caller and resolve against the process working directory.
func filterIssues(issues []check.Issue, files []string, baseDir string) []check.Issue {
	wanted := make(map[string]struct{}, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = f
		}
		wanted[filepath.Clean(abs)] = struct{}{}
	}

	kept := make([]check.Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.File == "" {
			kept = append(kept, issue)
			continue
		}
		path := issue.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if _, ok := wanted[filepath.Clean(path)]; ok {
			issue.File = filepath.Clean(path)
			kept = append(kept, issue)
		}
	}
	return kept
}
