// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package check

import (
	"context"
	"os"
	"strconv"
	"time"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine identifies which analysis engine produced an issue.
type Engine int

const (
	// EngineTypeCheck is the static type-checking engine.
	EngineTypeCheck Engine = iota

	// EngineLint is the style/lint engine.
	EngineLint

	// EngineFormat is the code-formatting engine.
	EngineFormat
)

// String returns the string representation of the engine.
func (e Engine) String() string {
	switch e {
	case EngineTypeCheck:
		return "type-check"
	case EngineLint:
		return "lint"
	case EngineFormat:
		return "format"
	default:
		return "unknown"
	}
}

// =============================================================================
// SEVERITY
// =============================================================================

// Severity represents the severity level of an issue.
type Severity int

const (
	// SeverityWarning represents issues that should be reported but are
	// not on their own sufficient to fail a run.
	SeverityWarning Severity = iota

	// SeverityError represents issues that fail the run.
	SeverityError
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// SeverityFromString parses a severity string.
//
// Description:
//
//	Parses common severity strings from different tools.
//	Unknown values default to SeverityWarning.
//
// Inputs:
//
//	s - Severity string (e.g., "error", "warning")
//
// Outputs:
//
//	Severity - The parsed severity level
func SeverityFromString(s string) Severity {
	switch s {
	case "error", "err", "fatal":
		return SeverityError
	default:
		return SeverityWarning
	}
}

// =============================================================================
// ISSUE
// =============================================================================

// Issue represents a single normalized diagnostic from one engine.
//
// Thread Safety: Immutable after creation.
type Issue struct {
	// Engine is the engine that produced this issue.
	Engine Engine `json:"engine"`

	// Severity is the severity level of the issue.
	Severity Severity `json:"severity"`

	// Rule is the engine-specific rule identifier (e.g., "no-unused-vars",
	// "TS2304"). Empty when the engine has no rule concept for the finding.
	Rule string `json:"rule,omitempty"`

	// File is the absolute path to the file containing the issue.
	File string `json:"file"`

	// Line is the 1-indexed line number where the issue occurs.
	Line int `json:"line"`

	// Column is the 1-indexed column number where the issue occurs.
	Column int `json:"column"`

	// EndLine is the ending line for multi-line issues. Zero when unknown.
	EndLine int `json:"end_line,omitempty"`

	// EndColumn is the ending column for the issue. Zero when unknown.
	EndColumn int `json:"end_column,omitempty"`

	// Message is the human-readable description of the issue.
	Message string `json:"message"`

	// Suggestion is a suggested fix if the tool provided one.
	Suggestion string `json:"suggestion,omitempty"`
}

// Location returns a formatted location string (file:line:col).
func (i *Issue) Location() string {
	return i.File + ":" + strconv.Itoa(i.Line) + ":" + strconv.Itoa(i.Column)
}

// Normalize clamps the issue onto the model invariants.
//
// Description:
//
//	Guarantees Line >= 1 and Column >= 1 and pins issues with no
//	resolvable file onto the process working directory. Engines call
//	this on every issue before returning it across the adapter boundary.
//
// Outputs:
//
//	Issue - A copy of the issue satisfying the location invariants
func (i Issue) Normalize() Issue {
	if i.File == "" {
		if wd, err := os.Getwd(); err == nil {
			i.File = wd
		} else {
			i.File = "."
		}
	}
	if i.Line < 1 {
		i.Line = 1
	}
	if i.Column < 1 {
		i.Column = 1
	}
	return i
}

// =============================================================================
// RESULT
// =============================================================================

// Result contains one engine's outcome for one Check invocation.
//
// Thread Safety: Immutable after creation by the engine.
type Result struct {
	// Success is true iff Issues is empty.
	Success bool `json:"success"`

	// Issues are the normalized diagnostics found by the engine.
	Issues []Issue `json:"issues"`

	// Duration is how long the engine took to run.
	Duration time.Duration `json:"duration"`

	// Fixable indicates at least one issue is mechanically fixable.
	Fixable bool `json:"fixable,omitempty"`

	// FixedCount is the number of issues the engine fixed in place
	// when fix mode was requested.
	FixedCount int `json:"fixed_count,omitempty"`

	// ModifiedFiles lists files rewritten by a fix run.
	ModifiedFiles []string `json:"modified_files,omitempty"`
}

// NewResult builds a result from a set of issues.
//
// Description:
//
//	Normalizes every issue and derives Success from the issue count so
//	callers cannot produce a result violating the Success invariant.
//
// Inputs:
//
//	issues - The diagnostics found, possibly nil
//	duration - Wall-clock time the engine spent
//
// Outputs:
//
//	*Result - The derived result
func NewResult(issues []Issue, duration time.Duration) *Result {
	normalized := make([]Issue, 0, len(issues))
	for _, issue := range issues {
		normalized = append(normalized, issue.Normalize())
	}
	return &Result{
		Success:  len(normalized) == 0,
		Issues:   normalized,
		Duration: duration,
	}
}

// EmptyResult returns a successful result with no issues.
//
// Used for "no verdict" outcomes: cancellation observed mid-run and
// degraded environments where the engine cannot execute at all.
func EmptyResult(duration time.Duration) *Result {
	return &Result{
		Success:  true,
		Issues:   make([]Issue, 0),
		Duration: duration,
	}
}

// FailureResult returns a failed result carrying a single error issue.
//
// Description:
//
//	Wraps an unrecoverable tool-level failure (unparseable project
//	configuration, unrecoverable file-not-found) into a single-issue
//	result instead of an exception, per the propagation policy.
//
// Inputs:
//
//	engine - The engine experiencing the failure
//	message - Human-readable failure description
//	duration - Wall-clock time spent before failing
//
// Outputs:
//
//	*Result - A result with Success=false and exactly one error issue
func FailureResult(engine Engine, message string, duration time.Duration) *Result {
	issue := Issue{
		Engine:   engine,
		Severity: SeverityError,
		Message:  message,
		Line:     1,
		Column:   1,
	}.Normalize()
	return &Result{
		Success:  false,
		Issues:   []Issue{issue},
		Duration: duration,
	}
}

// ErrorCount returns the number of error-severity issues.
func (r *Result) ErrorCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning-severity issues.
func (r *Result) WarningCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			count++
		}
	}
	return count
}

// =============================================================================
// CONFIG
// =============================================================================

// Config holds the per-invocation settings passed to an engine.
//
// Thread Safety: Treat as immutable after creation.
type Config struct {
	// Files are the target files to analyze. Must be non-empty.
	Files []string

	// Fix requests that mechanically fixable issues be fixed in place.
	Fix bool

	// CacheDir overrides where the engine persists incremental state.
	// Empty selects the engine default (under the OS temp directory).
	CacheDir string

	// WorkingDir is the directory relative paths resolve against.
	// Empty selects the process working directory.
	WorkingDir string
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	clone := &Config{
		Files:      make([]string, len(c.Files)),
		Fix:        c.Fix,
		CacheDir:   c.CacheDir,
		WorkingDir: c.WorkingDir,
	}
	copy(clone.Files, c.Files)
	return clone
}

// =============================================================================
// CHECKER
// =============================================================================

// Checker is the contract every engine adapter implements.
//
// Description:
//
//	Check analyzes the configured files and returns a fresh, immutable
//	Result. A cancelled context observed at a suspension point yields an
//	empty successful result ("no verdict"), never a partial one. The only
//	error class Check may return for configuration problems is
//	ErrToolMissing (possibly wrapped); every other failure mode is
//	converted into issue data.
//
// Thread Safety: implementations are safe for concurrent Check calls on
// different instances; a single instance must not be checked concurrently
// with its own ClearCache.
type Checker interface {
	// Name returns the underlying tool name (e.g., "eslint").
	Name() string

	// Engine returns the engine tag for issues this checker produces.
	Engine() Engine

	// Check analyzes the configured files.
	Check(ctx context.Context, cfg Config) (*Result, error)
}
