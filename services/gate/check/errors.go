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
	"errors"
	"fmt"
)

// Sentinel errors shared by the engine adapters.
var (
	// ErrToolMissing indicates an engine's underlying tool binary was not
	// found. This is a fatal configuration problem and the only error
	// class allowed to propagate out of the core as an error value.
	ErrToolMissing = errors.New("analysis tool not installed")

	// ErrInvalidInput indicates invalid input to an engine function.
	ErrInvalidInput = errors.New("invalid input")

	// ErrParseOutput indicates failure to parse a tool's output.
	ErrParseOutput = errors.New("failed to parse tool output")
)

// ToolError wraps errors from a specific tool with context.
//
// Thread Safety: Immutable after creation.
type ToolError struct {
	// Tool is the name of the tool that failed (e.g., "eslint").
	Tool string

	// Engine is the engine the tool backs.
	Engine Engine

	// Err is the underlying error.
	Err error

	// Output contains any stderr output from the tool.
	Output string
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s (%s): %v: %s", e.Tool, e.Engine, e.Err, e.Output)
	}
	return fmt.Sprintf("%s (%s): %v", e.Tool, e.Engine, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ToolError) Unwrap() error {
	return e.Err
}

// NewToolError creates a new ToolError.
func NewToolError(tool string, engine Engine, err error) *ToolError {
	return &ToolError{
		Tool:   tool,
		Engine: engine,
		Err:    err,
	}
}

// WithOutput returns a copy of the error with the output field set.
func (e *ToolError) WithOutput(output string) *ToolError {
	return &ToolError{
		Tool:   e.Tool,
		Engine: e.Engine,
		Err:    e.Err,
		Output: output,
	}
}
