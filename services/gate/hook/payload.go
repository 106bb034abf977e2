// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package hook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrMalformedPayload indicates the stdin payload could not be parsed
// or failed validation.
var ErrMalformedPayload = errors.New("malformed hook payload")

// maxPayloadBytes bounds how much stdin the hook will read.
const maxPayloadBytes = 1 << 20

// ToolInput is the nested edit description inside a payload.
type ToolInput struct {
	// FilePath is the file the agent wrote or edited.
	FilePath string `json:"file_path"`
}

// Payload is the JSON document an agent delivers on stdin after an
// editing action.
//
// Thread Safety: Immutable after creation.
type Payload struct {
	// SessionID identifies the agent session, may be empty.
	SessionID string `json:"session_id"`

	// ToolName is the editing tool that triggered the hook.
	ToolName string `json:"tool_name"`

	// ToolInput describes the edit.
	ToolInput ToolInput `json:"tool_input"`
}

// editingTools are the tool names that signal a file write. Payloads
// from other tools are ignored rather than rejected.
var editingTools = map[string]struct{}{
	"Write":        {},
	"Edit":         {},
	"MultiEdit":    {},
	"NotebookEdit": {},
}

// analyzableExtensions are the file extensions the engines understand.
var analyzableExtensions = map[string]struct{}{
	".ts":  {},
	".tsx": {},
	".js":  {},
	".jsx": {},
	".mts": {},
	".cts": {},
	".mjs": {},
	".cjs": {},
}

// ParsePayload reads and validates a hook payload.
//
// Description:
//
//	Decodes one JSON document from the reader. An unparseable document
//	or a payload missing its file path yields ErrMalformedPayload;
//	callers map that to the parse-error exit code.
//
// Inputs:
//
//	r - The payload source, typically stdin
//
// Outputs:
//
//	*Payload - The parsed payload
//	error - ErrMalformedPayload (wrapped) on bad input
func ParsePayload(r io.Reader) (*Payload, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading stdin: %v", ErrMalformedPayload, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedPayload)
	}

	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if payload.ToolInput.FilePath == "" {
		return nil, fmt.Errorf("%w: missing tool_input.file_path", ErrMalformedPayload)
	}

	return &payload, nil
}

// ShouldAnalyze reports whether this payload warrants an engine run.
//
// Non-editing tools and files outside the engines' language surface
// are skipped; the hook exits 0 without running anything.
func (p *Payload) ShouldAnalyze() bool {
	if _, ok := editingTools[p.ToolName]; !ok {
		return false
	}
	ext := strings.ToLower(filepath.Ext(p.ToolInput.FilePath))
	_, ok := analyzableExtensions[ext]
	return ok
}
