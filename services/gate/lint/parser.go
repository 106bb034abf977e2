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
	"encoding/json"
	"fmt"

	"github.com/AleutianAI/codegate/services/gate/check"
)

// =============================================================================
// LINTER OUTPUT PARSER
// =============================================================================

// linterOutput represents the JSON output from the linter.
type linterOutput []linterFile

type linterFile struct {
	FilePath            string          `json:"filePath"`
	Messages            []linterMessage `json:"messages"`
	ErrorCount          int             `json:"errorCount"`
	WarningCount        int             `json:"warningCount"`
	FixableErrorCount   int             `json:"fixableErrorCount"`
	FixableWarningCount int             `json:"fixableWarningCount"`

	// Output is the fixed file content, present only in fix mode when
	// the linter produced changes for this file.
	Output string `json:"output,omitempty"`
}

type linterMessage struct {
	RuleID      string             `json:"ruleId"`
	Severity    int                `json:"severity"` // 1 = warning, 2 = error
	Message     string             `json:"message"`
	Line        int                `json:"line"`
	Column      int                `json:"column"`
	EndLine     int                `json:"endLine"`
	EndColumn   int                `json:"endColumn"`
	Fix         *linterFix         `json:"fix"`
	Suggestions []linterSuggestion `json:"suggestions"`
}

type linterFix struct {
	Range [2]int `json:"range"`
	Text  string `json:"text"`
}

type linterSuggestion struct {
	Desc string    `json:"desc"`
	Fix  linterFix `json:"fix"`
}

// report is the normalized parse of one linter invocation.
type report struct {
	// issues are the normalized diagnostics.
	issues []check.Issue

	// outputs maps file path to fixed content (fix mode only).
	outputs map[string]string

	// fixableCount is the number of messages carrying a mechanical fix.
	fixableCount int
}

// parseLinterOutput parses JSON output from the linter.
//
// Description:
//
//	The linter produces an array of per-file results; each file result
//	contains messages with severity, rule, position, and optional fix
//	information. Empty output parses to an empty report.
//
// Inputs:
//
//	data - Raw JSON output from the linter
//
// Outputs:
//
//	*report - Parsed issues, fix outputs, and fixable count
//	error - Non-nil if JSON parsing fails
func parseLinterOutput(data []byte) (*report, error) {
	rep := &report{outputs: make(map[string]string)}

	if len(bytes.TrimSpace(data)) == 0 {
		return rep, nil
	}

	var output linterOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parsing %s output: %w", toolName, err)
	}

	for _, file := range output {
		if file.Output != "" {
			rep.outputs[file.FilePath] = file.Output
		}

		for _, msg := range file.Messages {
			issue := check.Issue{
				Engine:    check.EngineLint,
				Severity:  mapLinterSeverity(msg.Severity),
				Rule:      msg.RuleID,
				File:      file.FilePath,
				Line:      msg.Line,
				Column:    msg.Column,
				EndLine:   msg.EndLine,
				EndColumn: msg.EndColumn,
				Message:   msg.Message,
			}

			if msg.Fix != nil {
				rep.fixableCount++
			}
			if len(msg.Suggestions) > 0 {
				issue.Suggestion = msg.Suggestions[0].Desc
			}

			rep.issues = append(rep.issues, issue)
		}
	}

	return rep, nil
}

// mapLinterSeverity maps the linter's numeric severity to check.Severity.
func mapLinterSeverity(severity int) check.Severity {
	if severity >= 2 {
		return check.SeverityError
	}
	return check.SeverityWarning
}
