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
	"regexp"
	"strconv"
	"strings"

	"github.com/AleutianAI/codegate/services/gate/check"
)

// =============================================================================
// COMPILER OUTPUT PARSER
// =============================================================================

// Diagnostic line shapes emitted with machine-readable output:
//
//	src/app.ts(12,5): error TS2304: Cannot find name 'bar'.
//	error TS18003: No inputs were found in config file 'tsconfig.json'.
//
// The second shape is a project-level diagnostic with no file association;
// it lands on the Issue fallback location during normalization.
var (
	fileDiagRe   = regexp.MustCompile(`^(.+)\((\d+),(\d+)\): (error|warning) (TS\d+): (.*)$`)
	globalDiagRe = regexp.MustCompile(`^(error|warning) (TS\d+): (.*)$`)
)

// parseCompilerOutput parses compiler diagnostics into issues.
//
// Description:
//
//	Scans line-oriented compiler output. Indented continuation lines
//	(related-information output for chained diagnostics) are appended to
//	the preceding issue's message. Unrecognized lines are skipped.
//
// Inputs:
//
//	output - Raw compiler stdout
//
// Outputs:
//
//	[]check.Issue - Parsed diagnostics, positions 1-based
func parseCompilerOutput(output []byte) []check.Issue {
	var issues []check.Issue

	for _, line := range strings.Split(string(output), "\n") {
		trimmed := strings.TrimRight(line, "\r")
		if trimmed == "" {
			continue
		}

		// Continuation of the previous diagnostic's message.
		if (strings.HasPrefix(trimmed, " ") || strings.HasPrefix(trimmed, "\t")) && len(issues) > 0 {
			last := &issues[len(issues)-1]
			last.Message += " " + strings.TrimSpace(trimmed)
			continue
		}

		if m := fileDiagRe.FindStringSubmatch(trimmed); m != nil {
			line, _ := strconv.Atoi(m[2])
			col, _ := strconv.Atoi(m[3])
			issues = append(issues, check.Issue{
				Engine:   check.EngineTypeCheck,
				Severity: check.SeverityFromString(m[4]),
				Rule:     m[5],
				File:     m[1],
				Line:     line,
				Column:   col,
				Message:  m[6],
			})
			continue
		}

		if m := globalDiagRe.FindStringSubmatch(trimmed); m != nil {
			issues = append(issues, check.Issue{
				Engine:   check.EngineTypeCheck,
				Severity: check.SeverityFromString(m[1]),
				Rule:     m[2],
				Message:  m[3],
				Line:     1,
				Column:   1,
			})
		}
	}

	return issues
}
