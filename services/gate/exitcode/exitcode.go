// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package exitcode

import (
	"fmt"

	"github.com/AleutianAI/codegate/services/gate/enforce"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// CodeContinue signals the invoking agent may proceed.
	CodeContinue = 0

	// CodeToolingFailure signals the gate itself failed, not the code
	// under analysis.
	CodeToolingFailure = 1

	// CodeBlocked signals a quality verdict: blocked or unfixed issues.
	CodeBlocked = 2
)

// Decision is the final answer of the exit-code table.
//
// Thread Safety: Immutable after creation.
type Decision struct {
	// ExitCode is the process exit code.
	ExitCode int `json:"exit_code"`

	// ShouldOutput indicates whether Message is written at all.
	ShouldOutput bool `json:"should_output"`

	// UseStderr routes Message to stderr instead of stdout.
	UseStderr bool `json:"use_stderr"`

	// Message is the text to emit when ShouldOutput is set.
	Message string `json:"message,omitempty"`
}

// =============================================================================
// DECISION TABLE
// =============================================================================

// DetermineExitCode maps an enforcement result plus an optional
// hook-level error to the final exit decision.
//
// Description:
//
//	Pure decision table, evaluated top to bottom:
//
//	  1. hookErr present          -> 1, output to stderr
//	  2. silent and not blocked   -> 0, no output
//	  3. blocked                  -> 2, output to stderr
//	  4. unfixed issues remain    -> 2, output to stderr
//	  5. nothing to report        -> 0, no output
//	  6. anything unrecognized    -> 2, output to stderr
//
//	A tooling failure always wins over a quality verdict.
//
// Inputs:
//
//	result - The enforcement verdict
//	hookErr - Hook-level error, nil in the normal path
//
// Outputs:
//
//	Decision - Exit code and output routing
//
// Thread Safety: Safe for concurrent use.
func DetermineExitCode(result enforce.Result, hookErr error) Decision {
	switch {
	case hookErr != nil:
		return Decision{
			ExitCode:     CodeToolingFailure,
			ShouldOutput: true,
			UseStderr:    true,
			Message:      fmt.Sprintf("hook failed: %v", hookErr),
		}

	case result.Silent && !result.Blocked:
		return Decision{ExitCode: CodeContinue}

	case result.Blocked:
		return Decision{
			ExitCode:     CodeBlocked,
			ShouldOutput: true,
			UseStderr:    true,
			Message:      result.Message,
		}

	case result.Classification.UnfixableCount > 0:
		return Decision{
			ExitCode:     CodeBlocked,
			ShouldOutput: true,
			UseStderr:    true,
			Message:      result.Message,
		}

	case result.Classification.UnfixableCount == 0 && result.Message == "":
		return Decision{ExitCode: CodeContinue}

	default:
		// Conservative fallback: an unrecognized shape is treated as a
		// quality verdict, never as silent success.
		return Decision{
			ExitCode:     CodeBlocked,
			ShouldOutput: true,
			UseStderr:    true,
			Message:      result.Message,
		}
	}
}

// DetermineParseErrorExitCode maps malformed hook input to its exit
// decision. Malformed automation input is categorically a tooling
// failure, never a quality verdict.
func DetermineParseErrorExitCode(err error) Decision {
	message := "failed to parse hook input"
	if err != nil {
		message = fmt.Sprintf("failed to parse hook input: %v", err)
	}
	return Decision{
		ExitCode:     CodeToolingFailure,
		ShouldOutput: true,
		UseStderr:    true,
		Message:      message,
	}
}
