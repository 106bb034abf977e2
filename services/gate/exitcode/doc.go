// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package exitcode maps enforcement outcomes to process exit codes for
// the automation-hook contract.
//
// Exit codes carry semantics to the invoking agent:
//
//	0 - continue: no issues, or everything was fixed silently
//	1 - tooling failure: hook error or malformed hook input
//	2 - quality verdict: blocked, or unfixed issues remain
//
// DetermineExitCode is a pure decision table over an
// enforce.Result plus an optional hook-level error. Tooling failures
// always win over quality verdicts: a hook error yields exit 1 no
// matter what the enforcement layer decided.
package exitcode
