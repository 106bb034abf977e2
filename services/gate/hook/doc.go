// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package hook implements the non-interactive post-write invocation
// mode: an agent writes a file, then invokes this tool with a JSON
// payload on stdin describing the edit. The hook analyzes the touched
// file, applies silently-fixable issues in place, and communicates the
// verdict purely through the exit code:
//
//	0 - continue (clean, fixed silently, or file not analyzable)
//	1 - the hook itself failed (malformed payload, tool missing)
//	2 - quality issues block the edit
//
// Payload parsing failures never masquerade as quality verdicts.
package hook
