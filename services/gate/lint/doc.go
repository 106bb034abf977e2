// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package lint adapts the style/lint engine (eslint) into the shared
// check.Checker contract.
//
// The adapter executes the linter with JSON output and normalizes its
// per-file message arrays into check.Issue values. In fix mode the linter
// runs with --fix-dry-run so the adapter itself performs every file write
// through a temp-file + atomic-rename sequence; the linter never touches
// the working tree directly.
//
// A missing linter binary is a fatal configuration problem and surfaces
// as check.ErrToolMissing; a missing target file surfaces as an
// engine-specific error issue instead.
//
// # Thread Safety
//
// The engine holds no mutable state between calls and is safe for
// concurrent use; fix mode must not run on the same file concurrently.
package lint
