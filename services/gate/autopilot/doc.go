// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package autopilot decides which issues may be fixed silently and which
// must be reported.
//
// Classification is a pure O(1) lookup across three immutable rule sets
// constructed once at package initialization:
//
//	| Category          | Meaning                             | Confidence |
//	|-------------------|-------------------------------------|------------|
//	| ALWAYS_SAFE       | Mechanical style rules              | 1.0        |
//	| CONTEXT_DEPENDENT | Safe depending on the file context  | 0.8        |
//	| NEVER_AUTO        | Semantics-touching rules            | 1.0        |
//	| (unknown)         | Defaults to NEVER_AUTO              | 0.5        |
//
// Unknown rule identifiers are conservatively never auto-applied.
//
// Context analysis combines CONTEXT_DEPENDENT rules with file-path
// predicates (test file, dev tooling, UI component). Two hard-coded
// special cases sit on top of the tables: debugger statements are always
// stripped regardless of file type (never intentional in committed
// code), while console logging is preserved in test files (tests may
// assert on output) and stripped in production paths. These two cases
// are intentionally not generalized.
//
// The decision engine partitions a result's issues into a fixes set and
// a report set; malformed input degrades to a low-confidence CONTINUE
// rather than failing the pipeline.
//
// # Thread Safety
//
// All functions are pure over immutable package-level tables and safe
// for concurrent use.
package autopilot
