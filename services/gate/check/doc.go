// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package check defines the shared diagnostic model for all analysis engines.
//
// Every engine adapter (typecheck, lint, formatcheck) normalizes its
// tool-specific output into the Issue and Result types defined here, so
// nothing upstream of the aggregator needs to know which tool produced a
// finding beyond the Engine tag.
//
// # Model
//
//	| Type    | Purpose                                        |
//	|---------|------------------------------------------------|
//	| Issue   | One diagnostic from one engine (1-based pos)   |
//	| Result  | One engine's outcome for one Check invocation  |
//	| Config  | Per-invocation settings passed to an engine    |
//	| Checker | Contract every engine adapter implements       |
//
// # Invariants
//
//   - Issue.Line >= 1 and Issue.Column >= 1. A diagnostic with no
//     resolvable location is pinned to the working directory at 1:1.
//   - Result is immutable once returned from Check.
//   - Result.Success is true iff the issue list is empty.
//
// # Thread Safety
//
// All types in this package are plain values; treat them as immutable
// after creation.
package check
