// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package typecheck adapts the TypeScript compiler into the shared
// check.Checker contract with incremental-compilation caching.
//
// The engine resolves the nearest tsconfig.json upward from the first
// target file, then drives `tsc --noEmit --incremental` against the whole
// project (not just the files under check) so cross-file type dependencies
// keep correct incremental semantics. The persisted build-info artifact
// lives under a configurable cache directory and is reused across calls.
//
// # Cache State Machine
//
//	cold ──first Check──▶ warm ──Check──▶ warm (program reused)
//	warm ──ClearCache──▶ clearing ──▶ cleared ≡ cold
//
// A Check call racing an in-flight ClearCache observes the clearing state
// and returns an empty successful result instead of rebuilding mid-clear.
//
// # Failure Semantics
//
//   - Missing or unparseable tsconfig.json: Success=false with a single
//     error issue, never a returned error.
//   - Compiler binary absent (degraded environment): empty successful
//     result so the remaining engines can still run.
//
// # Thread Safety
//
// A single Engine instance serializes Check and ClearCache through one
// internal lock; the program state is exclusively owned by its instance.
package typecheck
