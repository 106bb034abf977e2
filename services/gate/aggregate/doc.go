// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package aggregate runs the selected analysis engines and merges their
// results into one report.
//
// Engines run concurrently by default, or strictly sequentially when
// deterministic interleaving matters for the caller; both modes produce
// the same success verdict and the same issue set, merged in engine
// registration order so within-engine issue ordering never changes.
//
// Failure isolation: an engine returning an unexpected error (or
// panicking) is converted into a single synthetic issue attributed to
// that engine; the sibling engines still complete. The one exception is
// check.ErrToolMissing, which is a fatal configuration problem and
// propagates out of Run.
package aggregate
