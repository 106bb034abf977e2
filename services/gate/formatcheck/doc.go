// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package formatcheck adapts the code-formatting engine (prettier) into
// the shared check.Checker contract.
//
// Files are processed one at a time: the formatter renders each file to
// stdout and the adapter diffs the rendering against the on-disk content.
// A difference becomes one fixable issue located at the first differing
// line. In fix mode the adapter writes the rendered content back through
// a temp-file + atomic-rename sequence.
//
// Cancellation is checked between files; a cancelled run returns an empty
// successful result, never the partial issue list accumulated so far.
//
// # Thread Safety
//
// The engine holds no mutable state between calls and is safe for
// concurrent use; fix mode must not run on the same file concurrently.
package formatcheck
