// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package watch re-runs the engines whenever watched source files
// change.
//
// File events are debounced: rapid save sequences during active editing
// collapse into one engine run over the union of touched files. Only
// files the engines understand trigger a run; everything else, along
// with dependency and VCS directories, is ignored.
package watch
