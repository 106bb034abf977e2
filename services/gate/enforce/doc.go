// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package enforce converts an autopilot decision into an enforcement
// result: the blocked/silent verdict plus the human-readable message the
// hook or CLI surfaces.
//
// The enforcement layer sits between the autopilot and the exit-code
// table. It decides whether remaining issues block the editing action
// (any error-severity remainder blocks; a warnings-only remainder is
// reported without blocking) and renders the issue list into a message.
package enforce
