// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package check

import (
	"fmt"
	"os"
)

// WriteFileAtomic writes data to path via a temp file and rename.
//
// Description:
//
//	Engines rewriting files in fix mode must never leave a partially
//	written file behind on crash. The content is written to a sibling
//	temp file first and moved into place with an atomic rename.
//
// Inputs:
//
//	path - Destination file path
//	data - Full replacement content
//
// Outputs:
//
//	error - Non-nil if the write or rename failed
func WriteFileAtomic(path string, data []byte) error {
	info, err := os.Stat(path)
	perm := os.FileMode(0644)
	if err == nil {
		perm = info.Mode().Perm()
	}

	tempPath := path + ".gate.tmp"
	if err := os.WriteFile(tempPath, data, perm); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath) // Clean up temp file
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}
