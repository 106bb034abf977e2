// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package autopilot

import (
	"path/filepath"
	"strings"
)

// =============================================================================
// FILE CONTEXT PREDICATES
// =============================================================================

// testDirMarkers are path segments signaling test code.
var testDirMarkers = []string{"test", "tests", "__tests__", "spec", "__mocks__"}

// devDirMarkers are path segments signaling development/debug tooling.
var devDirMarkers = []string{"scripts", "tools", "dev", "debug", "fixtures"}

// uiExtensions are component-style file extensions.
var uiExtensions = map[string]struct{}{
	".tsx":    {},
	".jsx":    {},
	".vue":    {},
	".svelte": {},
}

// IsTestFile reports whether the path signals test code.
//
// Description:
//
//	True when the path contains a test/spec directory segment or the
//	filename carries a .test. / .spec. / _test marker.
//
// Inputs:
//
//	path - File path, absolute or relative
//
// Outputs:
//
//	bool - True for test files
func IsTestFile(path string) bool {
	if hasDirMarker(path, testDirMarkers) {
		return true
	}
	base := strings.ToLower(filepath.Base(path))
	return strings.Contains(base, ".test.") ||
		strings.Contains(base, ".spec.") ||
		strings.Contains(base, "_test.")
}

// IsDevFile reports whether the path signals development/debug tooling.
func IsDevFile(path string) bool {
	if hasDirMarker(path, devDirMarkers) {
		return true
	}
	base := strings.ToLower(filepath.Base(path))
	return strings.Contains(base, ".config.") || strings.HasPrefix(base, "debug")
}

// IsUIFile reports whether the path signals a UI component.
func IsUIFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := uiExtensions[ext]; ok {
		return true
	}
	return hasDirMarker(path, []string{"components", "views", "pages"})
}

// hasDirMarker reports whether any path segment equals a marker.
func hasDirMarker(path string, markers []string) bool {
	normalized := strings.ToLower(filepath.ToSlash(path))
	for _, segment := range strings.Split(normalized, "/") {
		for _, marker := range markers {
			if segment == marker {
				return true
			}
		}
	}
	return false
}

// =============================================================================
// CONTEXT-DEPENDENT RULE DECISIONS
// =============================================================================

// debugStatementRules always auto-fix regardless of file type: debugger
// statements are never intentional in committed code. This is one of the
// two hard-coded exceptions layered on the classification tables.
var debugStatementRules = ruleSet("no-debugger")

// loggingRules are preserved verbatim in test files, which may
// intentionally assert on logged output. The second hard-coded exception.
var loggingRules = ruleSet("no-console")

// CheckContext decides whether a CONTEXT_DEPENDENT rule may auto-fix at
// the given file path.
//
// Description:
//
//	Combines the rule with the file-path predicates. Debug-statement
//	rules auto-fix everywhere. Logging rules auto-fix in production
//	paths but never in test files. Every other CONTEXT_DEPENDENT rule
//	auto-fixes only outside test files and dev tooling.
//
// Inputs:
//
//	rule - The rule identifier (assumed CONTEXT_DEPENDENT)
//	filePath - The file the issue occurred in
//
// Outputs:
//
//	bool - True when the fix may be applied silently
//
// Thread Safety: Safe for concurrent use.
func CheckContext(rule, filePath string) bool {
	if _, ok := debugStatementRules[rule]; ok {
		return true
	}
	if _, ok := loggingRules[rule]; ok {
		return !IsTestFile(filePath)
	}
	return !IsTestFile(filePath) && !IsDevFile(filePath)
}
