// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package typecheck

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
)

// configFileName is the project configuration file the engine resolves.
const configFileName = "tsconfig.json"

// ErrConfigNotFound indicates no project configuration file was found in
// any ancestor directory of the search root.
var ErrConfigNotFound = errors.New("no " + configFileName + " found")

// findProjectConfig searches upward for the nearest project configuration.
//
// Description:
//
//	Walks from the given directory toward the filesystem root and returns
//	the first tsconfig.json encountered. An empty search root falls back
//	to the process working directory.
//
// Inputs:
//
//	from - Directory to search upward from
//
// Outputs:
//
//	string - Absolute path to the configuration file
//	error - ErrConfigNotFound if the walk reaches the root without a hit
func findProjectConfig(from string) (string, error) {
	if from == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		from = wd
	}

	dir, err := filepath.Abs(from)
	if err != nil {
		return "", fmt.Errorf("resolving search root: %w", err)
	}

	for {
		candidate := filepath.Join(dir, configFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: searched upward from %s", ErrConfigNotFound, from)
		}
		dir = parent
	}
}

// projectConfig is the subset of the configuration file the engine reads.
// The compiler interprets the full file itself; this exists to surface
// parse errors as a single issue before invoking it.
type projectConfig struct {
	CompilerOptions map[string]any `json:"compilerOptions"`
	Include         []string       `json:"include"`
	Exclude         []string       `json:"exclude"`
	Files           []string       `json:"files"`
	Extends         string         `json:"extends"`
}

// validateProjectConfig reads and parses the configuration file.
//
// Description:
//
//	The configuration dialect permits comments and trailing commas, so
//	both are stripped before strict JSON parsing. A parse failure is
//	returned as an error for the caller to convert into issue data.
//
// Inputs:
//
//	path - Path to the configuration file
//
// Outputs:
//
//	error - Non-nil if the file is unreadable or unparseable
func validateProjectConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg projectConfig
	if err := json.Unmarshal(stripJSONC(data), &cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// buildInfoPathFor derives a stable per-project artifact path.
func buildInfoPathFor(cacheDir, configPath string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(configPath))
	return filepath.Join(cacheDir, fmt.Sprintf("%x.tsbuildinfo", h.Sum64()))
}

// stripJSONC removes // and /* */ comments plus trailing commas so the
// configuration parses as strict JSON. String literals are respected.
func stripJSONC(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString := false
	escaped := false

	for i := 0; i < len(data); i++ {
		c := data[i]

		if inString {
			out = append(out, c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
			out = append(out, c)
		case c == '/' && i+1 < len(data) && data[i+1] == '/':
			for i < len(data) && data[i] != '\n' {
				i++
			}
			if i < len(data) {
				out = append(out, '\n')
			}
		case c == '/' && i+1 < len(data) && data[i+1] == '*':
			i += 2
			for i+1 < len(data) && !(data[i] == '*' && data[i+1] == '/') {
				i++
			}
			i++ // skip closing '/'
		case c == ',':
			// Drop the comma if the next non-whitespace byte closes a scope.
			j := i + 1
			for j < len(data) && (data[j] == ' ' || data[j] == '\t' || data[j] == '\n' || data[j] == '\r') {
				j++
			}
			if j < len(data) && (data[j] == '}' || data[j] == ']') {
				continue
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}

	return out
}
