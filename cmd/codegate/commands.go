// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "codegate",
	Short: "Multi-engine quality gate for TypeScript and JavaScript files",
	Long: `codegate runs type-checking, linting, and format analysis over a set
of files, merges the diagnostics, auto-fixes what is mechanically safe,
and reports the rest.

It is consumed two ways: interactively via 'codegate check', and as a
non-interactive post-write hook via 'codegate hook', where the exit
code carries the verdict (0 continue, 1 tooling failure, 2 blocked).`,
	SilenceUsage: true,
}
