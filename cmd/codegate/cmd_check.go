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
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/codegate/services/gate/aggregate"
	"github.com/AleutianAI/codegate/services/gate/check"
	"github.com/AleutianAI/codegate/services/gate/config"
)

// Exit codes for the check command.
const (
	CheckExitClean  = 0
	CheckExitError  = 1
	CheckExitIssues = 2
)

var (
	checkTypecheck  bool
	checkLint       bool
	checkFormat     bool
	checkFix        bool
	checkCacheDir   string
	checkTimeout    time.Duration
	checkSequential bool
	checkQuiet      bool
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Run the analysis engines over the given files",
	Long: `Runs the enabled engines over the given files and prints a merged
report. Engine flags narrow the run to a subset; with no engine flag
every enabled engine runs.

Exit Codes:
  0 = No issues
  1 = Tooling failure (missing binaries, bad configuration)
  2 = Issues found`,
	Args: cobra.MinimumNArgs(1),
	Run:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkTypecheck, "typecheck", false,
		"Run only the type-check engine (combinable with --lint/--format)")
	checkCmd.Flags().BoolVar(&checkLint, "lint", false,
		"Run only the lint engine (combinable with --typecheck/--format)")
	checkCmd.Flags().BoolVar(&checkFormat, "format", false,
		"Run only the format engine (combinable with --typecheck/--lint)")
	checkCmd.Flags().BoolVar(&checkFix, "fix", false,
		"Apply mechanically safe fixes in place")
	checkCmd.Flags().StringVar(&checkCacheDir, "cache-dir", "",
		"Incremental compilation cache directory ('off' disables caching)")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 0,
		"Overall time budget (default from settings, 2m)")
	checkCmd.Flags().BoolVar(&checkSequential, "sequential", false,
		"Run engines one at a time instead of concurrently")
	checkCmd.Flags().BoolVar(&checkQuiet, "quiet", false,
		"Only exit code, no report")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	workingDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolve working directory: %v\n", err)
		os.Exit(CheckExitError)
	}

	settings, err := config.Discover(workingDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load settings: %v\n", err)
		os.Exit(CheckExitError)
	}

	cacheDir, _ := config.ResolveCacheDir(checkCacheDir, settings)

	timeout := settings.Timeout.Duration
	if checkTimeout > 0 {
		timeout = checkTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	sel := engineSelection{
		typecheck: checkTypecheck,
		lint:      checkLint,
		format:    checkFormat,
	}
	checkers := buildCheckers(settings, sel, workingDir, cacheDir)
	if len(checkers) == 0 {
		fmt.Fprintln(os.Stderr, "no engines enabled")
		os.Exit(CheckExitError)
	}

	var aggOpts []aggregate.Option
	if checkSequential || settings.Sequential {
		aggOpts = append(aggOpts, aggregate.WithSequential())
	}
	aggregator := aggregate.New(checkers, aggOpts...)

	cfg := check.Config{
		Files:      args,
		Fix:        checkFix && settings.FixEnabled(),
		CacheDir:   cacheDir,
		WorkingDir: workingDir,
	}

	report, err := aggregator.Run(ctx, cfg)
	if err != nil {
		var toolErr *check.ToolError
		if errors.As(err, &toolErr) && errors.Is(err, check.ErrToolMissing) {
			fmt.Fprintf(os.Stderr, "required tool not available: %s\n", toolErr.Tool)
		} else {
			fmt.Fprintf(os.Stderr, "check failed: %v\n", err)
		}
		os.Exit(CheckExitError)
	}

	if !checkQuiet {
		renderReport(os.Stdout, report)
	}

	if len(report.Issues) > 0 || !report.Success {
		os.Exit(CheckExitIssues)
	}
	os.Exit(CheckExitClean)
}
