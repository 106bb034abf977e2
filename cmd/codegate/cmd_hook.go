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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/codegate/services/gate/aggregate"
	"github.com/AleutianAI/codegate/services/gate/config"
	"github.com/AleutianAI/codegate/services/gate/hook"
)

var hookNoFix bool

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Run as a post-write hook, reading a JSON payload from stdin",
	Long: `Reads an agent hook payload from stdin, analyzes the touched file,
applies silently-fixable issues in place, and reports the rest.

Exit Codes:
  0 = Continue (clean, fixed silently, or file not analyzable)
  1 = Hook failure (malformed payload, tool missing)
  2 = Quality issues block the edit`,
	Args: cobra.NoArgs,
	Run:  runHook,
}

func init() {
	hookCmd.Flags().BoolVar(&hookNoFix, "no-fix", false,
		"Report fixable issues instead of fixing them in place")

	rootCmd.AddCommand(hookCmd)
}

func runHook(cmd *cobra.Command, args []string) {
	workingDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolve working directory: %v\n", err)
		os.Exit(1)
	}

	settings, err := config.Discover(workingDir)
	if err != nil {
		// A broken settings file must not block edits silently forever;
		// surface it as a hook failure the agent can show the user.
		fmt.Fprintf(os.Stderr, "load settings: %v\n", err)
		os.Exit(1)
	}

	cacheDir, _ := config.ResolveCacheDir("", settings)
	checkers := buildCheckers(settings, engineSelection{}, workingDir, cacheDir)

	var aggOpts []aggregate.Option
	if settings.Sequential {
		aggOpts = append(aggOpts, aggregate.WithSequential())
	}

	opts := []hook.Option{
		hook.WithCacheDir(cacheDir),
		hook.WithTimeout(settings.Timeout.Duration),
	}
	if hookNoFix || !settings.FixEnabled() {
		opts = append(opts, hook.WithoutFixes())
	}
	runner := hook.NewRunner(aggregate.New(checkers, aggOpts...), opts...)

	decision := runner.Run(context.Background(), os.Stdin)
	if decision.ShouldOutput && decision.Message != "" {
		out := os.Stdout
		if decision.UseStderr {
			out = os.Stderr
		}
		fmt.Fprintln(out, decision.Message)
	}
	os.Exit(decision.ExitCode)
}
