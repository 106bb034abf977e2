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
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/codegate/services/gate/aggregate"
	"github.com/AleutianAI/codegate/services/gate/config"
	"github.com/AleutianAI/codegate/services/gate/watch"
)

var (
	watchFix      bool
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Re-run the engines whenever watched source files change",
	Long: `Watches a directory tree and re-runs the engines over each debounced
batch of changed files, printing a report per run. Stops on Ctrl-C.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchFix, "fix", false,
		"Apply mechanically safe fixes on every triggered run")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0,
		"How long to wait for further changes before running (default 250ms)")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "not a watchable directory: %s\n", root)
		os.Exit(1)
	}

	workingDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolve working directory: %v\n", err)
		os.Exit(1)
	}

	settings, err := config.Discover(workingDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load settings: %v\n", err)
		os.Exit(1)
	}

	cacheDir, _ := config.ResolveCacheDir("", settings)
	checkers := buildCheckers(settings, engineSelection{}, workingDir, cacheDir)
	aggregator := aggregate.New(checkers)

	opts := []watch.Option{watch.WithCacheDir(cacheDir)}
	if watchFix && settings.FixEnabled() {
		opts = append(opts, watch.WithFix())
	}
	if watchDebounce > 0 {
		opts = append(opts, watch.WithDebounce(watchDebounce))
	}

	watcher := watch.New(root, aggregator,
		func(files []string, report *aggregate.Report) {
			fmt.Printf("-- %d file(s) changed --\n", len(files))
			renderReport(os.Stdout, report)
		}, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := watcher.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "watch failed: %v\n", err)
		os.Exit(1)
	}
}
