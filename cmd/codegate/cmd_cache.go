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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/codegate/services/gate/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the incremental compilation cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete persisted incremental compilation artifacts",
	Args:  cobra.NoArgs,
	Run:   runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) {
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

	cacheDir, active := config.ResolveCacheDir("", settings)
	if !active {
		fmt.Println("caching is disabled, nothing to clear")
		return
	}

	if err := os.RemoveAll(cacheDir); err != nil {
		fmt.Fprintf(os.Stderr, "clear cache %s: %v\n", cacheDir, err)
		os.Exit(1)
	}
	fmt.Printf("cleared %s\n", cacheDir)
}
