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
	"log/slog"
	"os"

	"github.com/AleutianAI/codegate/pkg/logging"
	"github.com/AleutianAI/codegate/services/gate/telemetry"
)

func main() {
	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(os.Getenv("CODEGATE_LOG_LEVEL")),
		LogDir: os.Getenv("CODEGATE_LOG_DIR"),
	})
	defer logger.Close()
	logger.SetAsDefault()

	shutdown, err := telemetry.Init(context.Background(), telemetry.DefaultConfig())
	if err != nil {
		slog.Error("Telemetry initialization failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Warn("Telemetry shutdown failed", slog.Any("error", err))
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		// Cobra already printed the usage error.
		os.Exit(1)
	}
}
