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
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Package-level meter for autopilot decisions.
var meter = otel.Meter("codegate.autopilot")

// Metrics for autopilot decisions.
var (
	decisionsTotal metric.Int64Counter
	issuesDecided  metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		decisionsTotal, err = meter.Int64Counter(
			"autopilot_decisions_total",
			metric.WithDescription("Total autopilot decisions by action"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		issuesDecided, err = meter.Int64Histogram(
			"autopilot_issues_per_decision",
			metric.WithDescription("Number of issues considered per decision"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordDecision records metrics for one decision.
func recordDecision(action Action, issueCount int) {
	if err := initMetrics(); err != nil {
		return
	}

	ctx := context.Background()
	decisionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action.String()),
	))
	issuesDecided.Record(ctx, int64(issueCount))
}
