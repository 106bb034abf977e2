// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package aggregate

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for aggregate runs.
var (
	tracer = otel.Tracer("codegate.aggregate")
	meter  = otel.Meter("codegate.aggregate")
)

// Metrics for aggregate runs.
var (
	runLatency metric.Float64Histogram
	runTotal   metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		runLatency, err = meter.Float64Histogram(
			"aggregate_run_duration_seconds",
			metric.WithDescription("Duration of multi-engine runs"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		runTotal, err = meter.Int64Counter(
			"aggregate_runs_total",
			metric.WithDescription("Total number of multi-engine runs"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startRunSpan creates a span for an aggregate run.
func startRunSpan(ctx context.Context, engineCount int, sequential bool) (context.Context, trace.Span) {
	return tracer.Start(ctx, "aggregate.Aggregator.Run",
		trace.WithAttributes(
			attribute.Int("aggregate.engine_count", engineCount),
			attribute.Bool("aggregate.sequential", sequential),
		),
	)
}

// setRunSpanResult sets the result attributes on a run span.
func setRunSpanResult(span trace.Span, issueCount int, success bool) {
	span.SetAttributes(
		attribute.Int("aggregate.issue_count", issueCount),
		attribute.Bool("aggregate.success", success),
	)
}

// recordRunMetrics records metrics for an aggregate run.
func recordRunMetrics(ctx context.Context, duration time.Duration, issueCount int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.Bool("success", success),
		attribute.Int("issue_count", issueCount),
	)

	runLatency.Record(ctx, duration.Seconds(), attrs)
	runTotal.Add(ctx, 1, attrs)
}
