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
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for type-check operations.
var (
	tracer = otel.Tracer("codegate.typecheck")
	meter  = otel.Meter("codegate.typecheck")
)

// Metrics for type-check operations.
var (
	checkLatency metric.Float64Histogram
	checkTotal   metric.Int64Counter
	issuesFound  metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		checkLatency, err = meter.Float64Histogram(
			"typecheck_duration_seconds",
			metric.WithDescription("Duration of type-check operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		checkTotal, err = meter.Int64Counter(
			"typecheck_total",
			metric.WithDescription("Total number of type-check operations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		issuesFound, err = meter.Int64Histogram(
			"typecheck_issues_found",
			metric.WithDescription("Number of issues found per type-check operation"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startCheckSpan creates a span for a type-check operation.
func startCheckSpan(ctx context.Context, fileCount int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "typecheck.Engine.Check",
		trace.WithAttributes(
			attribute.Int("typecheck.file_count", fileCount),
		),
	)
}

// setCheckSpanResult sets the result attributes on a check span.
func setCheckSpanResult(span trace.Span, issueCount int, success bool) {
	span.SetAttributes(
		attribute.Int("typecheck.issue_count", issueCount),
		attribute.Bool("typecheck.success", success),
	)
}

// recordCheckMetrics records metrics for a type-check operation.
func recordCheckMetrics(ctx context.Context, duration time.Duration, issueCount int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.Bool("success", success),
	)

	checkLatency.Record(ctx, duration.Seconds(), attrs)
	checkTotal.Add(ctx, 1, attrs)
	issuesFound.Record(ctx, int64(issueCount))
}
