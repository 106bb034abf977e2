// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package formatcheck

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for format operations.
var (
	tracer = otel.Tracer("codegate.formatcheck")
	meter  = otel.Meter("codegate.formatcheck")
)

// Metrics for format operations.
var (
	formatLatency metric.Float64Histogram
	formatTotal   metric.Int64Counter
	issuesFound   metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		formatLatency, err = meter.Float64Histogram(
			"format_duration_seconds",
			metric.WithDescription("Duration of format-check operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		formatTotal, err = meter.Int64Counter(
			"format_total",
			metric.WithDescription("Total number of format-check operations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		issuesFound, err = meter.Int64Histogram(
			"format_issues_found",
			metric.WithDescription("Number of issues found per format-check operation"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startFormatSpan creates a span for a format operation.
func startFormatSpan(ctx context.Context, fileCount int, fix bool) (context.Context, trace.Span) {
	return tracer.Start(ctx, "formatcheck.Engine.Check",
		trace.WithAttributes(
			attribute.Int("format.file_count", fileCount),
			attribute.Bool("format.fix", fix),
		),
	)
}

// setFormatSpanResult sets the result attributes on a format span.
func setFormatSpanResult(span trace.Span, issueCount int, success bool) {
	span.SetAttributes(
		attribute.Int("format.issue_count", issueCount),
		attribute.Bool("format.success", success),
	)
}

// recordFormatMetrics records metrics for a format operation.
func recordFormatMetrics(ctx context.Context, duration time.Duration, issueCount int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.Bool("success", success),
	)

	formatLatency.Record(ctx, duration.Seconds(), attrs)
	formatTotal.Add(ctx, 1, attrs)
	issuesFound.Record(ctx, int64(issueCount))
}
