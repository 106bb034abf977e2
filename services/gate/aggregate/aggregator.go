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
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/codegate/services/gate/check"
)

// =============================================================================
// REPORT
// =============================================================================

// Report is the merged outcome of one multi-engine run.
//
// Thread Safety: Immutable after creation.
type Report struct {
	// Success is the AND of all engine successes.
	Success bool `json:"success"`

	// Issues is the combined issue list, ordered by engine registration
	// order and within each engine by the engine's own ordering.
	Issues []check.Issue `json:"issues"`

	// Results holds each engine's individual result.
	Results map[check.Engine]*check.Result `json:"results"`

	// Duration is the wall-clock time of the whole run.
	Duration time.Duration `json:"duration"`
}

// Fixable reports whether any engine found mechanically fixable issues.
func (r *Report) Fixable() bool {
	for _, result := range r.Results {
		if result.Fixable {
			return true
		}
	}
	return false
}

// =============================================================================
// AGGREGATOR
// =============================================================================

// Aggregator invokes a set of engines and merges their results.
//
// Thread Safety: Safe for concurrent use; the registered checkers own
// their own state exclusively.
type Aggregator struct {
	checkers   []check.Checker
	sequential bool
}

// Option configures the Aggregator.
type Option func(*Aggregator)

// WithSequential forces strictly sequential engine execution.
//
// Both modes produce the same success verdict and issue set; sequential
// mode exists for constrained environments that need deterministic
// engine interleaving.
func WithSequential() Option {
	return func(a *Aggregator) {
		a.sequential = true
	}
}

// New creates an aggregator over the given engines.
//
// Description:
//
//	The caller passes exactly the engines selected by configuration;
//	the aggregator runs all of them. Registration order fixes the merge
//	order of the combined issue list.
//
// Inputs:
//
//	checkers - The enabled engines, at least one
//	opts - Optional configuration options
//
// Outputs:
//
//	*Aggregator - The configured aggregator
func New(checkers []check.Checker, opts ...Option) *Aggregator {
	a := &Aggregator{checkers: checkers}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes every registered engine and merges the results.
//
// Description:
//
//	Engines run concurrently (default) or sequentially. An engine
//	returning an unexpected error or panicking yields one synthetic
//	error issue attributed to that engine; siblings are unaffected.
//	check.ErrToolMissing aborts the run and propagates.
//
// Inputs:
//
//	ctx - Context for cancellation and caller-enforced timeouts
//	cfg - Shared per-invocation engine configuration
//
// Outputs:
//
//	*Report - The merged report
//	error - Non-nil only for invalid input or a missing tool
//
// Thread Safety: Safe for concurrent use.
func (a *Aggregator) Run(ctx context.Context, cfg check.Config) (*Report, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: ctx must not be nil", check.ErrInvalidInput)
	}
	if len(a.checkers) == 0 {
		return nil, fmt.Errorf("%w: no engines selected", check.ErrInvalidInput)
	}

	ctx, span := startRunSpan(ctx, len(a.checkers), a.sequential)
	defer span.End()
	start := time.Now()

	results := make([]*check.Result, len(a.checkers))

	if a.sequential {
		for i, checker := range a.checkers {
			result, err := a.runOne(ctx, checker, cfg)
			if err != nil {
				return nil, err
			}
			results[i] = result
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for i, checker := range a.checkers {
			g.Go(func() error {
				result, err := a.runOne(gctx, checker, cfg)
				if err != nil {
					return err
				}
				results[i] = result
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	report := merge(a.checkers, results, time.Since(start))
	setRunSpanResult(span, len(report.Issues), report.Success)
	recordRunMetrics(ctx, report.Duration, len(report.Issues), report.Success)

	slog.Debug("Aggregate run completed",
		slog.Int("engines", len(a.checkers)),
		slog.Int("issues", len(report.Issues)),
		slog.Bool("success", report.Success),
		slog.Duration("duration", report.Duration),
	)

	return report, nil
}

// runOne invokes a single engine with failure isolation.
//
// Panics and unexpected errors become a synthetic single-issue failure
// result; check.ErrToolMissing propagates.
func (a *Aggregator) runOne(ctx context.Context, checker check.Checker, cfg check.Config) (result *check.Result, err error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Engine panicked",
				slog.String("engine", checker.Engine().String()),
				slog.Any("panic", r),
			)
			result = check.FailureResult(checker.Engine(),
				fmt.Sprintf("internal engine error: %v", r), time.Since(start))
			err = nil
		}
	}()

	result, err = checker.Check(ctx, *cfg.Clone())
	if err != nil {
		if errors.Is(err, check.ErrToolMissing) {
			return nil, err
		}
		slog.Warn("Engine failed, converting to synthetic issue",
			slog.String("engine", checker.Engine().String()),
			slog.String("error", err.Error()),
		)
		return check.FailureResult(checker.Engine(),
			fmt.Sprintf("internal engine error: %v", err), time.Since(start)), nil
	}
	return result, nil
}

// merge combines per-engine results into one report.
func merge(checkers []check.Checker, results []*check.Result, duration time.Duration) *Report {
	report := &Report{
		Success:  true,
		Issues:   make([]check.Issue, 0),
		Results:  make(map[check.Engine]*check.Result, len(results)),
		Duration: duration,
	}

	for i, result := range results {
		report.Results[checkers[i].Engine()] = result
		report.Success = report.Success && result.Success
		report.Issues = append(report.Issues, result.Issues...)
	}

	return report
}
