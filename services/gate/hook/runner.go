// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package hook

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/codegate/services/gate/aggregate"
	"github.com/AleutianAI/codegate/services/gate/autopilot"
	"github.com/AleutianAI/codegate/services/gate/check"
	"github.com/AleutianAI/codegate/services/gate/enforce"
	"github.com/AleutianAI/codegate/services/gate/exitcode"
)

// defaultTimeout bounds one hook invocation end to end. Agents treat a
// hung hook as a hung edit, so the budget is short.
const defaultTimeout = 30 * time.Second

// =============================================================================
// RUNNER
// =============================================================================

// Runner executes the post-write hook pipeline for one payload.
//
// Thread Safety: Safe for concurrent use; each Run is independent.
type Runner struct {
	aggregator *aggregate.Aggregator
	cacheDir   string
	timeout    time.Duration
	applyFixes bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout overrides the per-invocation time budget.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithCacheDir points the engines at a non-default cache directory.
func WithCacheDir(dir string) Option {
	return func(r *Runner) {
		r.cacheDir = dir
	}
}

// WithoutFixes disables silent fix application; fixable issues are
// reported instead.
func WithoutFixes() Option {
	return func(r *Runner) {
		r.applyFixes = false
	}
}

// NewRunner creates a hook runner over the given aggregator.
func NewRunner(aggregator *aggregate.Aggregator, opts ...Option) *Runner {
	r := &Runner{
		aggregator: aggregator,
		timeout:    defaultTimeout,
		applyFixes: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the full hook pipeline for one stdin payload.
//
// Description:
//
//	Parses the payload, runs the engines against the touched file,
//	asks the autopilot for a verdict, applies the silently-fixable
//	subset in place, and maps the enforcement outcome to an exit
//	decision. Every failure mode lands in an exit decision; Run never
//	returns an error.
//
// Inputs:
//
//	ctx - Cancellation context; a timeout is layered on top
//	stdin - The payload source
//
// Outputs:
//
//	exitcode.Decision - Exit code and output routing for the process
//
// Thread Safety: Safe for concurrent use.
func (r *Runner) Run(ctx context.Context, stdin io.Reader) exitcode.Decision {
	start := time.Now()
	ctx, span := startRunSpan(ctx)
	defer span.End()

	decision := r.run(ctx, stdin)

	span.SetAttributes(attribute.Int("hook.exit_code", decision.ExitCode))
	recordRunMetrics(ctx, time.Since(start), decision.ExitCode)
	return decision
}

func (r *Runner) run(ctx context.Context, stdin io.Reader) exitcode.Decision {
	runID := uuid.NewString()

	payload, err := ParsePayload(stdin)
	if err != nil {
		slog.Error("Hook payload rejected", slog.String("run_id", runID), slog.Any("error", err))
		return exitcode.DetermineParseErrorExitCode(err)
	}

	logger := slog.With(
		slog.String("run_id", runID),
		slog.String("session_id", payload.SessionID),
		slog.String("file", payload.ToolInput.FilePath),
	)

	if !payload.ShouldAnalyze() {
		logger.Debug("Hook skipping payload",
			slog.String("tool_name", payload.ToolName))
		return exitcode.Decision{ExitCode: exitcode.CodeContinue}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cfg := check.Config{
		Files:    []string{payload.ToolInput.FilePath},
		CacheDir: r.cacheDir,
	}

	report, err := r.aggregator.Run(ctx, cfg)
	if err != nil {
		// Engine-level failures surfaced here are tooling failures
		// (missing binaries, invalid invocation), not code quality.
		logger.Error("Hook engine run failed", slog.Any("error", err))
		return exitcode.DetermineExitCode(enforce.Result{}, err)
	}

	decision := autopilot.Decide(&check.Result{
		Success:  report.Success,
		Issues:   report.Issues,
		Duration: report.Duration,
	})

	if len(decision.Fixes) > 0 {
		if !r.applyFixes {
			// Fix application disabled: planned fixes become reported
			// issues instead of silently disappearing.
			decision = demoteFixes(decision)
		} else if fixErr := r.fix(ctx, cfg, logger); fixErr != nil {
			// A failed fix pass degrades to reporting. The issues are
			// still real; they just were not repaired automatically.
			logger.Warn("Silent fix pass failed, reporting instead",
				slog.Any("error", fixErr))
			decision = demoteFixes(decision)
		}
	}

	verdict := enforce.Enforce(decision)
	logger.Info("Hook verdict",
		slog.String("action", decision.Action.String()),
		slog.Bool("blocked", verdict.Blocked),
		slog.Int("fixed", verdict.Classification.FixableCount),
		slog.Int("reported", verdict.Classification.UnfixableCount),
		slog.Duration("duration", report.Duration),
	)

	return exitcode.DetermineExitCode(verdict, nil)
}

// fix re-runs the engines in fix mode against the same file set.
func (r *Runner) fix(ctx context.Context, cfg check.Config, logger *slog.Logger) error {
	fixCfg := *cfg.Clone()
	fixCfg.Fix = true

	report, err := r.aggregator.Run(ctx, fixCfg)
	if err != nil {
		return err
	}

	logger.Debug("Silent fix pass complete",
		slog.Int("remaining_issues", len(report.Issues)),
		slog.Duration("duration", report.Duration),
	)
	return nil
}

// demoteFixes moves every planned fix into the reported remainder.
func demoteFixes(d autopilot.Decision) autopilot.Decision {
	issues := make([]check.Issue, 0, len(d.Fixes)+len(d.Issues))
	issues = append(issues, d.Fixes...)
	issues = append(issues, d.Issues...)

	action := autopilot.ActionReportOnly
	if len(issues) == 0 {
		action = autopilot.ActionContinue
	}
	return autopilot.Decision{
		Action:     action,
		Confidence: d.Confidence,
		Fixes:      make([]check.Issue, 0),
		Issues:     issues,
	}
}
