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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/codegate/services/gate/check"
)

// fakeChecker is a scriptable check.Checker.
type fakeChecker struct {
	engine check.Engine
	issues []check.Issue
	err    error
	panics bool
	delay  time.Duration
}

func (f *fakeChecker) Name() string         { return "fake-" + f.engine.String() }
func (f *fakeChecker) Engine() check.Engine { return f.engine }

func (f *fakeChecker) Check(ctx context.Context, cfg check.Config) (*check.Result, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return check.EmptyResult(0), nil
		}
	}
	if f.panics {
		panic("boom")
	}
	if f.err != nil {
		return nil, f.err
	}
	return check.NewResult(f.issues, time.Millisecond), nil
}

func lintIssue(file string, line int) check.Issue {
	return check.Issue{
		Engine: check.EngineLint, Severity: check.SeverityError,
		File: file, Line: line, Column: 1, Message: "x", Rule: "no-undef",
	}
}

func TestAggregator_Run_AllClean(t *testing.T) {
	agg := New([]check.Checker{
		&fakeChecker{engine: check.EngineTypeCheck},
		&fakeChecker{engine: check.EngineLint},
		&fakeChecker{engine: check.EngineFormat},
	})

	report, err := agg.Run(context.Background(), check.Config{Files: []string{"/f.ts"}})
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.Empty(t, report.Issues)
	assert.Len(t, report.Results, 3)
}

func TestAggregator_Run_MergesTaggedIssues(t *testing.T) {
	agg := New([]check.Checker{
		&fakeChecker{engine: check.EngineTypeCheck, issues: []check.Issue{{
			Engine: check.EngineTypeCheck, Severity: check.SeverityError,
			File: "/f.ts", Line: 1, Column: 1, Message: "type error", Rule: "TS2304",
		}}},
		&fakeChecker{engine: check.EngineLint, issues: []check.Issue{
			lintIssue("/f.ts", 2), lintIssue("/f.ts", 5),
		}},
	})

	report, err := agg.Run(context.Background(), check.Config{Files: []string{"/f.ts"}})
	require.NoError(t, err)
	assert.False(t, report.Success, "success is the AND of engine successes")
	require.Len(t, report.Issues, 3)

	// Registration order fixes merge order; within-engine order preserved.
	assert.Equal(t, check.EngineTypeCheck, report.Issues[0].Engine)
	assert.Equal(t, 2, report.Issues[1].Line)
	assert.Equal(t, 5, report.Issues[2].Line)
}

func TestAggregator_Run_SequentialMatchesConcurrent(t *testing.T) {
	build := func(opts ...Option) *Aggregator {
		return New([]check.Checker{
			&fakeChecker{engine: check.EngineTypeCheck, delay: 5 * time.Millisecond, issues: []check.Issue{{
				Engine: check.EngineTypeCheck, Severity: check.SeverityError,
				File: "/f.ts", Line: 9, Column: 1, Message: "t", Rule: "TS1",
			}}},
			&fakeChecker{engine: check.EngineLint, issues: []check.Issue{lintIssue("/f.ts", 3)}},
		}, opts...)
	}

	concurrent, err := build().Run(context.Background(), check.Config{Files: []string{"/f.ts"}})
	require.NoError(t, err)
	sequential, err := build(WithSequential()).Run(context.Background(), check.Config{Files: []string{"/f.ts"}})
	require.NoError(t, err)

	assert.Equal(t, sequential.Success, concurrent.Success)
	require.Len(t, concurrent.Issues, len(sequential.Issues))
	for i := range sequential.Issues {
		assert.Equal(t, sequential.Issues[i], concurrent.Issues[i])
	}
}

func TestAggregator_Run_IsolatesEngineError(t *testing.T) {
	agg := New([]check.Checker{
		&fakeChecker{engine: check.EngineLint, err: errors.New("linter exploded")},
		&fakeChecker{engine: check.EngineFormat},
	})

	report, err := agg.Run(context.Background(), check.Config{Files: []string{"/f.ts"}})
	require.NoError(t, err, "unexpected engine errors must not abort the run")
	assert.False(t, report.Success)

	require.Len(t, report.Issues, 1)
	assert.Equal(t, check.EngineLint, report.Issues[0].Engine)
	assert.Contains(t, report.Issues[0].Message, "linter exploded")

	// The sibling engine completed.
	assert.True(t, report.Results[check.EngineFormat].Success)
}

func TestAggregator_Run_IsolatesPanic(t *testing.T) {
	agg := New([]check.Checker{
		&fakeChecker{engine: check.EngineTypeCheck, panics: true},
		&fakeChecker{engine: check.EngineLint},
	})

	report, err := agg.Run(context.Background(), check.Config{Files: []string{"/f.ts"}})
	require.NoError(t, err)
	assert.False(t, report.Success)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, check.EngineTypeCheck, report.Issues[0].Engine)
}

func TestAggregator_Run_ToolMissingPropagates(t *testing.T) {
	agg := New([]check.Checker{
		&fakeChecker{engine: check.EngineLint, err: check.NewToolError("eslint", check.EngineLint, check.ErrToolMissing)},
	})

	_, err := agg.Run(context.Background(), check.Config{Files: []string{"/f.ts"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, check.ErrToolMissing)
}

func TestAggregator_Run_InvalidInput(t *testing.T) {
	_, err := New(nil).Run(context.Background(), check.Config{Files: []string{"/f.ts"}})
	assert.ErrorIs(t, err, check.ErrInvalidInput)

	var nilCtx context.Context
	_, err = New([]check.Checker{&fakeChecker{engine: check.EngineLint}}).Run(nilCtx, check.Config{})
	assert.ErrorIs(t, err, check.ErrInvalidInput)
}

func TestReport_Fixable(t *testing.T) {
	report := &Report{Results: map[check.Engine]*check.Result{
		check.EngineLint:   {Success: false, Fixable: true},
		check.EngineFormat: {Success: true},
	}}
	assert.True(t, report.Fixable())

	report = &Report{Results: map[check.Engine]*check.Result{
		check.EngineLint: {Success: false},
	}}
	assert.False(t, report.Fixable())
}
