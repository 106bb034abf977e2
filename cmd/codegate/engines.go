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
	"github.com/AleutianAI/codegate/services/gate/check"
	"github.com/AleutianAI/codegate/services/gate/config"
	"github.com/AleutianAI/codegate/services/gate/formatcheck"
	"github.com/AleutianAI/codegate/services/gate/lint"
	"github.com/AleutianAI/codegate/services/gate/typecheck"
)

// engineSelection holds the engine-selecting CLI flags.
type engineSelection struct {
	typecheck bool
	lint      bool
	format    bool
}

// explicit reports whether any engine flag was given.
func (s engineSelection) explicit() bool {
	return s.typecheck || s.lint || s.format
}

// buildCheckers constructs the selected engines in canonical order:
// typecheck, then lint, then format.
//
// With no explicit selection, the settings file decides; engines
// default to enabled.
func buildCheckers(settings *config.Settings, sel engineSelection, workingDir, cacheDir string) []check.Checker {
	wantTypecheck := settings.TypeCheck.EngineEnabled()
	wantLint := settings.Lint.EngineEnabled()
	wantFormat := settings.Format.EngineEnabled()
	if sel.explicit() {
		wantTypecheck = sel.typecheck
		wantLint = sel.lint
		wantFormat = sel.format
	}

	var checkers []check.Checker
	if wantTypecheck {
		var opts []typecheck.Option
		if cacheDir != "" {
			opts = append(opts, typecheck.WithCacheDir(cacheDir))
		}
		checkers = append(checkers, typecheck.NewEngine(opts...))
	}
	if wantLint {
		checkers = append(checkers, lint.NewEngine(lint.WithWorkingDir(workingDir)))
	}
	if wantFormat {
		checkers = append(checkers, formatcheck.NewEngine(formatcheck.WithWorkingDir(workingDir)))
	}
	return checkers
}
