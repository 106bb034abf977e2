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
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/AleutianAI/codegate/services/gate/aggregate"
	"github.com/AleutianAI/codegate/services/gate/check"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen, color.Bold)
	dimColor     = color.New(color.Faint)
)

func init() {
	// Piped output gets plain text. CI systems and the hook path never
	// see escape sequences.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

// renderReport writes the merged report in a human-readable form.
func renderReport(w io.Writer, report *aggregate.Report) {
	for _, issue := range report.Issues {
		renderIssue(w, issue)
	}

	if len(report.Issues) == 0 {
		fmt.Fprintf(w, "%s (%d engines, %s)\n",
			successColor.Sprint("✓ clean"),
			len(report.Results),
			report.Duration.Round(time.Millisecond),
		)
		return
	}

	errors := 0
	warnings := 0
	for _, issue := range report.Issues {
		if issue.Severity == check.SeverityError {
			errors++
		} else {
			warnings++
		}
	}

	fmt.Fprintf(w, "\n%s, %s (%s)\n",
		errorColor.Sprintf("%d error(s)", errors),
		warningColor.Sprintf("%d warning(s)", warnings),
		report.Duration.Round(time.Millisecond),
	)

	fixed := 0
	for _, result := range report.Results {
		fixed += result.FixedCount
	}
	if fixed > 0 {
		fmt.Fprintf(w, "%s\n", successColor.Sprintf("%d issue(s) fixed in place", fixed))
	}
}

// renderIssue writes one issue line: location, severity, message, rule.
func renderIssue(w io.Writer, issue check.Issue) {
	severity := warningColor.Sprint("warning")
	if issue.Severity == check.SeverityError {
		severity = errorColor.Sprint("error")
	}

	fmt.Fprintf(w, "%s %s %s", issue.Location(), severity, issue.Message)
	if issue.Rule != "" {
		fmt.Fprintf(w, " %s", dimColor.Sprintf("(%s/%s)", issue.Engine, issue.Rule))
	}
	fmt.Fprintln(w)

	if issue.Suggestion != "" {
		fmt.Fprintf(w, "  %s\n", dimColor.Sprint(issue.Suggestion))
	}
}
