// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logging provides structured logging for the gate.
//
// Built on log/slog with two destinations:
//
//   - stderr: human-readable text, follows Unix CLI conventions and
//     keeps stdout free for reports and the hook exit-code contract
//   - file: optional JSON log under a configurable directory, one file
//     per day, for debugging hook invocations after the fact
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//	    Level:   logging.LevelInfo,
//	    LogDir:  "~/.codegate/logs",
//	})
//	defer logger.Close()
//	logger.SetAsDefault()
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// LEVEL
// =============================================================================

// Level is the minimum severity that gets logged.
type Level int

const (
	// LevelDebug logs everything.
	LevelDebug Level = iota

	// LevelInfo logs normal operational events and above.
	LevelInfo

	// LevelWarn logs degradations and above. The default: hook runs
	// should be silent unless something is off.
	LevelWarn

	// LevelError logs only failures.
	LevelError
)

// ParseLevel converts a level name to a Level, defaulting to warn.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "error":
		return LevelError
	default:
		return LevelWarn
	}
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// =============================================================================
// CONFIG
// =============================================================================

// Config controls logger construction.
type Config struct {
	// Level is the minimum severity logged.
	Level Level

	// LogDir enables file logging when set. Supports ~ expansion.
	// Files are named codegate_{date}.log and written as JSON.
	LogDir string

	// Quiet suppresses the stderr destination. File logging, when
	// configured, still applies.
	Quiet bool
}

// =============================================================================
// LOGGER
// =============================================================================

// Logger is a multi-destination slog wrapper.
//
// Thread Safety: Safe for concurrent use.
type Logger struct {
	slog *slog.Logger

	mu   sync.Mutex
	file *os.File
}

// New creates a logger for the given configuration.
//
// A requested log directory that cannot be created degrades to
// stderr-only logging rather than failing; logging must never take
// the gate down.
func New(cfg Config) *Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level.toSlogLevel()}

	var handlers []slog.Handler
	if !cfg.Quiet {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, opts))
	}

	logger := &Logger{}

	if cfg.LogDir != "" {
		if file, err := openLogFile(expandPath(cfg.LogDir)); err == nil {
			logger.file = file
			handlers = append(handlers, slog.NewJSONHandler(file, opts))
		}
	}

	switch len(handlers) {
	case 0:
		// Quiet with no file: discard below error, keep errors visible.
		errOpts := &slog.HandlerOptions{Level: slog.LevelError}
		logger.slog = slog.New(slog.NewTextHandler(os.Stderr, errOpts))
	case 1:
		logger.slog = slog.New(handlers[0])
	default:
		logger.slog = slog.New(&multiHandler{handlers: handlers})
	}

	return logger
}

// Default returns a stderr-only logger at warn level.
func Default() *Logger {
	return New(Config{Level: LevelWarn})
}

// Slog exposes the underlying slog.Logger.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// SetAsDefault installs this logger as the process-wide slog default.
func (l *Logger) SetAsDefault() {
	slog.SetDefault(l.slog)
}

// Close releases the log file, if any. Safe to call multiple times.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// openLogFile creates the log directory and opens today's log file.
func openLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("codegate_%s.log", time.Now().Format("2006-01-02"))
	return os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
}

// expandPath expands a leading ~ to the user home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
