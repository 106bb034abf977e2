// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSettings(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, SettingsFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing settings file: %v", err)
	}
	return path
}

func TestLoad_FullDocument(t *testing.T) {
	path := writeSettings(t, t.TempDir(), `
typecheck:
  enabled: true
lint:
  enabled: false
cache_dir: /var/cache/gate
timeout: 90s
fix: false
sequential: true
`)

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !settings.TypeCheck.EngineEnabled() {
		t.Error("typecheck should be enabled")
	}
	if settings.Lint.EngineEnabled() {
		t.Error("lint should be disabled")
	}
	if !settings.Format.EngineEnabled() {
		t.Error("absent engine block should default to enabled")
	}
	if settings.CacheDir != "/var/cache/gate" {
		t.Errorf("CacheDir = %q", settings.CacheDir)
	}
	if settings.Timeout.Duration != 90*time.Second {
		t.Errorf("Timeout = %s, want 90s", settings.Timeout.Duration)
	}
	if settings.FixEnabled() {
		t.Error("fix should be disabled")
	}
	if !settings.Sequential {
		t.Error("sequential should be set")
	}
}

func TestLoad_AbsentFieldsGetDefaults(t *testing.T) {
	path := writeSettings(t, t.TempDir(), "lint:\n  enabled: true\n")

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if settings.Timeout.Duration != Default().Timeout.Duration {
		t.Errorf("Timeout = %s, want default %s",
			settings.Timeout.Duration, Default().Timeout.Duration)
	}
	if !settings.FixEnabled() {
		t.Error("fix should default to enabled")
	}
	if !settings.TypeCheck.EngineEnabled() {
		t.Error("typecheck should default to enabled")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("GATE_TEST_CACHE", "/tmp/gate-cache")

	path := writeSettings(t, t.TempDir(), "cache_dir: ${GATE_TEST_CACHE}\n")

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.CacheDir != "/tmp/gate-cache" {
		t.Errorf("CacheDir = %q, want expanded env value", settings.CacheDir)
	}
}

func TestLoad_UnsetEnvExpandsEmpty(t *testing.T) {
	path := writeSettings(t, t.TempDir(), "cache_dir: \"${GATE_TEST_UNSET_VAR}\"\n")

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.CacheDir != "" {
		t.Errorf("CacheDir = %q, want empty", settings.CacheDir)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), SettingsFileName))
	if !errors.Is(err, ErrSettingsNotFound) {
		t.Errorf("error = %v, want ErrSettingsNotFound", err)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeSettings(t, t.TempDir(), "lint: [unclosed\n")

	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeSettings(t, t.TempDir(), "timeout: ninety\n")

	if _, err := Load(path); err == nil {
		t.Error("expected duration error")
	}
}

func TestLoad_TimeoutOutOfBounds(t *testing.T) {
	path := writeSettings(t, t.TempDir(), "timeout: 500ms\n")

	if _, err := Load(path); err == nil {
		t.Error("expected bounds error")
	}
}

func TestDiscover_WalksUpward(t *testing.T) {
	root := t.TempDir()
	writeSettings(t, root, "sequential: true\n")

	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	settings, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if !settings.Sequential {
		t.Error("expected the root settings file to be found")
	}
}

func TestDiscover_NoFileFallsBackToDefault(t *testing.T) {
	settings, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if settings.Timeout.Duration != Default().Timeout.Duration {
		t.Error("expected default settings")
	}
}

func TestResolveCacheDir(t *testing.T) {
	tests := []struct {
		name       string
		override   string
		settings   *Settings
		want       string
		wantActive bool
	}{
		{
			name:       "override wins",
			override:   "/override",
			settings:   &Settings{CacheDir: "/from-settings"},
			want:       "/override",
			wantActive: true,
		},
		{
			name:       "settings when no override",
			settings:   &Settings{CacheDir: "/from-settings"},
			want:       "/from-settings",
			wantActive: true,
		},
		{
			name:       "override disables",
			override:   "off",
			settings:   &Settings{CacheDir: "/from-settings"},
			want:       "",
			wantActive: false,
		},
		{
			name:       "settings disable",
			settings:   &Settings{CacheDir: "off"},
			want:       "",
			wantActive: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, active := ResolveCacheDir(tt.override, tt.settings)
			if got != tt.want || active != tt.wantActive {
				t.Errorf("ResolveCacheDir() = (%q, %v), want (%q, %v)",
					got, active, tt.want, tt.wantActive)
			}
		})
	}
}

func TestResolveCacheDir_DefaultIsUnderUserCache(t *testing.T) {
	dir, active := ResolveCacheDir("", Default())
	if !active {
		t.Fatal("default cache must be active")
	}
	if filepath.Base(dir) != cacheDirName {
		t.Errorf("cache dir = %q, want a %q directory", dir, cacheDirName)
	}
}
