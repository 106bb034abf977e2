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
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// SettingsFileName is the per-project settings file.
	SettingsFileName = ".codegate.yaml"

	// MaxSettingsFileSize caps how much settings YAML is read (1MB).
	MaxSettingsFileSize = 1024 * 1024

	// cacheDirName is the subdirectory used under the user cache root.
	cacheDirName = "codegate"

	// cacheDisabledSentinel disables the incremental cache entirely.
	cacheDisabledSentinel = "off"
)

// ErrSettingsNotFound indicates no settings file exists on the search
// path. Callers fall back to Default().
var ErrSettingsNotFound = errors.New("settings file not found")

// =============================================================================
// SETTINGS
// =============================================================================

// Duration wraps time.Duration so "90s"-style YAML values decode.
type Duration struct {
	time.Duration
}

// UnmarshalYAML decodes a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("duration must be a string like \"90s\": %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	d.Duration = parsed
	return nil
}

// EngineSettings selects and tunes one engine.
type EngineSettings struct {
	// Enabled toggles the engine. All engines default to enabled.
	Enabled *bool `yaml:"enabled,omitempty"`
}

// Settings is the root settings document.
//
// Thread Safety: Immutable after Load returns.
type Settings struct {
	// TypeCheck configures the type-checking engine.
	TypeCheck EngineSettings `yaml:"typecheck"`

	// Lint configures the lint engine.
	Lint EngineSettings `yaml:"lint"`

	// Format configures the formatting engine.
	Format EngineSettings `yaml:"format"`

	// CacheDir overrides the incremental-compilation cache directory.
	// The sentinel value "off" disables caching.
	CacheDir string `yaml:"cache_dir,omitempty" validate:"omitempty,filepath"`

	// Timeout bounds one full engine run.
	Timeout Duration `yaml:"timeout,omitempty"`

	// Fix enables silent fix application by default.
	Fix *bool `yaml:"fix,omitempty"`

	// Sequential forces engines to run one at a time.
	Sequential bool `yaml:"sequential,omitempty"`
}

// Default returns the settings used when no file is present.
func Default() *Settings {
	return &Settings{
		Timeout: Duration{2 * time.Minute},
	}
}

// EngineEnabled resolves an engine toggle, defaulting to enabled.
func (e EngineSettings) EngineEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// FixEnabled resolves the fix default, defaulting to enabled.
func (s *Settings) FixEnabled() bool {
	return s.Fix == nil || *s.Fix
}

// =============================================================================
// LOADING
// =============================================================================

var settingsValidator = validator.New()

// envRefPattern matches ${VAR} references in settings values.
var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads, expands, and validates a settings file.
//
// Description:
//
//	Reads the file at path, expands ${VAR} environment references in
//	the raw document, unmarshals, applies defaults for absent fields,
//	and validates. An unreadable or invalid file is an error; callers
//	decide whether that is fatal or reported as a single issue.
//
// Inputs:
//
//	path - Settings file path
//
// Outputs:
//
//	*Settings - The loaded settings
//	error - ErrSettingsNotFound (wrapped) when the file does not exist
func Load(path string) (*Settings, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSettingsNotFound, path)
		}
		return nil, fmt.Errorf("stat settings file: %w", err)
	}
	if info.Size() > MaxSettingsFileSize {
		return nil, fmt.Errorf("settings file %s exceeds %d bytes", path, MaxSettingsFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	expanded := expandEnvRefs(string(data))

	settings := Default()
	if err := yaml.Unmarshal([]byte(expanded), settings); err != nil {
		return nil, fmt.Errorf("parse settings file %s: %w", path, err)
	}
	if settings.Timeout.Duration <= 0 {
		settings.Timeout = Default().Timeout
	}
	if settings.Timeout.Duration < time.Second || settings.Timeout.Duration > 30*time.Minute {
		return nil, fmt.Errorf("invalid settings in %s: timeout %s outside [1s, 30m]",
			path, settings.Timeout.Duration)
	}

	if err := settingsValidator.Struct(settings); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}

	return settings, nil
}

// Discover walks upward from dir looking for a settings file.
//
// Returns the loaded settings, or Default() with no error when no
// file exists anywhere on the path.
func Discover(dir string) (*Settings, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve settings search root: %w", err)
	}

	for {
		candidate := filepath.Join(current, SettingsFileName)
		settings, err := Load(candidate)
		if err == nil {
			return settings, nil
		}
		if !errors.Is(err, ErrSettingsNotFound) {
			return nil, err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return Default(), nil
		}
		current = parent
	}
}

// expandEnvRefs replaces ${VAR} references with environment values.
// Unset variables expand to the empty string.
func expandEnvRefs(doc string) string {
	return envRefPattern.ReplaceAllStringFunc(doc, func(ref string) string {
		name := envRefPattern.FindStringSubmatch(ref)[1]
		return os.Getenv(name)
	})
}

// =============================================================================
// CACHE DIRECTORY RESOLUTION
// =============================================================================

// ResolveCacheDir resolves the effective cache directory.
//
// Description:
//
//	Precedence: explicit override flag, then settings file, then the
//	user cache directory. The sentinel "off" in either source disables
//	caching and yields the empty string.
//
// Inputs:
//
//	override - The CLI flag value, empty when not given
//	settings - Loaded settings, must not be nil
//
// Outputs:
//
//	string - The cache directory, empty when caching is disabled
//	bool - False when caching is disabled
func ResolveCacheDir(override string, settings *Settings) (string, bool) {
	source := override
	if source == "" {
		source = settings.CacheDir
	}
	if source == cacheDisabledSentinel {
		return "", false
	}
	if source != "" {
		return source, true
	}

	userCache, err := os.UserCacheDir()
	if err != nil {
		// No resolvable cache root: fall back to a temp-dir cache
		// rather than disabling incremental compilation.
		return filepath.Join(os.TempDir(), cacheDirName), true
	}
	return filepath.Join(userCache, cacheDirName), true
}
