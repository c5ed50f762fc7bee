package config

import (
	"strings"
	"time"
)

// Duration wraps time.Duration with YAML support so config files can use
// Go duration syntax ("30m", "2h15m") instead of raw nanosecond counts.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for duration strings.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// PlatformConfig holds search settings for a single platform.
// This allows keeping different thresholds and genre filters per
// platform in one config file; a PC scan and an N64 scan rarely want
// the same cutoff.
type PlatformConfig struct {
	// Threshold overrides the global world-record threshold for this
	// platform. Zero means the global threshold is used.
	Threshold Duration `yaml:"threshold,omitempty"`

	// Genres restricts results to games carrying at least one of
	// these genre names.
	Genres []string `yaml:"genres,omitempty"`

	// ExcludeGenres drops games carrying any of these genre names.
	ExcludeGenres []string `yaml:"excludeGenres,omitempty"`

	// Exclusive drops games republished on other platforms.
	Exclusive bool `yaml:"exclusive,omitempty"`

	// PrintRetryInfo emits retry diagnostics during this platform's
	// scans.
	PrintRetryInfo bool `yaml:"printRetryInfo,omitempty"`
}

// File represents the structure of the .speedscan configuration file.
type File struct {
	// Platforms maps platform names (as the user would type them) to
	// platform-specific search settings.
	Platforms map[string]PlatformConfig `yaml:"platforms,omitempty"`

	// Defaults contains settings applied to every platform unless
	// overridden in the platform-specific configuration.
	Defaults PlatformConfig `yaml:"defaults,omitempty"`
}

// GetPlatformConfig returns the configuration for a platform query,
// merging the platform-specific configuration with defaults. The map key
// is matched case-insensitively so "gamecube" finds a "GameCube" entry.
func (cf *File) GetPlatformConfig(query string) PlatformConfig {
	// Start with defaults
	result := cf.Defaults

	for name, pc := range cf.Platforms {
		if !strings.EqualFold(name, query) {
			continue
		}
		if pc.Threshold != 0 {
			result.Threshold = pc.Threshold
		}
		if len(pc.Genres) > 0 {
			result.Genres = pc.Genres
		}
		if len(pc.ExcludeGenres) > 0 {
			result.ExcludeGenres = pc.ExcludeGenres
		}
		if pc.Exclusive {
			result.Exclusive = true
		}
		if pc.PrintRetryInfo {
			result.PrintRetryInfo = true
		}
		break
	}

	return result
}
