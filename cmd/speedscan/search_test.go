package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewSearchCmd tests the search command creation.
func TestNewSearchCmd(t *testing.T) {
	t.Parallel()

	cmd := NewSearchCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "search [platform]" {
			t.Errorf("expected use 'search [platform]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("requires exactly one argument", func(t *testing.T) {
		t.Parallel()
		if cmd.Args == nil {
			t.Error("expected Args validator")
		}
	})

	t.Run("has max-time flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("max-time")
		if flag == nil {
			t.Fatal("expected max-time flag")
		}
		if flag.Shorthand != "t" {
			t.Errorf("expected shorthand 't', got %q", flag.Shorthand)
		}
	})

	t.Run("has genre flags", func(t *testing.T) {
		t.Parallel()
		include := cmd.Flags().Lookup("genre")
		if include == nil {
			t.Fatal("expected genre flag")
		}
		if include.Shorthand != "g" {
			t.Errorf("expected shorthand 'g', got %q", include.Shorthand)
		}
		exclude := cmd.Flags().Lookup("exclude-genre")
		if exclude == nil {
			t.Fatal("expected exclude-genre flag")
		}
		if exclude.Shorthand != "G" {
			t.Errorf("expected shorthand 'G', got %q", exclude.Shorthand)
		}
	})

	t.Run("has exclusive flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("exclusive") == nil {
			t.Error("expected exclusive flag")
		}
	})

	t.Run("has config flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("config")
		if flag == nil {
			t.Fatal("expected config flag")
		}
		if flag.Shorthand != "c" {
			t.Errorf("expected shorthand 'c', got %q", flag.Shorthand)
		}
	})

	t.Run("has json flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("json")
		if flag == nil {
			t.Fatal("expected json flag")
		}
		if flag.Shorthand != "j" {
			t.Errorf("expected shorthand 'j', got %q", flag.Shorthand)
		}
	})

	t.Run("has output flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
	})

	t.Run("has retry flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"retries", "retry-delay", "rate-limit-wait", "retry-info"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})

	t.Run("has no-save flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("no-save") == nil {
			t.Error("expected no-save flag")
		}
	})
}

// TestSetupLogger tests the logger setup.
func TestSetupLogger(t *testing.T) {
	t.Parallel()

	t.Run("creates logger for verbose mode", func(t *testing.T) {
		t.Parallel()
		logger := setupLogger(true)
		if logger == nil {
			t.Error("expected non-nil logger")
		}
	})

	t.Run("creates logger for non-verbose mode", func(t *testing.T) {
		t.Parallel()
		logger := setupLogger(false)
		if logger == nil {
			t.Error("expected non-nil logger")
		}
	})
}

// TestGetVerboseFlag tests the verbose flag retrieval.
func TestGetVerboseFlag(t *testing.T) {
	t.Run("returns false when flag not set", func(t *testing.T) {
		cmd := NewSearchCmd()
		result := getVerboseFlag(cmd)
		if result {
			t.Error("expected false when flag not set")
		}
	})

	t.Run("returns value from parent verbose flag", func(t *testing.T) {
		root := NewRootCmd()
		// Set verbose flag to true
		_ = root.PersistentFlags().Set("verbose", "true")

		// Get search subcommand
		searchCmd, _, err := root.Find([]string{"search"})
		if err != nil {
			t.Fatalf("failed to find search command: %v", err)
		}

		result := getVerboseFlag(searchCmd)
		if !result {
			t.Error("expected true from parent verbose flag")
		}
	})
}

// TestBuildConfig tests configuration building from flags.
func TestBuildConfig(t *testing.T) {
	t.Run("builds config with default values", func(t *testing.T) {
		cmd := NewSearchCmd()
		cfg, err := buildConfig(cmd, []string{"n64"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg == nil {
			t.Fatal("expected non-nil config")
		}
		if cfg.Platform != "n64" {
			t.Errorf("expected platform n64, got %q", cfg.Platform)
		}
		if cfg.Threshold != 30*time.Minute {
			t.Errorf("expected default threshold 30m, got %v", cfg.Threshold)
		}
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to default to true")
		}
	})

	t.Run("builds config with custom max-time", func(t *testing.T) {
		cmd := NewSearchCmd()
		_ = cmd.Flags().Set("max-time", "20m")
		cfg, err := buildConfig(cmd, []string{"n64"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Threshold != 20*time.Minute {
			t.Errorf("expected threshold 20m, got %v", cfg.Threshold)
		}
	})

	t.Run("builds config with genre filters", func(t *testing.T) {
		cmd := NewSearchCmd()
		_ = cmd.Flags().Set("genre", "Platformer")
		_ = cmd.Flags().Set("exclude-genre", "Sports")
		cfg, err := buildConfig(cmd, []string{"gcn"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.GenresInclude) != 1 || cfg.GenresInclude[0] != "Platformer" {
			t.Errorf("expected genre include [Platformer], got %v", cfg.GenresInclude)
		}
		if len(cfg.GenresExclude) != 1 || cfg.GenresExclude[0] != "Sports" {
			t.Errorf("expected genre exclude [Sports], got %v", cfg.GenresExclude)
		}
	})

	t.Run("builds config with JSON flag", func(t *testing.T) {
		cmd := NewSearchCmd()
		_ = cmd.Flags().Set("json", "true")
		cfg, err := buildConfig(cmd, []string{"n64"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !cfg.JSONReport {
			t.Error("expected JSONReport to be true")
		}
	})

	t.Run("no-save disables database", func(t *testing.T) {
		cmd := NewSearchCmd()
		_ = cmd.Flags().Set("no-save", "true")
		cfg, err := buildConfig(cmd, []string{"n64"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.SaveToDB {
			t.Error("expected SaveToDB to be false with --no-save")
		}
	})

	t.Run("builds config with valid config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "speedscan.yaml")

		// Create a valid config file
		content := []byte(`
defaults:
  threshold: 25m
platforms:
  GameCube:
    threshold: 45m
    excludeGenres: [Sports]
`)
		if err := os.WriteFile(configPath, content, 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewSearchCmd()
		_ = cmd.Flags().Set("config", configPath)
		cfg, err := buildConfig(cmd, []string{"gamecube"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.FileDefaults == nil {
			t.Fatal("expected FileDefaults to be loaded")
		}
		// Platform entry matched case-insensitively and applied.
		if cfg.Threshold != 45*time.Minute {
			t.Errorf("expected platform threshold 45m, got %v", cfg.Threshold)
		}
		if len(cfg.GenresExclude) != 1 || cfg.GenresExclude[0] != "Sports" {
			t.Errorf("expected genre exclude [Sports], got %v", cfg.GenresExclude)
		}
	})

	t.Run("flag overrides config file threshold", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "speedscan.yaml")

		content := []byte(`
platforms:
  GameCube:
    threshold: 45m
`)
		if err := os.WriteFile(configPath, content, 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewSearchCmd()
		_ = cmd.Flags().Set("config", configPath)
		_ = cmd.Flags().Set("max-time", "10m")
		cfg, err := buildConfig(cmd, []string{"gamecube"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Threshold != 10*time.Minute {
			t.Errorf("expected flag threshold 10m to win, got %v", cfg.Threshold)
		}
	})

	t.Run("returns error for invalid config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "invalid.yaml")

		// Create an invalid config file
		content := []byte(`{invalid yaml`)
		if err := os.WriteFile(configPath, content, 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewSearchCmd()
		_ = cmd.Flags().Set("config", configPath)
		_, err := buildConfig(cmd, []string{"n64"})
		if err == nil {
			t.Fatal("expected error for invalid config file")
		}
	})

	t.Run("returns error for missing explicit config file", func(t *testing.T) {
		cmd := NewSearchCmd()
		_ = cmd.Flags().Set("config", filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := buildConfig(cmd, []string{"n64"})
		if err == nil {
			t.Fatal("expected error for missing explicit config file")
		}
	})
}
