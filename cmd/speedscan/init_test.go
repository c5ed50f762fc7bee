package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/speedscan/speedscan/internal/config"
)

// TestNewInitCmd tests the init command creation.
func TestNewInitCmd(t *testing.T) {
	t.Parallel()

	cmd := NewInitCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "init" {
			t.Errorf("expected use 'init', got %q", cmd.Use)
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
		if flag.DefValue != configFileName {
			t.Errorf("expected default %q, got %q", configFileName, flag.DefValue)
		}
	})

	t.Run("has force flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("force")
		if flag == nil {
			t.Fatal("expected force flag")
		}
		if flag.Shorthand != "f" {
			t.Errorf("expected shorthand 'f', got %q", flag.Shorthand)
		}
	})
}

// TestRunInitCmd tests the init command execution.
func TestRunInitCmd(t *testing.T) {
	t.Run("creates configuration file", func(t *testing.T) {
		outputPath := filepath.Join(t.TempDir(), ".speedscan")

		var buf bytes.Buffer
		cmd := NewInitCmd()
		cmd.SetOut(&buf)
		_ = cmd.Flags().Set("output", outputPath)

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("config file not created: %v", err)
		}
		if !strings.Contains(string(data), "platforms:") {
			t.Error("template should document the platforms section")
		}
	})

	t.Run("generated template is loadable", func(t *testing.T) {
		outputPath := filepath.Join(t.TempDir(), ".speedscan")

		cmd := NewInitCmd()
		cmd.SetOut(&bytes.Buffer{})
		_ = cmd.Flags().Set("output", outputPath)

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cf, err := config.LoadConfigFile(outputPath)
		if err != nil {
			t.Fatalf("generated template should load: %v", err)
		}
		if cf.Defaults.Threshold == 0 {
			t.Error("template should set a default threshold")
		}
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		outputPath := filepath.Join(t.TempDir(), ".speedscan")
		if err := os.WriteFile(outputPath, []byte("existing"), 0o600); err != nil {
			t.Fatalf("failed to write existing file: %v", err)
		}

		cmd := NewInitCmd()
		cmd.SetOut(&bytes.Buffer{})
		_ = cmd.Flags().Set("output", outputPath)

		if err := cmd.Execute(); err == nil {
			t.Fatal("expected error when file exists")
		}

		data, _ := os.ReadFile(outputPath)
		if string(data) != "existing" {
			t.Error("existing file should be untouched")
		}
	})

	t.Run("overwrites with force", func(t *testing.T) {
		outputPath := filepath.Join(t.TempDir(), ".speedscan")
		if err := os.WriteFile(outputPath, []byte("existing"), 0o600); err != nil {
			t.Fatalf("failed to write existing file: %v", err)
		}

		cmd := NewInitCmd()
		cmd.SetOut(&bytes.Buffer{})
		_ = cmd.Flags().Set("output", outputPath)
		_ = cmd.Flags().Set("force", "true")

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, _ := os.ReadFile(outputPath)
		if string(data) == "existing" {
			t.Error("file should be overwritten with force")
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		outputPath := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

		cmd := NewInitCmd()
		cmd.SetOut(&bytes.Buffer{})
		_ = cmd.Flags().Set("output", outputPath)

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(outputPath); err != nil {
			t.Errorf("config file not created in nested directory: %v", err)
		}
	})
}

// TestTemplateIsValidYAML ensures the embedded template parses.
func TestTemplateIsValidYAML(t *testing.T) {
	t.Parallel()

	content, err := configTemplate.ReadFile("templates/speedscan.yaml")
	if err != nil {
		t.Fatalf("failed to read embedded template: %v", err)
	}

	var cf config.File
	if err := yaml.Unmarshal(content, &cf); err != nil {
		t.Fatalf("embedded template is not valid YAML: %v", err)
	}
}
