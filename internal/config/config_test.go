package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"CA2TA_LOG_LEVEL", "CA2TA_LOG_FORMAT", "CA2TA_OUTPUT_SUFFIX", "CA2TA_LINE_WIDTH", "CA2TA_METRICS_FILE"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Output.LineWidth != 60 {
		t.Errorf("expected LineWidth=60, got %d", cfg.Output.LineWidth)
	}
	if cfg.Inputs.ClearSuffix != ".clr" || cfg.Inputs.FragmentSuffix != ".frg" || cfg.Inputs.AssemblySuffix != ".asm" {
		t.Errorf("unexpected input suffixes: %+v", cfg.Inputs)
	}
	if cfg.Logging.ProgressEvery != 100000 || cfg.Logging.ContigProgressEvery != 10000 {
		t.Errorf("unexpected progress intervals: %+v", cfg.Logging)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output.Suffix != ".contig" {
		t.Errorf("expected default suffix, got %q", cfg.Output.Suffix)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "ca2ta.yaml")

	cfg := DefaultConfig()
	cfg.Output.LineWidth = 70
	cfg.Logging.Format = "json"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Output.LineWidth != 70 {
		t.Errorf("expected LineWidth=70, got %d", loaded.Output.LineWidth)
	}
	if loaded.Logging.Format != "json" {
		t.Errorf("expected Format=json, got %s", loaded.Logging.Format)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "ca2ta.yaml")
	if err := os.WriteFile(path, []byte("output:\n  suffix: .contig.BETA2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output.Suffix != ".contig.BETA2" {
		t.Errorf("expected suffix from file, got %q", cfg.Output.Suffix)
	}
	if cfg.Output.LineWidth != 60 || cfg.Inputs.ClearSuffix != ".clr" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("output: [\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CA2TA_LOG_LEVEL", "debug")
	t.Setenv("CA2TA_LINE_WIDTH", "80")
	t.Setenv("CA2TA_OUTPUT_SUFFIX", ".ta")
	t.Setenv("CA2TA_LOG_FORMAT", "")
	t.Setenv("CA2TA_METRICS_FILE", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Output.LineWidth != 80 || cfg.Output.Suffix != ".ta" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Output.LineWidth = 0 }},
		{"empty clear suffix", func(c *Config) { c.Inputs.ClearSuffix = "" }},
		{"empty output", func(c *Config) { c.Output.Suffix = "" }},
		{"bad level", func(c *Config) { c.Logging.Level = "chatty" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
		{"negative progress", func(c *Config) { c.Logging.ProgressEvery = -1 }},
		{"negative contig progress", func(c *Config) { c.Logging.ContigProgressEvery = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestPaths(t *testing.T) {
	cfg := DefaultConfig()
	c, f, a, o := cfg.Paths("run/asm1")
	if c != "run/asm1.clr" || f != "run/asm1.frg" || a != "run/asm1.asm" || o != "run/asm1.contig" {
		t.Errorf("unexpected paths: %s %s %s %s", c, f, a, o)
	}
	cfg.Output.Path = "-"
	if _, _, _, o := cfg.Paths("x"); o != "-" {
		t.Errorf("output path override ignored: %s", o)
	}
}
