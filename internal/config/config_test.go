package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParseFillsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("log_level: debug\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
	if cfg.SimilarNameMaxDistance != SimilarNameDistance {
		t.Errorf("SimilarNameMaxDistance = %d, want %d", cfg.SimilarNameMaxDistance, SimilarNameDistance)
	}
	if cfg.CacheCapacity != DefaultConfig().CacheCapacity {
		t.Errorf("CacheCapacity = %d, want %d", cfg.CacheCapacity, DefaultConfig().CacheCapacity)
	}
}

func TestParseKeepsExplicitValues(t *testing.T) {
	cfg, err := Parse([]byte("similar_name_max_distance: 7\ncache_capacity: 3\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.SimilarNameMaxDistance != 7 {
		t.Errorf("SimilarNameMaxDistance = %d, want 7", cfg.SimilarNameMaxDistance)
	}
	if cfg.CacheCapacity != 3 {
		t.Errorf("CacheCapacity = %d, want 3", cfg.CacheCapacity)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %s, want warn", cfg.LogLevel)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	if _, err := Parse([]byte("log_level: [")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}

	path := filepath.Join(t.TempDir(), "tycore.yaml")
	if err := os.WriteFile(path, []byte("debug: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"error", slog.LevelError},
		{"bogus", slog.LevelWarn},
	}
	for _, tt := range tests {
		cfg := Config{LogLevel: tt.name}
		if got := cfg.Level(); got != tt.want {
			t.Errorf("Level(%s) = %s, want %s", tt.name, got, tt.want)
		}
	}
}
