package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"dupecheck/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("DUPECHECK_DATA_DIR", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "dupecheck", "config.toml"); resolved != want {
		t.Fatalf("resolved = %q, want %q", resolved, want)
	}
	if want := filepath.Join(tempHome, ".local", "share", "dupecheck"); cfg.Paths.DataDir != want {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, want)
	}
	if cfg.DatabasePath() != filepath.Join(cfg.Paths.DataDir, "dupecheck.db") {
		t.Fatalf("unexpected database path %q", cfg.DatabasePath())
	}
	if cfg.Paths.APIBind != "127.0.0.1:7488" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Matching.DuplicatePercent != 90 || cfg.Matching.ImageMaxDistance != 12 || cfg.Retrieval.WindowDays != 90 {
		t.Fatalf("unexpected defaults: %+v %+v", cfg.Matching, cfg.Retrieval)
	}
}

func TestLoadDataDirFromEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dataDir := t.TempDir()
	t.Setenv("DUPECHECK_DATA_DIR", dataDir)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DataDir != dataDir {
		t.Fatalf("data dir = %q, want %q", cfg.Paths.DataDir, dataDir)
	}
}

func TestLoadCustomFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("DUPECHECK_DATA_DIR", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	payload := map[string]any{
		"paths":     map[string]any{"data_dir": "~/dc", "api_bind": " 0.0.0.0:9000 "},
		"logging":   map[string]any{"format": "JSON", "level": "Debug"},
		"matching":  map[string]any{"image_max_distance": 8, "min_run": 6},
		"retrieval": map[string]any{"protected_limit": 25},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected %q to be loaded, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, "dc") {
		t.Fatalf("data dir not expanded: %q", cfg.Paths.DataDir)
	}
	if cfg.Paths.APIBind != "0.0.0.0:9000" {
		t.Fatalf("api bind not trimmed: %q", cfg.Paths.APIBind)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
	if cfg.Matching.ImageMaxDistance != 8 || cfg.Matching.MinRun != 6 {
		t.Fatalf("matching overrides lost: %+v", cfg.Matching)
	}
	if cfg.Matching.DuplicatePercent != 90 {
		t.Fatalf("unset keys should keep defaults, got %d", cfg.Matching.DuplicatePercent)
	}
	limits := cfg.RetrievalLimits()
	if limits.ProtectedLimit != 25 || limits.TextLimit != 200 || limits.WindowDays != 90 {
		t.Fatalf("unexpected retrieval limits %+v", limits)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[matching]\nimage_distance = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "image_distance") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"defaults", func(*config.Config) {}, ""},
		{"bad format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"zero run", func(c *config.Config) { c.Matching.MinRun = 0 }, "matching.min_run"},
		{"percent range", func(c *config.Config) { c.Matching.DuplicatePercent = 101 }, "matching.duplicate_percent"},
		{"threshold order", func(c *config.Config) { c.Matching.CopyrightPercent = 85 }, "copyright_percent"},
		{"distance range", func(c *config.Config) { c.Matching.FrameMaxDistance = 65 }, "matching.frame_max_distance"},
		{"window", func(c *config.Config) { c.Retrieval.WindowDays = 0 }, "retrieval.window_days"},
		{"limits", func(c *config.Config) { c.Retrieval.ClipLimit = 0 }, "clip_limit"},
		{"cache", func(c *config.Config) { c.Retrieval.SampleCacheEntries = -1 }, "sample_cache_entries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DUPECHECK_DATA_DIR", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	def := config.Default()
	if cfg.Matching != def.Matching || cfg.Retrieval != def.Retrieval {
		t.Fatalf("sample config diverges from defaults:\n%+v\n%+v", cfg.Matching, def.Matching)
	}
}
