package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"dupecheck/internal/candidates"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir  string `toml:"data_dir"`
	LogDir   string `toml:"log_dir"`
	APIBind  string `toml:"api_bind"`
	APIToken string `toml:"api_token"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Matching holds the similarity thresholds applied by the router. Percent
// values are whole percentages; distances are Hamming bits out of 64.
type Matching struct {
	PostMinWords             int     `toml:"post_min_words"`
	VideoMinWords            int     `toml:"video_min_words"`
	LongTextWords            int     `toml:"long_text_words"`
	DuplicatePercent         int     `toml:"duplicate_percent"`
	LongTextDuplicatePercent int     `toml:"long_text_duplicate_percent"`
	CopyrightPercent         int     `toml:"copyright_percent"`
	ClipCaptionPercent       int     `toml:"clip_caption_percent"`
	ImageMaxDistance         int     `toml:"image_max_distance"`
	FrameMaxDistance         int     `toml:"frame_max_distance"`
	AudioMaxDistance         int     `toml:"audio_max_distance"`
	MinRun                   int     `toml:"min_run"`
	MinCoveragePercent       int     `toml:"min_coverage_percent"`
	ShortTextWords           int     `toml:"short_text_words"`
	ShingleSize              int     `toml:"shingle_size"`
	MinShingles              int     `toml:"min_shingles"`
	DurationToleranceSeconds float64 `toml:"duration_tolerance_seconds"`
}

// Retrieval bounds the candidate sets pulled from the store.
type Retrieval struct {
	WindowDays         int `toml:"window_days"`
	TextLimit          int `toml:"text_limit"`
	ProtectedLimit     int `toml:"protected_limit"`
	ClipLimit          int `toml:"clip_limit"`
	SampleCacheEntries int `toml:"sample_cache_entries"`
}

// Config encapsulates all configuration values for dupecheck.
//
// Configuration sections by subsystem:
//   - Paths: database directory, logs and API bind address
//   - Logging: log format and level
//   - Matching: similarity thresholds used by the router
//   - Retrieval: publication window and candidate limits
type Config struct {
	Paths     Paths     `toml:"paths"`
	Logging   Logging   `toml:"logging"`
	Matching  Matching  `toml:"matching"`
	Retrieval Retrieval `toml:"retrieval"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("dupecheck.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the SQLite database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "dupecheck.db")
}

// LockPath returns the single-writer lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "dupecheck.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// RetrievalLimits converts the [retrieval] section into adapter limits.
func (c *Config) RetrievalLimits() candidates.Limits {
	return candidates.Limits{
		WindowDays:     c.Retrieval.WindowDays,
		TextLimit:      c.Retrieval.TextLimit,
		ProtectedLimit: c.Retrieval.ProtectedLimit,
		ClipLimit:      c.Retrieval.ClipLimit,
	}
}
