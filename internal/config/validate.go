package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	return c.validateRetrieval()
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateMatching() error {
	m := c.Matching
	positives := []struct {
		key   string
		value int
	}{
		{"matching.post_min_words", m.PostMinWords},
		{"matching.video_min_words", m.VideoMinWords},
		{"matching.long_text_words", m.LongTextWords},
		{"matching.min_run", m.MinRun},
		{"matching.shingle_size", m.ShingleSize},
		{"matching.min_shingles", m.MinShingles},
	}
	for _, p := range positives {
		if p.value < 1 {
			return fmt.Errorf("%s must be at least 1", p.key)
		}
	}

	percents := []struct {
		key   string
		value int
	}{
		{"matching.duplicate_percent", m.DuplicatePercent},
		{"matching.long_text_duplicate_percent", m.LongTextDuplicatePercent},
		{"matching.copyright_percent", m.CopyrightPercent},
		{"matching.clip_caption_percent", m.ClipCaptionPercent},
		{"matching.min_coverage_percent", m.MinCoveragePercent},
	}
	for _, p := range percents {
		if p.value < 1 || p.value > 100 {
			return fmt.Errorf("%s must be between 1 and 100", p.key)
		}
	}
	if m.CopyrightPercent > m.LongTextDuplicatePercent || m.LongTextDuplicatePercent > m.DuplicatePercent {
		return errors.New("matching: expected copyright_percent <= long_text_duplicate_percent <= duplicate_percent")
	}

	distances := []struct {
		key   string
		value int
	}{
		{"matching.image_max_distance", m.ImageMaxDistance},
		{"matching.frame_max_distance", m.FrameMaxDistance},
		{"matching.audio_max_distance", m.AudioMaxDistance},
	}
	for _, d := range distances {
		if d.value < 0 || d.value > 64 {
			return fmt.Errorf("%s must be between 0 and 64", d.key)
		}
	}
	if m.ShortTextWords < 0 {
		return errors.New("matching.short_text_words must not be negative")
	}
	if m.DurationToleranceSeconds < 0 {
		return errors.New("matching.duration_tolerance_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateRetrieval() error {
	r := c.Retrieval
	if r.WindowDays < 1 {
		return errors.New("retrieval.window_days must be at least 1")
	}
	if r.TextLimit < 1 || r.ProtectedLimit < 1 || r.ClipLimit < 1 {
		return errors.New("retrieval: text_limit, protected_limit and clip_limit must be at least 1")
	}
	if r.SampleCacheEntries < 0 {
		return errors.New("retrieval.sample_cache_entries must not be negative")
	}
	return nil
}
