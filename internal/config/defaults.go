package config

const (
	defaultConfigPath = "~/.config/dupecheck/config.toml"
	defaultDataDir    = "~/.local/share/dupecheck"
	defaultLogDir     = "~/.local/share/dupecheck/logs"
	defaultAPIBind    = "127.0.0.1:7488"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"

	// dataDirEnv overrides paths.data_dir when set.
	dataDirEnv = "DUPECHECK_DATA_DIR"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Matching: Matching{
			PostMinWords:             10,
			VideoMinWords:            10,
			LongTextWords:            50,
			DuplicatePercent:         90,
			LongTextDuplicatePercent: 80,
			CopyrightPercent:         75,
			ClipCaptionPercent:       90,
			ImageMaxDistance:         12,
			FrameMaxDistance:         17,
			AudioMaxDistance:         17,
			MinRun:                   4,
			MinCoveragePercent:       80,
			ShortTextWords:           30,
			ShingleSize:              3,
			MinShingles:              2,
			DurationToleranceSeconds: 1,
		},
		Retrieval: Retrieval{
			WindowDays:         90,
			TextLimit:          200,
			ProtectedLimit:     300,
			ClipLimit:          50,
			SampleCacheEntries: 1024,
		},
	}
}
