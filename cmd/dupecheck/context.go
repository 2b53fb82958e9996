package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"dupecheck/internal/candidates"
	"dupecheck/internal/config"
	"dupecheck/internal/logging"
	"dupecheck/internal/matcher"
	"dupecheck/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// fileLogger writes JSON logs to the log directory only, keeping stdout free
// for command output.
func (c *commandContext) fileLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Paths.LogDir == "" {
		return logging.NewNop(), nil
	}
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      "json",
		OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, logging.LogFileName)},
	})
}

// session bundles an open store and a router reading from it.
type session struct {
	cfg    *config.Config
	store  *store.Store
	cache  *candidates.SampleCache
	router *matcher.Router
	logger *slog.Logger
}

func (s *session) Close() {
	s.cache.Close()
	if err := s.store.Close(); err != nil {
		s.logger.Warn("close store", logging.Error(err))
	}
}

func (c *commandContext) openSession(logger *slog.Logger) (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		if logger, err = c.fileLogger(); err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	cache, err := candidates.NewSampleCache(cfg.Retrieval.SampleCacheEntries)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("create sample cache: %w", err)
	}
	adapter := candidates.NewAdapter(st, cfg.RetrievalLimits(), cache)
	router := matcher.New(adapter,
		matcher.WithPolicy(matcher.PolicyFromConfig(cfg.Matching)),
		matcher.WithLogger(logger),
		matcher.WithHashWriter(st),
	)
	return &session{cfg: cfg, store: st, cache: cache, router: router, logger: logger}, nil
}

// withWriteLock runs fn while holding the data directory lock shared with
// `dupecheck serve`.
func (c *commandContext) withWriteLock(fn func() error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another dupecheck process holds " + cfg.LockPath() + "; stop `dupecheck serve` or retry later")
	}
	defer func() { _ = lock.Unlock() }()
	return fn()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
