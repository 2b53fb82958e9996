package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"dupecheck/internal/config"
	"dupecheck/internal/logging"
	"dupecheck/internal/matcher"
	"dupecheck/internal/store"
)

// StatsSource reports store counters for the health endpoint.
type StatsSource interface {
	Stats(ctx context.Context) (store.Stats, error)
}

// Server owns the HTTP listener and the single-instance lock.
type Server struct {
	bind   string
	token  string
	router *matcher.Router
	stats  StatsSource
	logger *slog.Logger

	lockPath string
	lock     *flock.Flock

	mu       sync.Mutex
	listener net.Listener
	http     *http.Server
	running  atomic.Bool
	started  time.Time
}

// New constructs a server. stats may be nil.
func New(cfg *config.Config, router *matcher.Router, stats StatsSource, logger *slog.Logger) (*Server, error) {
	if cfg == nil || router == nil {
		return nil, errors.New("server requires config and router")
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, errors.New("server requires paths.api_bind")
	}
	s := &Server{
		bind:     bind,
		token:    cfg.Paths.APIToken,
		router:   router,
		stats:    stats,
		logger:   logging.NewComponentLogger(logger, "server"),
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}
	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler returns the route table with authentication applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/evaluate", s.requireToken(s.handleEvaluate))
	mux.HandleFunc("POST /v1/record", s.requireToken(s.handleRecord))
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return mux
}

// Start acquires the lock and begins serving. The server shuts down when ctx
// is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return errors.New("server already running")
	}

	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another dupecheck server holds %s", s.lockPath)
	}

	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		_ = s.lock.Unlock()
		return fmt.Errorf("api listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.started = time.Now()
	s.mu.Unlock()
	s.running.Store(true)

	go func() {
		if err := s.http.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening",
		logging.String("address", listener.Addr().String()),
		logging.String("lock", s.lockPath),
		logging.Bool("auth", s.token != ""),
	)
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts down the listener and releases the lock. It is safe to call
// more than once.
func (s *Server) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("api server shutdown incomplete", logging.Error(err))
	}
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("failed to release server lock", logging.Error(err))
	}
	s.mu.Lock()
	s.listener = nil
	s.mu.Unlock()
	s.logger.Info("api server stopped")
}

// Run starts the server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}
