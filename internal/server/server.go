// ABOUTME: Server orchestrator that wires store, habit service and HTTP API
// ABOUTME: Manages listeners (TCP or tailscale), health endpoints and graceful shutdown

package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"tailscale.com/ipn/ipnstate"
	"tailscale.com/tsnet"

	"github.com/2389/habitd/internal/api"
	"github.com/2389/habitd/internal/config"
	"github.com/2389/habitd/internal/habits"
	"github.com/2389/habitd/internal/metrics"
	"github.com/2389/habitd/internal/store"
)

// readyTimeout bounds the store ping behind /health/ready.
const readyTimeout = 2 * time.Second

// Server runs the habitd HTTP service.
type Server struct {
	config      *config.Config
	store       store.Store
	habits      *habits.Service
	metrics     *metrics.Metrics
	httpServer  *http.Server
	tsnetServer *tsnet.Server
	logger      *slog.Logger
}

// openStore creates the store selected by cfg.Database.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		s, err := store.NewPostgresStore(ctx, store.PostgresConfig{
			DSN:      cfg.DSN,
			MaxConns: cfg.MaxConns,
		})
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return s, nil

	case config.DriverSQLite, "":
		s, err := store.NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// New opens the configured store and builds the HTTP handler tree.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s, err := openStore(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	srv, err := NewWithStore(cfg, s, logger)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	return srv, nil
}

// NewWithStore builds a Server around an already opened store.
// On success the Server takes ownership of s and closes it on Shutdown.
func NewWithStore(cfg *config.Config, s store.Store, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	svc := habits.New(s, logger,
		habits.WithMetrics(m),
		habits.WithMaxToggleAttempts(cfg.Toggle.MaxAttempts),
	)

	srv := &Server{
		config:  cfg,
		store:   s,
		habits:  svc,
		metrics: m,
		logger:  logger.With("component", "server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", srv.handleHealth)
	mux.HandleFunc("GET /health/ready", srv.handleReady)

	api.New(svc, logger,
		api.WithLocation(cfg.Calendar.Location()),
		api.WithMetrics(m),
	).Register(mux)

	if m != nil {
		if route := routedPattern(mux, cfg.Metrics.Path); route != "" {
			return nil, fmt.Errorf("metrics.path %q collides with route %q", cfg.Metrics.Path, route)
		}
		mux.Handle("GET "+cfg.Metrics.Path, m.Handler())
	}

	readHeaderTimeout := cfg.Server.ReadHeaderTimeout
	if readHeaderTimeout == 0 {
		readHeaderTimeout = config.DefaultReadHeaderTimeout
	}
	srv.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return srv, nil
}

// routedPattern returns the pattern mux already serves for GET path, or "".
func routedPattern(mux *http.ServeMux, path string) string {
	req := &http.Request{Method: http.MethodGet, URL: &url.URL{Path: path}}
	_, pattern := mux.Handler(req)
	return pattern
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Habits returns the habit service backing the API.
func (s *Server) Habits() *habits.Service {
	return s.habits
}

// setupListener creates the HTTP listener based on configuration (Tailscale or TCP).
func (s *Server) setupListener(ctx context.Context) (net.Listener, error) {
	if s.config.Tailscale.Enabled {
		if s.config.Server.HTTPAddr != "" {
			s.logger.Warn("server.http_addr is ignored when tailscale is enabled",
				"http_addr", s.config.Server.HTTPAddr,
			)
		}
		return s.setupTailscaleListener(ctx)
	}

	ln, err := net.Listen("tcp", s.config.Server.HTTPAddr)
	if err != nil {
		return nil, fmt.Errorf("listening on HTTP address: %w", err)
	}
	return ln, nil
}

// Run starts serving and blocks until the context is canceled.
// Returns nil on graceful shutdown, or an error if the server fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := s.setupListener(ctx)
	if err != nil {
		_ = s.store.Close()
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves HTTP on ln until ctx is canceled, then shuts down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		s.logger.Error("server error", "error", serverErr)
	}

	shutdownErr := s.gracefulShutdown()
	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout,
// since the serving context is already canceled.
func (s *Server) gracefulShutdown() error {
	timeout := s.config.Server.ShutdownTimeout
	if timeout == 0 {
		timeout = config.DefaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.Shutdown(ctx)
}

// resolveTailscaleStateDir returns the state directory, using default if not configured.
func resolveTailscaleStateDir(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory for tailscale state (set tailscale.state_dir explicitly): %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "habitd", "tailscale"), nil
}

// resolveTailscaleAuthKey returns the auth key from config or environment.
func resolveTailscaleAuthKey(configured string) (string, error) {
	authKey := configured
	if authKey == "" {
		authKey = os.Getenv("TS_AUTHKEY")
	}
	if authKey == "" {
		return "", errors.New("tailscale auth key required: set auth_key in config or TS_AUTHKEY environment variable (get one at https://login.tailscale.com/admin/settings/keys)")
	}
	return authKey, nil
}

// setupTailscaleListener starts a tsnet node and returns its HTTP listener.
func (s *Server) setupTailscaleListener(ctx context.Context) (net.Listener, error) {
	tsCfg := s.config.Tailscale

	stateDir, err := resolveTailscaleStateDir(tsCfg.StateDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return nil, fmt.Errorf("creating tailscale state dir: %w", err)
	}

	authKey, err := resolveTailscaleAuthKey(tsCfg.AuthKey)
	if err != nil {
		return nil, err
	}

	s.tsnetServer = &tsnet.Server{
		Hostname:  tsCfg.Hostname,
		Dir:       stateDir,
		Ephemeral: tsCfg.Ephemeral,
		AuthKey:   authKey,
	}

	s.logger.Info("starting tailscale node", "hostname", tsCfg.Hostname, "state_dir", stateDir, "ephemeral", tsCfg.Ephemeral)
	status, err := s.tsnetServer.Up(ctx)
	if err != nil {
		_ = s.tsnetServer.Close()
		s.tsnetServer = nil
		return nil, fmt.Errorf("starting tailscale: %w", err)
	}
	s.logTailscaleStatus(tsCfg.Hostname, status)

	return s.createTailscaleHTTPListener(tsCfg)
}

// logTailscaleStatus logs info about the tailscale node status.
func (s *Server) logTailscaleStatus(hostname string, status *ipnstate.Status) {
	var tsAddr, dnsName string
	if len(status.TailscaleIPs) > 0 {
		tsAddr = status.TailscaleIPs[0].String()
	} else {
		s.logger.Warn("tailscale node has no IP addresses assigned")
	}
	if status.Self != nil {
		dnsName = status.Self.DNSName
	}
	s.logger.Info("tailscale node ready", "hostname", hostname, "tailscale_ip", tsAddr, "dns_name", dnsName)
}

// createTailscaleHTTPListener creates the appropriate HTTP listener based on config.
func (s *Server) createTailscaleHTTPListener(tsCfg config.TailscaleConfig) (net.Listener, error) {
	closeNode := func() {
		_ = s.tsnetServer.Close()
		s.tsnetServer = nil
	}

	switch {
	case tsCfg.Funnel:
		s.logger.Info("enabling tailscale funnel (public HTTPS) on :443")
		ln, err := s.tsnetServer.ListenFunnel("tcp", ":443")
		if err != nil {
			closeNode()
			return nil, fmt.Errorf("listening on tailscale funnel port: %w", err)
		}
		return ln, nil

	case tsCfg.HTTPS:
		s.logger.Info("enabling HTTPS with Tailscale certs on :443")
		ln, err := s.tsnetServer.Listen("tcp", ":443")
		if err != nil {
			closeNode()
			return nil, fmt.Errorf("listening on tailscale HTTPS port: %w", err)
		}
		lc, err := s.tsnetServer.LocalClient()
		if err != nil {
			_ = ln.Close()
			closeNode()
			return nil, fmt.Errorf("getting tailscale local client: %w", err)
		}
		return tls.NewListener(ln, &tls.Config{
			GetCertificate: lc.GetCertificate,
			MinVersion:     tls.VersionTLS12,
		}), nil

	default:
		ln, err := s.tsnetServer.Listen("tcp", ":80")
		if err != nil {
			closeNode()
			return nil, fmt.Errorf("listening on tailscale HTTP port: %w", err)
		}
		return ln, nil
	}
}

// appendCloseError appends an error with label if err is non-nil.
func appendCloseError(errs []error, label string, err error) []error {
	if err != nil {
		return append(errs, fmt.Errorf("%s: %w", label, err))
	}
	return errs
}

// Shutdown gracefully stops the HTTP server and releases resources.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	var errs []error
	errs = appendCloseError(errs, "HTTP shutdown", s.httpServer.Shutdown(ctx))
	if s.tsnetServer != nil {
		errs = appendCloseError(errs, "tailscale shutdown", s.tsnetServer.Close())
	}
	errs = appendCloseError(errs, "store close", s.store.Close())

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}
	return nil
}

// handleHealth returns 200 OK if the server is alive.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 200 OK if the store is reachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("store unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "ready (%s)", s.config.Database.Driver)
}
