package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/nerrad567/homekit-mqtt/internal/adapter"
	"github.com/nerrad567/homekit-mqtt/internal/bridge"
	"github.com/nerrad567/homekit-mqtt/internal/history"
	"github.com/nerrad567/homekit-mqtt/internal/infrastructure/config"
	"github.com/nerrad567/homekit-mqtt/internal/infrastructure/logging"
)

const (
	// gracefulShutdownTimeout is the maximum time to wait for in-flight
	// requests to complete during shutdown.
	gracefulShutdownTimeout = 10 * time.Second

	// healthCheckTimeout bounds each component check of /health.
	healthCheckTimeout = 2 * time.Second
)

// HealthChecker is a component that can report its own health.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Broker is the broker client view the status API needs.
type Broker interface {
	HealthChecker
	SubscriptionCount() int
}

// BridgeStats supplies the bridge counters.
type BridgeStats interface {
	Stats() bridge.Stats
}

// RecorderStats supplies the history recorder counters.
type RecorderStats interface {
	Stats() history.RecorderStats
}

// Deps holds the dependencies of the API server. Only Logger and Bridge are
// required; endpoints backed by a missing component report it as disabled
// or unavailable.
type Deps struct {
	Config   config.APIConfig
	Logger   *logging.Logger
	Bridge   BridgeStats
	Broker   Broker
	Database HealthChecker
	InfluxDB HealthChecker
	History  history.Repository
	Recorder RecorderStats

	// Adapters lists the payload adapters. Defaults to adapter.Default().
	Adapters *adapter.Registry

	Version string
}

// Server is the HTTP status API server.
type Server struct {
	cfg      config.APIConfig
	logger   *logging.Logger
	bridge   BridgeStats
	broker   Broker
	database HealthChecker
	influx   HealthChecker
	history  history.Repository
	recorder RecorderStats
	adapters *adapter.Registry
	version  string

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Bridge == nil {
		return nil, fmt.Errorf("bridge is required")
	}
	if deps.Adapters == nil {
		deps.Adapters = adapter.Default()
	}

	return &Server{
		cfg:      deps.Config,
		logger:   deps.Logger,
		bridge:   deps.Bridge,
		broker:   deps.Broker,
		database: deps.Database,
		influx:   deps.InfluxDB,
		history:  deps.History,
		recorder: deps.Recorder,
		adapters: deps.Adapters,
		version:  deps.Version,
	}, nil
}

// Start binds the listen address and serves requests in a background
// goroutine. The server can be stopped with Close().
//
// Parameters:
//   - ctx: Context for cancellation (not used for listener lifetime)
//
// Returns:
//   - error: If the address cannot be bound or the server is already started
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return fmt.Errorf("api server already started")
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port)))
	if err != nil {
		return fmt.Errorf("binding api listener: %w", err)
	}

	s.listener = ln
	s.server = &http.Server{
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	srv := s.server
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	s.logger.Info("API server listening", "address", ln.Addr().String())
	return nil
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}
