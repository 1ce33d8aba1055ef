package metrics

import (
	"context"
	"errors"
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"net"
	"net/http"
	"time"
)

const (
	serverName = "Metrics Server"

	// MetricsPath serves the prometheus exposition format.
	MetricsPath = "/metrics"
	// ReadyPath answers 200 while the server runs.
	ReadyPath = "/ready"
)

// Server serves prometheus metrics over HTTP.
type Server struct {
	listener    net.Listener
	server      *http.Server
	stopTimeout time.Duration
}

type Config struct {
	Address string
	// Gatherer defaults to prometheus.DefaultGatherer.
	Gatherer    prometheus.Gatherer
	StopTimeout time.Duration
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Address == "" {
		errGrp = append(errGrp, errors.New("address is required"))
	}
	if c.StopTimeout < 0 {
		errGrp = append(errGrp, errors.New("stop timeout cannot be negative"))
	}
	return errors.Join(errGrp...)
}

// New binds the listener so the address is known before Start.
func New(cfg *Config) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	timeout := cfg.StopTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to create listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle(MetricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc(ReadyPath, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return &Server{
		listener: listener,
		server: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		stopTimeout: timeout,
	}, nil
}

// Addr is the bound address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Start serves until Stop.
func (s *Server) Start() error {
	log.Info().Str("address", s.Addr()).Msg("serving metrics")
	if err := s.server.Serve(s.listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.stopTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) Name() string {
	return serverName
}
