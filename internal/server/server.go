package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itsjoyciee/gas-monitoring/internal/alerts"
	"github.com/itsjoyciee/gas-monitoring/internal/config"
	"github.com/itsjoyciee/gas-monitoring/internal/handlers"
	"github.com/itsjoyciee/gas-monitoring/internal/logger"
	"github.com/itsjoyciee/gas-monitoring/internal/middleware"
	"github.com/itsjoyciee/gas-monitoring/internal/storage"
)

// Server is the high-level coordinator: it owns the store, the optional
// alert publisher, and the HTTP server, and wires the handlers up.
type Server struct {
	cfg        *config.Config
	store      storage.Store
	publisher  *alerts.Publisher
	httpServer *http.Server
	wg         sync.WaitGroup
}

// New constructs a Server with given config.
func New(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Run connects to storage, starts the HTTP server, and blocks until
// the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	log := logger.WithComponent("server")
	log.Info().Msg("server starting")

	store, err := storage.Open(s.cfg.Database)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to database")
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.store = store
	defer s.store.Close()

	if err := s.initPublisher(); err != nil {
		return err
	}
	if s.publisher != nil {
		defer s.publisher.Close()
	}

	serverIP := handlers.LocalIP()
	s.initHTTPServer(serverIP)

	log.Info().
		Str("addr", s.cfg.HTTPAddr).
		Str("server_ip", serverIP).
		Strs("endpoints", []string{"/api/health", "/api/data", "/api/history", "/api/network_info", "/metrics"}).
		Msg("starting HTTP server")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	return s.shutdown()
}

// initPublisher creates the Kafka alert publisher when brokers are
// configured; without brokers the fan-out is simply disabled.
func (s *Server) initPublisher() error {
	if len(s.cfg.Kafka.Brokers) == 0 {
		return nil
	}

	log := logger.WithComponent("server")
	publisher, err := alerts.NewPublisher(s.cfg.Kafka.Brokers, s.cfg.Kafka.Topic)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize alert publisher")
		return fmt.Errorf("failed to initialize alert publisher: %w", err)
	}

	s.publisher = publisher
	log.Info().
		Strs("brokers", s.cfg.Kafka.Brokers).
		Str("topic", s.cfg.Kafka.Topic).
		Msg("alert publisher initialized")
	return nil
}

// initHTTPServer builds the route table. /api/data dispatches on
// method: POST ingests, GET queries.
func (s *Server) initHTTPServer(serverIP string) {
	evaluator := alerts.NewEvaluator(s.cfg.Alerting.GasThreshold)

	var publisher handlers.AlertPublisher
	if s.publisher != nil {
		publisher = s.publisher
	}

	ingest := handlers.NewIngestHandler(s.store, evaluator, publisher)
	query := handlers.NewQueryHandler(s.store, s.cfg.Alerting)
	history := handlers.NewHistoryHandler(s.store)
	health := handlers.NewHealthHandler(s.store, serverIP)
	network := handlers.NewNetworkInfoHandler(serverIP)

	data := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			ingest.ServeHTTP(w, r)
		case http.MethodGet:
			query.ServeHTTP(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux := http.NewServeMux()
	mux.Handle("/api/data", middleware.Chain(data, middleware.Recovery, middleware.Logging))
	mux.Handle("/api/history", middleware.Chain(history, middleware.Recovery, middleware.Logging))
	mux.Handle("/api/health", middleware.Chain(health, middleware.Recovery, middleware.Logging))
	mux.Handle("/api/network_info", middleware.Chain(network, middleware.Recovery, middleware.Logging))
	mux.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         s.cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// shutdown performs graceful shutdown
func (s *Server) shutdown() error {
	log := logger.WithComponent("server")
	log.Info().Msg("initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	s.wg.Wait()
	log.Info().Msg("server stopped gracefully")
	return nil
}
