package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"alertcycle/internal/clock"
	"alertcycle/internal/config"
	"alertcycle/internal/engine"
	"alertcycle/internal/events"
	"alertcycle/internal/ingest"
	"alertcycle/internal/logging"
)

// Service composes runtime dependencies and process lifecycle.
// Params: config source and shared runtime components.
// Returns: runnable alert lifecycle service.
type Service struct {
	cfg        config.Config
	logger     *slog.Logger
	closeLog   func()
	bus        *events.Bus
	controller *engine.Controller
	forwarder  *events.Forwarder
	httpSrv    *http.Server
	natsSub    interface{ Close() error }
	readyFlag  atomic.Bool
	clock      clock.Clock
}

// NewService builds service instance from config source.
// Params: config source and clock implementation.
// Returns: initialized service or setup error.
func NewService(source config.ConfigSource, clk clock.Clock) (*Service, error) {
	cfg, err := config.LoadSnapshot(source)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	bus := events.NewBus()
	controller := engine.NewController(cfg.Engine, logger, clk, bus)

	service := &Service{
		cfg:        cfg,
		logger:     logger,
		closeLog:   closeLog,
		bus:        bus,
		controller: controller,
		clock:      clk,
	}

	if err := service.buildEventForwarder(); err != nil {
		service.cleanupInitResources()
		return nil, err
	}
	if err := service.buildHTTPServer(); err != nil {
		service.cleanupInitResources()
		return nil, err
	}
	if err := service.buildNATSSubscriber(); err != nil {
		service.cleanupInitResources()
		return nil, err
	}

	return service, nil
}

// Run starts service lifecycle and blocks until shutdown signal.
// Params: root context for service runtime.
// Returns: terminal run error.
func (s *Service) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting",
			"listen", s.cfg.Ingest.HTTP.Listen, "mode", s.cfg.Service.Mode)
		err := s.httpSrv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	s.readyFlag.Store(true)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		return s.shutdown()
	case err := <-errChan:
		_ = s.shutdown()
		return fmt.Errorf("http server failed: %w", err)
	case <-sigChan:
		return s.shutdown()
	}
}

// shutdown closes runtime resources in dependency order: stop intake first,
// then the engine, then the event forwarder so in-flight events still go out.
// Params: none.
// Returns: first close error.
func (s *Service) shutdown() error {
	s.readyFlag.Store(false)
	grace := time.Duration(s.cfg.Service.ShutdownGraceSec) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	var firstErr error
	markErr := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if err := s.httpSrv.Shutdown(ctx); err != nil {
		s.logger.Error("http shutdown failed", "error", err.Error())
		markErr(fmt.Errorf("http shutdown: %w", err))
	}
	if s.natsSub != nil {
		if err := s.natsSub.Close(); err != nil {
			s.logger.Error("nats subscriber close failed", "error", err.Error())
			markErr(fmt.Errorf("nats subscriber close: %w", err))
		}
	}

	s.controller.Stop()

	if s.forwarder != nil {
		if err := s.forwarder.Close(); err != nil {
			s.logger.Error("event forwarder close failed", "error", err.Error())
			markErr(fmt.Errorf("event forwarder close: %w", err))
		}
	}
	if s.closeLog != nil {
		s.closeLog()
	}
	return firstErr
}

// cleanupInitResources closes partially initialized resources on startup failures.
// Params: none.
// Returns: all acquired resources closed best-effort.
func (s *Service) cleanupInitResources() {
	if s.natsSub != nil {
		_ = s.natsSub.Close()
		s.natsSub = nil
	}
	if s.httpSrv != nil {
		_ = s.httpSrv.Close()
		s.httpSrv = nil
	}
	if s.controller != nil {
		s.controller.Stop()
	}
	if s.forwarder != nil {
		_ = s.forwarder.Close()
		s.forwarder = nil
	}
	if s.closeLog != nil {
		s.closeLog()
		s.closeLog = nil
	}
}

// buildEventForwarder subscribes the JetStream forwarder to the event bus
// when events forwarding is enabled.
// Params: none.
// Returns: setup error.
func (s *Service) buildEventForwarder() error {
	if !s.cfg.Events.NATS.Enabled {
		return nil
	}
	forwarder, err := events.NewForwarder(s.cfg.Events.NATS, s.logger)
	if err != nil {
		return err
	}
	s.forwarder = forwarder
	s.bus.Subscribe(forwarder.Publish)
	return nil
}

// buildHTTPServer wires router with API and health endpoints.
// Params: none.
// Returns: setup error.
func (s *Service) buildHTTPServer() error {
	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.Ingest.HTTP.HealthPath, func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte("ok"))
	})
	mux.HandleFunc(s.cfg.Ingest.HTTP.ReadyPath, func(writer http.ResponseWriter, _ *http.Request) {
		if !s.readyFlag.Load() {
			writer.WriteHeader(http.StatusServiceUnavailable)
			_, _ = writer.Write([]byte("not-ready"))
			return
		}
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte("ready"))
	})

	if s.cfg.Ingest.HTTP.Enabled {
		api := ingest.NewAPI(s.controller, s.cfg.Ingest.HTTP, s.logger)
		api.Register(mux, s.cfg.Ingest.HTTP.APIPrefix)
	}

	s.httpSrv = &http.Server{
		Addr:              s.cfg.Ingest.HTTP.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return nil
}

// buildNATSSubscriber starts NATS submission intake when enabled.
// Params: none.
// Returns: initialization error.
func (s *Service) buildNATSSubscriber() error {
	if !s.cfg.Ingest.NATS.Enabled {
		return nil
	}
	subscriber, err := ingest.NewNATSSubscriber(s.cfg.Ingest.NATS, s.controller, s.logger)
	if err != nil {
		return err
	}
	s.natsSub = subscriber
	return nil
}
