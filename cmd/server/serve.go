package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gig-manager/backend/internal/api"
	"github.com/gig-manager/backend/internal/broker"
	"github.com/gig-manager/backend/internal/config"
	"github.com/gig-manager/backend/internal/importer"
	"github.com/gig-manager/backend/internal/metrics"
	"github.com/gig-manager/backend/internal/session"
	"github.com/gig-manager/backend/internal/storage"
	"github.com/gig-manager/backend/internal/websocket"
)

func runServe(ctx context.Context, cfg *config.Configuration) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("version", version).Str("env", cfg.Environment).Msg("Starting Gig Manager")

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info().Str("driver", db.Driver()).Msg("Database migrations complete")

	// Initialize WebSocket hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := websocket.NewHub()
	go hub.Run(hubCtx)
	events := websocket.NewEventBroadcaster(hub)

	// Initialize repositories
	orgRepo := storage.NewOrganizationRepository(db)
	gigRepo := storage.NewGigRepository(db)
	assetRepo := storage.NewAssetRepository(db)
	settingsRepo := storage.NewSettingsRepository(db)

	sessions := session.NewStore(cfg.Import.SessionTTL)
	janitor := session.NewJanitor(sessions, cfg.Import.SweepSpec)
	if err := janitor.Start(); err != nil {
		return fmt.Errorf("starting session janitor: %w", err)
	}
	defer janitor.Stop()

	recorder := metrics.Default()
	if err := recorder.TrackSessions(sessions.Len); err != nil {
		log.Warn().Err(err).Msg("Failed to register session gauge")
	}

	observers := importer.Observers{events, recorder}
	if cfg.AMQP.URL != "" {
		publisher, err := broker.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Warn().Err(err).Msg("AMQP unavailable, import completions will not be published")
		} else {
			defer publisher.Close()
			observers = append(observers, publisher)
			log.Info().Str("exchange", cfg.AMQP.Exchange).Msg("Publishing import completions")
		}
	}
	committer := importer.NewCommitter(orgRepo, gigRepo, assetRepo, observers)

	router := api.NewRouter(api.Services{
		Config:        cfg,
		DB:            db,
		Organizations: orgRepo,
		Gigs:          gigRepo,
		Assets:        assetRepo,
		Settings:      settingsRepo,
		Sessions:      sessions,
		Janitor:       janitor,
		Committer:     committer,
		Hub:           hub,
		Metrics:       recorder,
		Version:       version,
	})

	server := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server listening")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serving http: %w", err)
		}
	}

	log.Info().Msg("Shutting down server...")
	events.BroadcastNotification("warning", "Server stopping", "The server is restarting; open imports will be lost.", false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(ctx context.Context, addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("parsing listen address %q: %w", addr, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	url := "http://" + net.JoinHostPort(host, port) + "/api/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check: unexpected status %d", resp.StatusCode)
	}
	return nil
}
