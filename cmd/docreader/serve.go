package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/docreader/internal/api"
	"github.com/dgallion1/docreader/internal/config"
	"github.com/dgallion1/docreader/internal/events"
	"github.com/dgallion1/docreader/internal/registry"
)

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.App.LogLevel}))
	slog.SetDefault(log)

	broker := events.NewBroker()
	defer broker.Close()

	sessions := registry.New(cfg.Session.TTL, cfg.Session.Cleanup)
	srv := api.NewServer(sessions, broker, log, cfg)

	httpServer := &http.Server{
		Addr:         cfg.App.HTTP.Address(),
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // event streams stay open
		IdleTimeout:  60 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting docreader",
			"address", cfg.App.HTTP.Address(),
			"auth", cfg.Auth.Enabled(),
			"session_ttl", cfg.Session.TTL.String(),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			log.Info("shutting down...", "signal", sig.String())
		case <-gCtx.Done():
		}

		// Close event streams first so Shutdown is not held open by them.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("http server shutdown", "error", err)
		}
		return nil
	})

	return g.Wait()
}
