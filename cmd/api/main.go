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

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/metromood/internal/config"
	"github.com/MrJamesThe3rd/metromood/internal/export"
	"github.com/MrJamesThe3rd/metromood/internal/format"
	metroHttp "github.com/MrJamesThe3rd/metromood/internal/http"
	accountHandler "github.com/MrJamesThe3rd/metromood/internal/http/account"
	cycleHandler "github.com/MrJamesThe3rd/metromood/internal/http/cycle"
	exportHandler "github.com/MrJamesThe3rd/metromood/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/metromood/internal/http/importcsv"
	savingsHandler "github.com/MrJamesThe3rd/metromood/internal/http/savings"
	symptomHandler "github.com/MrJamesThe3rd/metromood/internal/http/symptom"
	txHandler "github.com/MrJamesThe3rd/metromood/internal/http/transaction"
	"github.com/MrJamesThe3rd/metromood/internal/importer"
	"github.com/MrJamesThe3rd/metromood/internal/mood"
	"github.com/MrJamesThe3rd/metromood/internal/notify"
	"github.com/MrJamesThe3rd/metromood/internal/state"
	"github.com/MrJamesThe3rd/metromood/internal/state/store"
)

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := store.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.Store.Driver, err)
	}
	defer closeRepo()

	opts := state.Options{
		Key:             cfg.Store.Key,
		Cycle:           cfg.CycleConfig(),
		ProcessingDelay: cfg.Savings.ProcessingDelay,
		EnforceLock:     cfg.Savings.EnforceLock,
		Moods:           mood.Default(),
	}

	if cfg.Redis.Addr != "" {
		client := notify.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr})
		defer client.Close()

		opts.Notifier = client
	}

	svc, err := state.NewService(ctx, repo, opts)
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}

	formatter, err := format.New(cfg.App.Locale, cfg.App.Currency)
	if err != nil {
		return fmt.Errorf("configuring formatter: %w", err)
	}

	var (
		importService = importer.NewService()
		exportService = export.NewService(svc, formatter)
	)

	router := metroHttp.New(metroHttp.Handlers{
		Account:      accountHandler.NewHandler(svc),
		Transactions: txHandler.NewHandler(svc),
		Cycle:        cycleHandler.NewHandler(svc),
		Import:       importHandler.NewHandler(importService, svc),
		Symptoms:     symptomHandler.NewHandler(svc),
		Savings:      savingsHandler.NewHandler(svc),
		Export:       exportHandler.NewHandler(exportService),
	}, metroHttp.Options{
		AllowedOrigins:     cfg.Server.AllowedOrigins,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		Timeout:            cfg.Server.Timeout,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "port", server.Addr, "store", cfg.Store.Driver, "app", cfg.App.Name)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
