package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/metromood/internal/config"
	"github.com/MrJamesThe3rd/metromood/internal/format"
	"github.com/MrJamesThe3rd/metromood/internal/notify"
	"github.com/MrJamesThe3rd/metromood/internal/state/store"
)

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		slog.Error("worker failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.ValidateWorker(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := store.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.Store.Driver, err)
	}
	defer closeRepo()

	formatter, err := format.New(cfg.App.Locale, cfg.App.Currency)
	if err != nil {
		return fmt.Errorf("configuring formatter: %w", err)
	}

	logger := slog.Default()

	handler := notify.NewHandler(notify.HandlerConfig{
		Repo:   repo,
		Key:    cfg.Store.Key,
		Cycle:  cfg.CycleConfig(),
		Format: formatter,
		Logger: logger,
	})

	worker, err := notify.NewWorker(notify.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.Redis.Addr},
		Logger:    logger,
		Handler:   handler,
	})
	if err != nil {
		return fmt.Errorf("creating worker: %w", err)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
