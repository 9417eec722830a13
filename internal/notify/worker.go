package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// Worker wraps the asynq server and the lock-window scheduler.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	logger    *slog.Logger
}

type WorkerConfig struct {
	RedisOpts   asynq.RedisClientOpt
	Logger      *slog.Logger
	Handler     *Handler
	Concurrency int
}

func NewWorker(cfg WorkerConfig) (*Worker, error) {
	if cfg.Handler == nil {
		return nil, errors.New("notify: handler is required")
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}

	srv := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues:      map[string]int{QueueDefault: 1},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskSavingMatured, cfg.Handler.HandleSavingMatured)
	mux.HandleFunc(TaskLockWindow, cfg.Handler.HandleLockWindow)

	scheduler := asynq.NewScheduler(cfg.RedisOpts, &asynq.SchedulerOpts{Location: time.UTC})
	if _, err := scheduler.Register(LockWindowSpec, NewLockWindowTask(), asynq.Queue(QueueDefault), asynq.MaxRetry(3)); err != nil {
		return nil, err
	}

	return &Worker{server: srv, mux: mux, scheduler: scheduler, logger: cfg.Logger}, nil
}

// Run processes tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.scheduler.Start(); err != nil {
		return err
	}

	if err := w.server.Start(w.mux); err != nil {
		w.scheduler.Shutdown()
		return err
	}

	w.logger.Info("notification worker started", "queue", QueueDefault, "lock_window_spec", LockWindowSpec)

	<-ctx.Done()

	w.scheduler.Shutdown()
	w.server.Shutdown()

	return ctx.Err()
}
