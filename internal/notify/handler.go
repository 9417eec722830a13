package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/hibiken/asynq"

	"github.com/MrJamesThe3rd/metromood/internal/cycle"
	"github.com/MrJamesThe3rd/metromood/internal/format"
	"github.com/MrJamesThe3rd/metromood/internal/savings"
	"github.com/MrJamesThe3rd/metromood/internal/state"
)

// Notification is a message shown to the user.
type Notification struct {
	Kind  string
	Title string
	Body  string
}

type Sink interface {
	Send(ctx context.Context, n Notification) error
}

// LogSink writes notifications to the structured log.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Send(_ context.Context, n Notification) error {
	s.Logger.Info("notification", "kind", n.Kind, "title", n.Title, "body", n.Body)
	return nil
}

type Loader interface {
	Load(ctx context.Context, key string) ([]byte, error)
}

type HandlerConfig struct {
	Repo   Loader
	Key    string
	Cycle  cycle.Config
	Sink   Sink
	Format *format.Formatter
	Logger *slog.Logger
	Now    func() time.Time
}

// Handler processes notification tasks. It only ever reads the persisted state.
type Handler struct {
	cfg HandlerConfig
}

func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Key == "" {
		cfg.Key = state.DefaultKey
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.Sink == nil {
		cfg.Sink = LogSink{Logger: cfg.Logger}
	}

	if cfg.Format == nil {
		cfg.Format = format.Default()
	}

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Handler{cfg: cfg}
}

func (h *Handler) load(ctx context.Context) (*state.State, error) {
	defaults := state.Defaults(h.cfg.Now(), h.cfg.Cycle)

	blob, err := h.cfg.Repo.Load(ctx, h.cfg.Key)
	if errors.Is(err, state.ErrNoState) {
		return defaults, nil
	}

	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}

	return state.Decode(blob, defaults)
}

// HandleSavingMatured fulfils the asynq.HandlerFunc contract.
func (h *Handler) HandleSavingMatured(ctx context.Context, task *asynq.Task) error {
	var payload SavingMaturedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decoding payload: %v: %w", err, asynq.SkipRetry)
	}

	st, err := h.load(ctx)
	if err != nil {
		return err
	}

	idx := slices.IndexFunc(st.MoodSavings, func(r savings.Record) bool { return r.ID == payload.SavingID })
	if idx < 0 {
		h.cfg.Logger.Debug("saving already released", "saving_id", payload.SavingID)
		return nil
	}

	rec := st.MoodSavings[idx]
	now := h.cfg.Now()

	if rec.Locked(now) {
		return fmt.Errorf("saving %s still locked until %s", rec.ID, rec.LockedUntil.Format(time.RFC3339))
	}

	if !st.Settings.Notifications {
		return nil
	}

	return h.cfg.Sink.Send(ctx, Notification{
		Kind:  TaskSavingMatured,
		Title: "Mood savings unlocked",
		Body: fmt.Sprintf("Your %s %s saving of %s is now available.",
			rec.Emoji, rec.Mood, h.cfg.Format.Amount(rec.Amount)),
	})
}

// HandleLockWindow warns when the predicted period is close enough for
// savings protection to kick in.
func (h *Handler) HandleLockWindow(ctx context.Context, _ *asynq.Task) error {
	st, err := h.load(ctx)
	if err != nil {
		return err
	}

	if !st.Settings.Notifications {
		return nil
	}

	now := h.cfg.Now()
	summary := cycle.Summarize(cycle.NewLog(st.Periods, st.LastPeriodStart), st.CycleConfig(), now)

	if !summary.Alert.Active {
		return nil
	}

	return h.cfg.Sink.Send(ctx, Notification{
		Kind:  TaskLockWindow,
		Title: "Savings protection active",
		Body: fmt.Sprintf("Your period is predicted in %d days. New mood savings stay locked until %s.",
			summary.Alert.DaysUntilStart, h.cfg.Format.Date(summary.Alert.UnlockDate)),
	})
}
