package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/MrJamesThe3rd/metromood/internal/savings"
)

const (
	QueueDefault = "default"

	TaskSavingMatured = "savings:matured"
	TaskLockWindow    = "cycle:lock_window"

	// LockWindowSpec runs the lock-window check every morning, UTC.
	LockWindowSpec = "0 8 * * *"
)

type SavingMaturedPayload struct {
	SavingID    uuid.UUID `json:"saving_id"`
	LockedUntil time.Time `json:"locked_until"`
}

func NewSavingMaturedTask(rec savings.Record) (*asynq.Task, error) {
	data, err := json.Marshal(SavingMaturedPayload{SavingID: rec.ID, LockedUntil: rec.LockedUntil})
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	return asynq.NewTask(TaskSavingMatured, data), nil
}

func NewLockWindowTask() *asynq.Task {
	return asynq.NewTask(TaskLockWindow, nil)
}
