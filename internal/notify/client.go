package notify

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/MrJamesThe3rd/metromood/internal/savings"
)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Client schedules reminders on the asynq queue.
type Client struct {
	client enqueuer
}

func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// SavingLocked schedules a maturity reminder for when rec unlocks. The task id
// is derived from the saving so a retried deposit never schedules twice.
func (c *Client) SavingLocked(ctx context.Context, rec savings.Record) error {
	task, err := NewSavingMaturedTask(rec)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueDefault),
		asynq.ProcessAt(rec.LockedUntil),
		asynq.TaskID("saving:"+rec.ID.String()),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return fmt.Errorf("enqueueing %s: %w", TaskSavingMatured, err)
	}

	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
