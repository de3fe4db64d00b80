package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"hireloop/models"

	"github.com/hibiken/asynq"
)

// TypeNotificationDeliver is the asynq task type for notification delivery.
const TypeNotificationDeliver = "notification:deliver"

// Dispatcher enqueues notification deliveries for async processing.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload models.NotificationPayload) error
}

// AsynqDispatcher queues deliveries on Redis via asynq.
type AsynqDispatcher struct {
	client *asynq.Client
}

func NewAsynqDispatcher(opt asynq.RedisClientOpt) *AsynqDispatcher {
	return &AsynqDispatcher{client: asynq.NewClient(opt)}
}

func (d *AsynqDispatcher) Dispatch(ctx context.Context, payload models.NotificationPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	task := asynq.NewTask(TypeNotificationDeliver, data)
	if _, err := d.client.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}

func (d *AsynqDispatcher) Close() error {
	return d.client.Close()
}
