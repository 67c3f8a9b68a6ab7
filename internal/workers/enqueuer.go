// internal/workers/enqueuer.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/kiranakart/kirana-be/internal/core/ports"
)

// Enqueuer pushes background tasks onto the asynq queue. Restock fan-outs go
// to the critical queue so alerts are not starved by bulk imports.
type Enqueuer struct {
	client *asynq.Client
	logger *slog.Logger
}

var _ ports.TaskEnqueuer = (*Enqueuer)(nil)

// NewEnqueuer creates a new task enqueuer
func NewEnqueuer(client *asynq.Client, logger *slog.Logger) *Enqueuer {
	return &Enqueuer{
		client: client,
		logger: logger.With(slog.String("component", "enqueuer")),
	}
}

// EnqueueRestockFanout queues the back-in-stock notification fan-out
func (e *Enqueuer) EnqueueRestockFanout(ctx context.Context, event *ports.RestockEvent) error {
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal restock event: %w", err)
	}

	task := asynq.NewTask(ports.TaskRestockFanout, b)
	info, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue("critical"),
		asynq.MaxRetry(5),
		asynq.Retention(24*time.Hour))
	if err != nil {
		return fmt.Errorf("failed to enqueue restock fan-out: %w", err)
	}

	e.logger.DebugContext(ctx, "restock fan-out enqueued",
		slog.String("task_id", info.ID),
		slog.String("event_id", event.EventID))

	return nil
}

// EnqueueEmail queues a single email delivery
func (e *Enqueuer) EnqueueEmail(ctx context.Context, msg *ports.EmailMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal email message: %w", err)
	}

	task := asynq.NewTask(ports.TaskEmailSend, b)
	info, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue("default"),
		asynq.MaxRetry(3))
	if err != nil {
		return fmt.Errorf("failed to enqueue email: %w", err)
	}

	e.logger.DebugContext(ctx, "email enqueued",
		slog.String("task_id", info.ID),
		slog.String("to", msg.To))

	return nil
}

// EnqueueCSVImport queues an async inventory import
func (e *Enqueuer) EnqueueCSVImport(ctx context.Context, job *ports.CSVImportJob) error {
	b, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal import job: %w", err)
	}

	task := asynq.NewTask(ports.TaskCSVImport, b)
	info, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue("low"),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute))
	if err != nil {
		return fmt.Errorf("failed to enqueue csv import: %w", err)
	}

	e.logger.InfoContext(ctx, "csv import enqueued",
		slog.String("task_id", info.ID),
		slog.String("job_id", job.JobID.String()),
		slog.String("file_path", job.FilePath))

	return nil
}
