// internal/core/ports/tasks.go
package ports

import (
	"context"

	"github.com/google/uuid"
)

// Task type names shared by the enqueuer and the worker mux.
const (
	TaskRestockFanout = "restock:fanout"
	TaskEmailSend     = "email:send"
	TaskCSVImport     = "import:csv"
	TaskAnalytics     = "analytics:rollup"
	TaskCleanup       = "cleanup:run"
)

// RestockEvent is the payload of a restock fan-out task. EventID is assigned
// once at enqueue time and identifies this restock across retries, so the
// processor can deduplicate redeliveries.
type RestockEvent struct {
	EventID     string    `json:"event_id"`
	ItemID      uuid.UUID `json:"item_id"`
	StoreID     uuid.UUID `json:"store_id"`
	ItemName    string    `json:"item_name"`
	OldQuantity int       `json:"old_quantity"`
	NewQuantity int       `json:"new_quantity"`
}

// EmailMessage is the payload of an email delivery task.
type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}

// CSVImportJob is the payload of an async inventory import.
type CSVImportJob struct {
	JobID    uuid.UUID `json:"job_id"`
	StoreID  uuid.UUID `json:"store_id"`
	FilePath string    `json:"file_path"`
}

// TaskEnqueuer defines the port for pushing background work onto the queue.
// Implemented by the asynq client adapter.
type TaskEnqueuer interface {
	EnqueueRestockFanout(ctx context.Context, event *RestockEvent) error
	EnqueueEmail(ctx context.Context, msg *EmailMessage) error
	EnqueueCSVImport(ctx context.Context, job *CSVImportJob) error
}
