// internal/workers/restock_processor.go
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

const (
	restockMarkerPrefix = "restock:processed:"
	restockMarkerTTL    = 24 * time.Hour
)

// RestockProcessor fans a back-in-stock event out to every subscriber of the
// item. Each event carries an id assigned at enqueue time; a Redis marker
// keyed on that id makes redeliveries of the same event a no-op.
type RestockProcessor struct {
	cache         ports.CacheRepository
	subscriptions ports.SubscriptionRepository
	users         ports.UserRepository
	enqueuer      ports.TaskEnqueuer
	logger        *slog.Logger
}

// NewRestockProcessor creates a new restock fan-out processor
func NewRestockProcessor(
	cache ports.CacheRepository,
	subscriptions ports.SubscriptionRepository,
	users ports.UserRepository,
	enqueuer ports.TaskEnqueuer,
	logger *slog.Logger,
) *RestockProcessor {
	return &RestockProcessor{
		cache:         cache,
		subscriptions: subscriptions,
		users:         users,
		enqueuer:      enqueuer,
		logger:        logger.With(slog.String("processor", "restock")),
	}
}

// ProcessRestockFanout handles one restock event
func (p *RestockProcessor) ProcessRestockFanout(ctx context.Context, t *asynq.Task) error {
	var event ports.RestockEvent
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	if event.EventID == "" {
		return fmt.Errorf("restock event has no event id: %w", asynq.SkipRetry)
	}

	if event.NewQuantity <= event.OldQuantity {
		p.logger.WarnContext(ctx, "ignoring non-restock event",
			slog.String("event_id", event.EventID),
			slog.Int("old_quantity", event.OldQuantity),
			slog.Int("new_quantity", event.NewQuantity))
		return nil
	}

	marker := restockMarkerPrefix + event.EventID
	claimed, err := p.cache.SetNX(ctx, marker, 1, restockMarkerTTL)
	if err != nil {
		return fmt.Errorf("failed to claim event marker: %w", err)
	}

	if !claimed {
		p.logger.InfoContext(ctx, "duplicate restock event skipped",
			slog.String("event_id", event.EventID),
			slog.String("item_id", event.ItemID.String()))
		return nil
	}

	subs, err := p.subscriptions.FindByItem(ctx, event.ItemID)
	if err != nil {
		// Release the marker so the retry is not treated as a duplicate.
		if delErr := p.cache.Delete(ctx, marker); delErr != nil {
			p.logger.ErrorContext(ctx, "failed to release event marker",
				slog.String("event_id", event.EventID),
				slog.String("error", delErr.Error()))
		}
		return fmt.Errorf("failed to load subscribers: %w", err)
	}

	var sent int
	for _, sub := range subs {
		user, err := p.users.FindByID(ctx, sub.UserID)
		if err != nil || user == nil {
			p.logger.WarnContext(ctx, "skipping subscriber without account",
				slog.String("user_id", sub.UserID.String()))
			continue
		}

		if user.Email == "" {
			p.logger.WarnContext(ctx, "skipping subscriber without email",
				slog.String("user_id", sub.UserID.String()))
			continue
		}

		msg := &ports.EmailMessage{
			To:      user.Email,
			Subject: "Item Restocked!",
			Text:    fmt.Sprintf("%s is now back in stock!", event.ItemName),
			HTML: fmt.Sprintf(
				"<h2>Item Restocked!</h2><p>%s is now back in stock!</p><p>Current quantity: %d</p>",
				event.ItemName, event.NewQuantity),
		}

		if err := p.enqueuer.EnqueueEmail(ctx, msg); err != nil {
			p.logger.WarnContext(ctx, "failed to queue restock email",
				slog.String("user_id", sub.UserID.String()),
				slog.String("error", err.Error()))
			continue
		}
		sent++
	}

	p.logger.InfoContext(ctx, "restock fan-out completed",
		slog.String("event_id", event.EventID),
		slog.String("item_id", event.ItemID.String()),
		slog.String("item_name", event.ItemName),
		slog.Int("subscribers", len(subs)),
		slog.Int("emails_queued", sent))

	return nil
}
