// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"

	"github.com/kiranakart/kirana-be/internal/core/ports"
	"github.com/kiranakart/kirana-be/internal/pkg/config"
)

const readNotificationRetention = 90 * 24 * time.Hour

// CleanupProcessor purges read notifications past their retention window and
// sweeps stale import temp files.
type CleanupProcessor struct {
	notifications ports.NotificationRepository
	config        *config.Config
	logger        *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor
func NewCleanupProcessor(notifications ports.NotificationRepository, config *config.Config, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		notifications: notifications,
		config:        config,
		logger:        logger.With(slog.String("processor", "cleanup")),
	}
}

// Run performs one cleanup pass
func (p *CleanupProcessor) Run(ctx context.Context, t *asynq.Task) error {
	if err := p.purgeNotifications(ctx); err != nil {
		return err
	}
	return p.cleanupTempFiles(ctx)
}

func (p *CleanupProcessor) purgeNotifications(ctx context.Context) error {
	p.logger.InfoContext(ctx, "purging read notifications")

	cutoff := time.Now().Add(-readNotificationRetention)
	deleted, err := p.notifications.PurgeRead(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge notifications: %w", err)
	}

	p.logger.InfoContext(ctx, "read notifications purged",
		slog.Int64("rows_deleted", deleted))

	return nil
}

func (p *CleanupProcessor) cleanupTempFiles(ctx context.Context) error {
	p.logger.InfoContext(ctx, "cleaning up temp files")

	tempDir := p.config.FileProcessing.TempDir
	maxAge := 24 * time.Hour

	var deletedCount int
	err := filepath.Walk(tempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err != nil {
				p.logger.WarnContext(ctx, "failed to delete temp file",
					slog.String("file", path),
					slog.String("error", err.Error()))
			} else {
				deletedCount++
			}
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("failed to walk temp directory: %w", err)
	}

	p.logger.InfoContext(ctx, "temp files cleaned up",
		slog.Int("files_deleted", deletedCount))

	return nil
}
