// internal/workers/email_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/hibiken/asynq"

	"github.com/kiranakart/kirana-be/internal/core/ports"
	"github.com/kiranakart/kirana-be/internal/pkg/config"
)

// EmailProcessor delivers queued emails over SMTP
type EmailProcessor struct {
	config *config.Config
	logger *slog.Logger
}

// NewEmailProcessor creates a new email processor
func NewEmailProcessor(config *config.Config, logger *slog.Logger) *EmailProcessor {
	return &EmailProcessor{
		config: config,
		logger: logger.With(slog.String("processor", "email")),
	}
}

// SendEmail delivers one queued email
func (p *EmailProcessor) SendEmail(ctx context.Context, t *asynq.Task) error {
	var msg ports.EmailMessage
	if err := json.Unmarshal(t.Payload(), &msg); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	p.logger.InfoContext(ctx, "sending email",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject))

	// In development, just log the email
	if p.config.IsDevelopment() {
		p.logger.InfoContext(ctx, "email would be sent",
			slog.String("to", msg.To),
			slog.String("subject", msg.Subject),
			slog.String("body", msg.Text))
		return nil
	}

	if err := p.deliver(&msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	p.logger.InfoContext(ctx, "email sent successfully", slog.String("to", msg.To))
	return nil
}

func (p *EmailProcessor) deliver(msg *ports.EmailMessage) error {
	smtpCfg := p.config.SMTP
	from := smtpCfg.From

	body := msg.Text
	contentType := "text/plain; charset=utf-8"
	if msg.HTML != "" {
		body = msg.HTML
		contentType = "text/html; charset=utf-8"
	}

	raw := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: %s\r\n\r\n%s",
		from, msg.To, msg.Subject, contentType, body,
	))

	var auth smtp.Auth
	if smtpCfg.Username != "" {
		auth = smtp.PlainAuth("", smtpCfg.Username, smtpCfg.Password, smtpCfg.Host)
	}

	return smtp.SendMail(smtpCfg.Addr(), auth, from, []string{msg.To}, raw)
}
