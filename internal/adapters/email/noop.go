package email

import (
	"context"
	"log/slog"
	"time"
)

// NoopSender logs emails instead of sending them. Used in development
// and when no provider API key is configured.
type NoopSender struct{}

// NewNoopSender creates a sender that discards all email.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send logs the email and reports success without delivering anything.
func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	slog.Info("noop_email", "to", req.To, "subject", req.Subject)
	return SendResult{MessageID: "noop", SentAt: time.Now()}, nil
}
