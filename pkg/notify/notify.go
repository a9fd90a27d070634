// Package notify delivers one-time codes to their subjects.
package notify

import (
	"context"
	"log/slog"
)

// Sender defines the interface for delivering a one-time code.
type Sender interface {
	// SendCode delivers code to subject. An error means the subject will not
	// receive it and the caller must not leave the code usable.
	SendCode(ctx context.Context, subject, code string) error
}

// LogSender writes codes to the log instead of delivering them. Development only.
type LogSender struct {
	Logger *slog.Logger
}

// NewLogSender creates a new LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{Logger: logger}
}

// Make sure we conform to the interface
var _ Sender = (*LogSender)(nil)

func (s *LogSender) SendCode(ctx context.Context, subject, code string) error {
	s.Logger.WarnContext(ctx, "otp delivery is disabled, code logged", "subject", subject, "code", code)
	return nil
}
