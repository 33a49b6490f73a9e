package whatsapp

import (
	"context"
	"log/slog"
)

// Sender delivers an outbound WhatsApp message. to is a bare E.164 number;
// the implementation adds any channel prefix it needs.
type Sender interface {
	SendMessage(ctx context.Context, to, body string) error
}

// LogSender logs outbound messages instead of delivering them. Used when no
// Twilio credentials are configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendMessage(ctx context.Context, to, body string) error {
	s.logger.InfoContext(ctx, "outbound message (dry run)", "to", to, "chars", len(body))
	return nil
}
