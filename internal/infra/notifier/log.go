package notifier

import (
	"context"
	"log/slog"

	"lessonbook/internal/worker/reminder"
)

// LogNotifier writes outgoing messages to the structured log instead of a
// delivery provider. It stands in wherever a real channel is not configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, to reminder.Recipient, subject, body string) error {
	n.logger.Info("notification sent",
		"to", to.Email,
		"name", to.Name,
		"subject", subject,
		"body", body)
	return nil
}
