package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes events to the structured log. It is used when no
// broker is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (LogNotifier) Notify(_ context.Context, e Event) error {
	slog.Info("notification",
		"type", e.Type,
		"booking_id", e.BookingID,
		"target_user_id", e.TargetUserID,
		"message", Message(e),
	)

	return nil
}
