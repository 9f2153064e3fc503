package notifications

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"beacon/internal/logging"
)

// NewLogSink writes every notification to logger.
func NewLogSink(logger *slog.Logger) Sink {
	logger = logging.NewComponentLogger(logger, "notifications")
	return SinkFunc(func(ctx context.Context, n Notification) error {
		attrs := []logging.Attr{
			logging.String("notification_id", n.ID),
			logging.String("level", string(n.Level)),
			logging.String(logging.FieldEventType, "notification_"+string(n.Level)),
		}
		if n.Source != "" {
			attrs = append(attrs, logging.String("source", n.Source))
		}
		if n.Level == LevelError {
			logger.WarnContext(ctx, n.Message, logging.Args(attrs...)...)
			return nil
		}
		logger.InfoContext(ctx, n.Message, logging.Args(attrs...)...)
		return nil
	})
}

// Deliver drains q into sinks until ctx is done. Sink failures are logged and
// do not stop delivery.
func Deliver(ctx context.Context, q *Queue, logger *slog.Logger, sinks ...Sink) error {
	logger = logging.NewComponentLogger(logger, "notification-delivery")
	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-q.Deliveries():
			for _, sink := range sinks {
				if sink == nil {
					continue
				}
				if err := sink.Send(ctx, n); err != nil {
					if errors.Is(err, context.Canceled) {
						logger.Debug("shutting down, could not deliver notification",
							logging.String("notification_id", n.ID))
						continue
					}
					logging.WarnWithContext(logger, "notification delivery failed",
						"notification_delivery_failed",
						logging.Error(err),
						logging.String("notification_id", n.ID),
						logging.Hint("check ntfy topic and network access"),
						logging.Impact("notification was not pushed"),
					)
				}
			}
		}
	}
}

// SendTest pushes a low-priority test notification straight to sink.
func SendTest(ctx context.Context, sink Sink) error {
	if sink == nil {
		return nil
	}
	return sink.Send(ctx, Notification{
		ID:        "test",
		Level:     LevelInfo,
		Message:   "🧪 Notification system test",
		CreatedAt: time.Now().UTC(),
	})
}
