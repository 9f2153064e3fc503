package notifications

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"beacon/internal/logging"
)

// Level classifies a notification.
type Level string

const (
	LevelError   Level = "error"
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
)

// Payload is the only datum the detectors hand to the dispatcher.
type Payload struct {
	Message string
}

// Notification is a queued, user-facing message.
type Notification struct {
	ID        string
	Level     Level
	Message   string
	Source    string
	CreatedAt time.Time
}

const (
	defaultQueueLimit   = 50
	defaultDeliverySize = 64
)

// Queue keeps the most recent notifications and hands every new one to the
// delivery channel. It is safe for concurrent use.
type Queue struct {
	mu     sync.Mutex
	items  []Notification
	limit  int
	source string
	out    chan Notification
	logger *slog.Logger
	now    func() time.Time
}

// QueueOption customizes a Queue.
type QueueOption func(*Queue)

// WithLimit bounds how many notifications List retains.
func WithLimit(limit int) QueueOption {
	return func(q *Queue) {
		if limit > 0 {
			q.limit = limit
		}
	}
}

// WithDeliveryBuffer sets the delivery channel capacity.
func WithDeliveryBuffer(size int) QueueOption {
	return func(q *Queue) {
		if size > 0 {
			q.out = make(chan Notification, size)
		}
	}
}

// WithSource tags every notification with the producing component.
func WithSource(source string) QueueOption {
	return func(q *Queue) {
		q.source = strings.TrimSpace(source)
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) QueueOption {
	return func(q *Queue) {
		if now != nil {
			q.now = now
		}
	}
}

// NewQueue constructs an empty queue.
func NewQueue(logger *slog.Logger, opts ...QueueOption) *Queue {
	q := &Queue{
		limit:  defaultQueueLimit,
		out:    make(chan Notification, defaultDeliverySize),
		logger: logging.NewComponentLogger(logger, "notifications"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// ShowError enqueues an error notification.
func (q *Queue) ShowError(p Payload) {
	q.Show(LevelError, p)
}

// ShowSuccess enqueues a success notification.
func (q *Queue) ShowSuccess(p Payload) {
	q.Show(LevelSuccess, p)
}

// Show enqueues a notification at level and returns it. Delivery is
// best-effort: when the delivery buffer is full the notification stays listed
// but is not sent.
func (q *Queue) Show(level Level, p Payload) Notification {
	return q.show(level, p, q.source)
}

func (q *Queue) show(level Level, p Payload, source string) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   p.Message,
		Source:    source,
		CreatedAt: q.now().UTC(),
	}

	q.mu.Lock()
	q.items = append(q.items, n)
	if overflow := len(q.items) - q.limit; overflow > 0 {
		q.items = append([]Notification(nil), q.items[overflow:]...)
	}
	q.mu.Unlock()

	select {
	case q.out <- n:
	default:
		logging.WarnWithContext(q.logger, "notification delivery buffer full; notification not sent",
			"notification_dropped",
			logging.String("notification_id", n.ID),
			logging.String("level", string(n.Level)),
			logging.Hint("check sink connectivity or raise the delivery buffer"),
			logging.Impact("notification is listed but not pushed"),
		)
	}
	return n
}

// From returns a dispatcher that enqueues into q under a different source.
func (q *Queue) From(source string) SourceDispatcher {
	return SourceDispatcher{queue: q, source: strings.TrimSpace(source)}
}

// SourceDispatcher tags notifications with a fixed source before queueing.
type SourceDispatcher struct {
	queue  *Queue
	source string
}

// ShowError enqueues an error notification.
func (d SourceDispatcher) ShowError(p Payload) {
	d.queue.show(LevelError, p, d.source)
}

// ShowSuccess enqueues a success notification.
func (d SourceDispatcher) ShowSuccess(p Payload) {
	d.queue.show(LevelSuccess, p, d.source)
}

// List returns retained notifications, oldest first.
func (q *Queue) List() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Dismiss removes a notification by ID and reports whether it was present.
func (q *Queue) Dismiss(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// Deliveries exposes notifications waiting to be sent.
func (q *Queue) Deliveries() <-chan Notification {
	return q.out
}
