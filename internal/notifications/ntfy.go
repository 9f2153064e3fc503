package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"beacon/internal/config"
)

const userAgent = "Beacon-Go/0.1.0"

// Sink delivers a notification to an external channel.
type Sink interface {
	Send(ctx context.Context, n Notification) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, n Notification) error

// Send calls f(ctx, n).
func (f SinkFunc) Send(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// NewNtfySink builds a sink backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewNtfySink(cfg *config.Config) Sink {
	if cfg == nil {
		return noopSink{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopSink{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfySink{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfySink struct {
	endpoint string
	client   *http.Client
}

func (n *ntfySink) Send(ctx context.Context, note Notification) error {
	return n.send(ctx, format(note))
}

func format(note Notification) payload {
	message := strings.TrimSpace(note.Message)
	if message == "" {
		message = "(no message)"
	}
	tags := []string{"beacon"}
	if source := strings.TrimSpace(note.Source); source != "" {
		tags = append(tags, source)
	}
	switch note.Level {
	case LevelError:
		return payload{
			title:    "Beacon - Failed",
			message:  "❌ " + message,
			tags:     append(tags, "error", "alert"),
			priority: "high",
		}
	case LevelSuccess:
		return payload{
			title:   "Beacon - Done",
			message: "✅ " + message,
			tags:    append(tags, "success"),
		}
	default:
		return payload{
			title:   "Beacon",
			message: message,
			tags:    append(tags, "info"),
		}
	}
}

func (n *ntfySink) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopSink struct{}

func (noopSink) Send(context.Context, Notification) error { return nil }

// IsNoop reports whether s discards everything.
func IsNoop(s Sink) bool {
	_, ok := s.(noopSink)
	return ok
}
