package config

import (
	"errors"
	"fmt"
	"strings"

	"beacon/internal/progress"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateWatchers()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	topic := c.Notifications.NtfyTopic
	if topic != "" && !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return fmt.Errorf("notifications.ntfy_topic must be a full http(s) URL, got %q", topic)
	}
	return nil
}

func (c *Config) validateWatch() error {
	if c.Watch.PollInterval <= 0 {
		return errors.New("watch.poll_interval must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateWatchers() error {
	seen := make(map[string]struct{}, len(c.Watchers))
	for i, w := range c.Watchers {
		label := fmt.Sprintf("watchers[%d]", i)
		if w.Name == "" {
			return fmt.Errorf("%s.name must be set", label)
		}
		if _, dup := seen[w.Name]; dup {
			return fmt.Errorf("%s.name %q is duplicated", label, w.Name)
		}
		seen[w.Name] = struct{}{}
		if len(w.Actions) == 0 {
			return fmt.Errorf("%s.actions must list at least one action", label)
		}
		switch w.Kind {
		case KindFailure:
		case KindSuccess:
			if strings.TrimSpace(w.Message) == "" {
				return fmt.Errorf("%s.message is required for success watchers", label)
			}
		default:
			return fmt.Errorf("%s.kind must be %q or %q, got %q", label, KindFailure, KindSuccess, w.Kind)
		}
		if _, err := progress.ParseStrategy(w.Strategy); err != nil {
			return fmt.Errorf("%s.strategy: %w", label, err)
		}
	}
	return nil
}
