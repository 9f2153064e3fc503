package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeNotifications()
	c.normalizeWatch()
	c.normalizeLogging()
	c.normalizeWatchers()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	var err error
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("BEACON_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
	if c.Notifications.QueueLimit <= 0 {
		c.Notifications.QueueLimit = defaultNotifyQueueLimit
	}
	if c.Notifications.DeliveryBuffer <= 0 {
		c.Notifications.DeliveryBuffer = defaultNotifyDeliveryBuffer
	}
}

func (c *Config) normalizeWatch() {
	if c.Watch.BatchSize <= 0 {
		c.Watch.BatchSize = defaultWatchBatchSize
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeWatchers() {
	for i := range c.Watchers {
		w := &c.Watchers[i]
		w.Name = strings.TrimSpace(w.Name)
		w.Kind = strings.ToLower(strings.TrimSpace(w.Kind))
		w.Strategy = strings.ToLower(strings.TrimSpace(w.Strategy))
		actions := w.Actions[:0]
		for _, action := range w.Actions {
			if action = strings.TrimSpace(action); action != "" {
				actions = append(actions, action)
			}
		}
		w.Actions = actions
	}
}
