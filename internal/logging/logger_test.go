package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"beacon/internal/config"
	"beacon/internal/logging"
)

func TestNewFromConfigConsole(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger instance")
	}
	logger.Info("hello")

	if _, err := os.Stat(filepath.Join(cfg.Paths.LogDir, "beacon.log")); err != nil {
		t.Fatalf("expected log file to be created: %v", err)
	}
}

func readLog(t *testing.T, opts logging.Options, write func(*slog.Logger)) string {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "out.log")
	opts.OutputPaths = []string{logPath}
	opts.ErrorOutputPaths = []string{logPath}
	logger, err := logging.New(opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	write(logger)
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	content := readLog(t, logging.Options{Format: "console", Level: "info"}, func(l *slog.Logger) {
		l.Info("message without caller")
	})
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	content := readLog(t, logging.Options{Format: "console", Level: "debug"}, func(l *slog.Logger) {
		l.Info("message with caller")
	})
	if !strings.Contains(content, ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerRendersComponentAndSubject(t *testing.T) {
	content := readLog(t, logging.Options{Format: "console", Level: "info"}, func(l *slog.Logger) {
		logger := logging.NewComponentLogger(l, "watch")
		ctx := logging.WithAction(logging.WithWatcher(context.Background(), "sync-errors"), "sync")
		logging.WithContext(ctx, logger).Info("edge detected", logging.String("progress", "failed"))
	})
	if !strings.Contains(content, "INFO watch: [sync-errors/sync] edge detected progress=failed") {
		t.Fatalf("unexpected console line %q", content)
	}
}

func TestNewJSONLogger(t *testing.T) {
	content := readLog(t, logging.Options{Format: "json", Level: "info"}, func(l *slog.Logger) {
		l.Info("json message", logging.String("k", "v"))
	})
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace([]byte(content)), &record); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if record["msg"] != "json message" || record["k"] != "v" || record["level"] != "info" {
		t.Fatalf("unexpected record %#v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %#v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	content := readLog(t, logging.Options{Format: "json", Level: "info"}, func(l *slog.Logger) {
		logging.WarnWithContext(l, "careful", "test_event")
	})
	for _, want := range []string{`"event_type":"test_event"`, `"error_hint"`, `"impact"`} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %s in %q", want, content)
		}
	}
}

func TestErrorWithContextKeepsCallerHint(t *testing.T) {
	content := readLog(t, logging.Options{Format: "json", Level: "info"}, func(l *slog.Logger) {
		logging.ErrorWithContext(l, "broken", "test_error", logging.Hint("look here"), logging.Watcher("sync-errors"))
	})
	for _, want := range []string{`"level":"error"`, `"event_type":"test_error"`, `"error_hint":"look here"`, `"watcher":"sync-errors"`} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %s in %q", want, content)
		}
	}
	if strings.Contains(content, `"impact"`) {
		t.Fatalf("expected no default impact on error logs, got %q", content)
	}
}

func TestFieldHelpersFeedConsoleSubject(t *testing.T) {
	content := readLog(t, logging.Options{Format: "console", Level: "info"}, func(l *slog.Logger) {
		logging.NewComponentLogger(l, "watch").Info("replayed",
			logging.Watcher("backup-done"), logging.Action("backup"), logging.Progress("loaded"))
	})
	if !strings.Contains(content, "watch: [backup-done/backup] replayed progress=loaded") {
		t.Fatalf("unexpected console line %q", content)
	}
}
