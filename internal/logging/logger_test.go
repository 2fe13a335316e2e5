package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"alertcycle/internal/config"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	known := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"panic": slog.Level(12),
	}
	for value, want := range known {
		got, err := parseLevel(value)
		if err != nil || got != want {
			t.Fatalf("parseLevel(%q) = %v, %v", value, got, err)
		}
	}
	if _, err := parseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNewWritesToFileSink(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "service.log")
	logger, cleanup, err := New(config.LogConfig{
		File: config.LogSinkConfig{Enabled: true, Level: "info", Format: "json", Path: path},
	})
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}

	logger.Info("alert created", "alert_id", "a1")
	logger.Debug("must be filtered")
	cleanup()

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	content := string(body)
	if !strings.Contains(content, `"alert_id":"a1"`) {
		t.Fatalf("expected structured record, got %q", content)
	}
	if strings.Contains(content, "must be filtered") {
		t.Fatalf("debug record must be filtered at info level")
	}
}

func TestNewRejectsNoSinks(t *testing.T) {
	t.Parallel()

	if _, _, err := New(config.LogConfig{}); err == nil {
		t.Fatalf("expected error when no sink is enabled")
	}
}

func TestColorLineWriterWrapsKnownLevels(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	writer := &colorLineWriter{dst: &buffer}

	line := []byte("level=ERROR msg=boom\n")
	n, err := writer.Write(line)
	if err != nil || n != len(line) {
		t.Fatalf("write returned n=%d err=%v", n, err)
	}
	if !strings.HasPrefix(buffer.String(), ansiRed) || !strings.HasSuffix(buffer.String(), ansiReset) {
		t.Fatalf("expected colored line, got %q", buffer.String())
	}

	buffer.Reset()
	plain := []byte("no level token\n")
	if _, err := writer.Write(plain); err != nil {
		t.Fatalf("write plain: %v", err)
	}
	if buffer.String() != string(plain) {
		t.Fatalf("unknown level must pass through, got %q", buffer.String())
	}
}

func TestDiscardLoggerDropsRecords(t *testing.T) {
	t.Parallel()

	logger := Discard()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("discard logger must not accept records")
	}
}
