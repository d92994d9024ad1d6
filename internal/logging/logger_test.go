package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConsoleHandlerLineShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := New(Options{Level: "debug", Format: "console", Outputs: []string{path}})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	WithComponent(logger, "evaluation").Info("subject scored",
		slog.String("subject", "sub-01"),
		slog.Int("metrics", 12),
	)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := strings.TrimSpace(string(data))
	if !strings.Contains(line, " INFO evaluation: subject scored") {
		t.Fatalf("line missing level/component prefix: %q", line)
	}
	if !strings.Contains(line, "subject=sub-01") || !strings.Contains(line, "metrics=12") {
		t.Fatalf("line missing attrs: %q", line)
	}
}

func TestConsoleHandlerQuotesSpacedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := New(Options{Format: "console", Outputs: []string{path}})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Warn("dropping value", slog.String("reason", "not finite"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `reason="not finite"`) {
		t.Fatalf("spaced value not quoted: %q", string(data))
	}
}

func TestJSONHandlerRemapsKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := New(Options{Format: "json", Outputs: []string{path}})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Info("run complete")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	for _, key := range []string{`"ts":`, `"level":"info"`, `"msg":"run complete"`} {
		if !strings.Contains(line, key) {
			t.Fatalf("json line missing %s: %q", key, line)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := New(Options{Level: "warn", Format: "console", Outputs: []string{path}})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("visible")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Fatalf("info line leaked past warn level: %q", string(data))
	}
	if !strings.Contains(string(data), "visible") {
		t.Fatalf("warn line missing: %q", string(data))
	}
}

func TestFileOutputAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	for i := 0; i < 2; i++ {
		logger, err := New(Options{Format: "console", Outputs: []string{path}})
		if err != nil {
			t.Fatalf("new logger: %v", err)
		}
		logger.Info("run")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if got := strings.Count(string(data), "run"); got != 2 {
		t.Fatalf("expected 2 appended lines, got %d", got)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := New(Options{Format: "logfmt"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("nothing happens")
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should be disabled")
	}
}
