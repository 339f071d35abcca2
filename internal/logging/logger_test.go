package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func withDefault(t *testing.T, h slog.Handler) {
	t.Helper()
	prev := slog.Default()
	slog.SetDefault(slog.New(h))
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestFromContext_AddsIDs(t *testing.T) {
	var buf bytes.Buffer
	withDefault(t, NewHandler(&buf, "info", "json"))

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	ctx = WithRunID(ctx, "run-1")

	WithFields(ctx, "era", "fa05").Info("cleaned")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	for key, want := range map[string]string{"request_id": "req-1", "run_id": "run-1", "era": "fa05", "msg": "cleaned"} {
		if entry[key] != want {
			t.Errorf("%s = %v, want %q", key, entry[key], want)
		}
	}
}

func TestFromContext_Plain(t *testing.T) {
	var buf bytes.Buffer
	withDefault(t, NewHandler(&buf, "info", "text"))

	FromContext(context.Background()).Debug("hidden")
	FromContext(context.Background()).Info("shown")

	out := buf.String()
	if bytes.Contains(buf.Bytes(), []byte("hidden")) {
		t.Errorf("debug line written at info level: %q", out)
	}
	if bytes.Contains(buf.Bytes(), []byte("run_id")) {
		t.Errorf("unexpected run_id in %q", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte("msg=shown")) {
		t.Errorf("missing info line in %q", out)
	}
}

func TestRunID(t *testing.T) {
	if got := RunID(context.Background()); got != "" {
		t.Errorf("RunID(empty) = %q", got)
	}
	if got := RunID(WithRunID(context.Background(), "abc")); got != "abc" {
		t.Errorf("RunID = %q, want %q", got, "abc")
	}
}
