package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestConsoleHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)

	logger := slog.New(newConsoleHandler(&buf, levelVar))
	logger.Info("scan complete", "clusters", 3, "records", 120)

	out := buf.String()
	for _, want := range []string{"scan complete", "clusters=3", "records=120"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)

	handler := newConsoleHandler(&buf, levelVar)
	if handler.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}

	logger := slog.New(handler)
	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("output %q contains suppressed line", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("output %q missing warn line", out)
	}
}

func TestConsoleHandlerQuotesAwkwardValues(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)

	logger := slog.New(newConsoleHandler(&buf, levelVar))
	logger.Info("fetched", "title", "Foo Bar")

	if !strings.Contains(buf.String(), `title="Foo Bar"`) {
		t.Errorf("output %q missing quoted title", buf.String())
	}
}

func TestConsoleHandlerWithAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)

	logger := slog.New(newConsoleHandler(&buf, levelVar)).With("component", "dashboard")
	logger.WithGroup("pass").Info("started", "id", "abc")

	out := buf.String()
	if !strings.Contains(out, "component=dashboard") {
		t.Errorf("output %q missing handler attr", out)
	}
	if !strings.Contains(out, "pass.id=abc") {
		t.Errorf("output %q missing grouped attr", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("nop logger should not enable any level")
	}
}
