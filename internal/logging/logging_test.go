package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// captureLogOutput captures log output for testing by temporarily
// redirecting the logger to write to a buffer
func captureLogOutput(f func()) string {
	var buf bytes.Buffer

	oldLogger := defaultLogger
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	defaultLogger = slog.New(handler)

	f()

	defaultLogger = oldLogger
	return buf.String()
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  Level
		format Format
	}{
		{"Debug level JSON format", LevelDebug, FormatJSON},
		{"Info level JSON format", LevelInfo, FormatJSON},
		{"Warn level JSON format", LevelWarn, FormatJSON},
		{"Error level JSON format", LevelError, FormatJSON},
		{"Info level Text format", LevelInfo, FormatText},
		{"Default level (invalid value)", Level(999), FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			InitLogger(tt.level, tt.format)
			if GetLogger() == nil {
				t.Error("Expected logger to be initialized, got nil")
			}
		})
	}
	InitLogger(LevelInfo, FormatJSON)
}

func TestInitLoggerTo(t *testing.T) {
	defer InitLogger(LevelInfo, FormatJSON)

	var buf bytes.Buffer
	InitLoggerTo(&buf, LevelWarn, FormatJSON)
	Info("hidden")
	Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message logged at warn level")
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
		t.Fatalf("output is not one JSON line: %v\n%s", err, out)
	}
	if entry["msg"] != "shown" || entry["key"] != "value" {
		t.Errorf("entry = %v", entry)
	}
	ts, _ := entry["time"].(string)
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("time %q is not RFC3339: %v", ts, err)
	}

	buf.Reset()
	InitLoggerTo(&buf, LevelDebug, FormatText)
	Debug("plain", "n", 3)
	if !strings.Contains(buf.String(), "msg=plain") || !strings.Contains(buf.String(), "n=3") {
		t.Errorf("text output = %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("text"); err != nil || f != FormatText {
		t.Errorf("ParseFormat(text) = %v, %v", f, err)
	}
	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestGetRunID(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected string
	}{
		{"Context with run ID", WithRunID(context.Background(), "run-1"), "run-1"},
		{"Context without run ID", context.Background(), ""},
		{"Context with wrong type value", context.WithValue(context.Background(), RunIDKey, 12345), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := GetRunID(tt.ctx); result != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestLoggingFunctions(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"Debug", func() { Debug("debug message", "key", "value") }},
		{"Info", func() { Info("info message", "key", "value") }},
		{"Warn", func() { Warn("warning message", "key", "value") }},
		{"Error", func() { Error("error message", "key", "value") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if output := captureLogOutput(tt.fn); output == "" {
				t.Error("Expected log output, got empty string")
			}
		})
	}
}

func TestContextLoggingFunctions(t *testing.T) {
	ctx := WithRunID(context.Background(), "test-run-id")

	tests := []struct {
		name string
		fn   func()
	}{
		{"DebugContext", func() { DebugContext(ctx, "debug message") }},
		{"InfoContext", func() { InfoContext(ctx, "info message") }},
		{"WarnContext", func() { WarnContext(ctx, "warning message") }},
		{"ErrorContext", func() { ErrorContext(ctx, "error message") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureLogOutput(tt.fn)
			if !strings.Contains(output, `"run_id":"test-run-id"`) {
				t.Errorf("Expected output to contain run ID, got %q", output)
			}
		})
	}
}

func TestDocumentParsed(t *testing.T) {
	ctx := WithRunID(context.Background(), "r1")
	output := captureLogOutput(func() {
		DocumentParsed(ctx, "mort.txt", "txt", 42, 3, 1500*time.Millisecond, "manuscript_id", 7)
	})

	for _, want := range []string{"document_parsed", `"path":"mort.txt"`, `"records":42`, `"dropped":3`, `"duration_ms":1500`, `"manuscript_id":7`, `"run_id":"r1"`} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %s, got %q", want, output)
		}
	}
}

func TestDocumentSkipped(t *testing.T) {
	output := captureLogOutput(func() {
		DocumentSkipped(context.Background(), "tiny.txt", "too small")
	})
	if !strings.Contains(output, "document_skipped") || !strings.Contains(output, "too small") {
		t.Errorf("unexpected output %q", output)
	}
}

func TestDocumentFailed(t *testing.T) {
	output := captureLogOutput(func() {
		DocumentFailed(context.Background(), "imit.xml", errors.New("invalid XML document"))
	})
	if !strings.Contains(output, "document_failed") || !strings.Contains(output, "invalid XML document") {
		t.Errorf("unexpected output %q", output)
	}
	if !strings.Contains(output, `"level":"ERROR"`) {
		t.Errorf("DocumentFailed should log at error level, got %q", output)
	}
}

func TestRunFinished(t *testing.T) {
	output := captureLogOutput(func() {
		RunFinished(context.Background(), 4, 1, 120, 2*time.Second)
	})
	for _, want := range []string{"run_finished", `"documents":4`, `"failed":1`, `"records":120`, `"duration_ms":2000`} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %s, got %q", want, output)
		}
	}
}

func TestContextKeyType(t *testing.T) {
	if string(RunIDKey) != "run_id" {
		t.Errorf("RunIDKey = %q, want run_id", RunIDKey)
	}
}
