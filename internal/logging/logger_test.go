// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidLevel(t *testing.T) {
	if !ValidLevel("debug") || !ValidLevel(" Info ") {
		t.Error("ValidLevel() rejected a known level")
	}
	if ValidLevel("verbose") {
		t.Error("ValidLevel(verbose) = true, want false")
	}
}

func TestInit_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info().Str("component", "test").Msg("hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["message"] != "hello" || entry["component"] != "test" {
		t.Errorf("entry = %v, missing fields", entry)
	}
}

func TestCtx_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithRequestID(ctx, "req-123")

	Ctx(ctx).Info().Msg("served")

	if !strings.Contains(buf.String(), `"request_id":"req-123"`) {
		t.Errorf("output %q missing request_id", buf.String())
	}
	if RequestIDFromContext(context.Background()) != "" {
		t.Error("RequestIDFromContext() on empty context should be empty")
	}
}

func TestCtx_AddsUserID(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithUserID(ctx, "alice")
	ctx = ContextWithRequestID(ctx, "req-9")

	Ctx(ctx).Info().Msg("served")

	out := buf.String()
	if !strings.Contains(out, `"user_id":"alice"`) || !strings.Contains(out, `"request_id":"req-9"`) {
		t.Errorf("output %q missing user_id or request_id", out)
	}
	if got := ContextWithUserID(ctx, ""); UserIDFromContext(got) != "alice" {
		t.Error("ContextWithUserID(\"\") should leave ctx unchanged")
	}
}

func TestInit_ServiceAndVersion(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Version: "1.2.3", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info().Msg("boot")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["service"] != ServiceName || entry["version"] != "1.2.3" {
		t.Errorf("entry = %v, want service and version fields", entry)
	}
	if _, ok := entry["time"]; ok {
		t.Error("timestamp written although Timestamp is false")
	}
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	t.Cleanup(func() { Init(DefaultConfig()) })

	logger := WithComponent("catalog")
	logger.Warn().Msg("short row")
	if !strings.Contains(buf.String(), `"component":"catalog"`) {
		t.Errorf("output %q missing component", buf.String())
	}
}

func TestGenerateRequestID(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	if a == b || len(a) != 36 {
		t.Errorf("GenerateRequestID() = %q, %q; want distinct UUIDs", a, b)
	}
}

func TestSlogHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(NewTestLogger(&buf)))

	logger.With("service", "http").WithGroup("event").Warn("restarting", "attempt", 2)

	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"service":"http"`, `"event.attempt":2`, `"message":"restarting"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %s", out, want)
		}
	}
}
