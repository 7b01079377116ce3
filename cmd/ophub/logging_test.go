package main

import (
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		raw     string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelWarn, false},
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"ERROR", slog.LevelError, false},
		{"4", slog.Level(4), false},
		{"loud", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			level, err := parseLogLevel(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse %q: %v", tc.raw, err)
			}
			if level != tc.want {
				t.Fatalf("parse %q = %v, want %v", tc.raw, level, tc.want)
			}
		})
	}
}

func TestSelectedLogLevelPrecedence(t *testing.T) {
	if level, source := selectedLogLevel("debug", "error"); level != "debug" || source != "flag" {
		t.Fatalf("flag should win, got %q from %q", level, source)
	}
	if level, source := selectedLogLevel("", "error"); level != "error" || source != "config" {
		t.Fatalf("config should win without flag, got %q from %q", level, source)
	}
	if level, source := selectedLogLevel("", ""); level != "" || source != "default" {
		t.Fatalf("expected default, got %q from %q", level, source)
	}
}

func TestConfigureLoggerForCLIInvalidFlag(t *testing.T) {
	if _, err := configureLoggerForCLI("nope", ""); err == nil {
		t.Fatal("invalid flag level should error")
	}
}

func TestConfigureLoggerForCLIInvalidConfigWarns(t *testing.T) {
	warning, err := configureLoggerForCLI("", "nope")
	if err != nil {
		t.Fatalf("invalid config level should not error: %v", err)
	}
	if !strings.Contains(warning, "invalid log_level") {
		t.Fatalf("expected warning about config level, got %q", warning)
	}
}
