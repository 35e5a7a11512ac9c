package config

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLoggerLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  zerolog.Level
	}{
		{name: "debug", level: "debug", want: zerolog.DebugLevel},
		{name: "uppercase", level: "WARN", want: zerolog.WarnLevel},
		{name: "empty falls back to info", level: "", want: zerolog.InfoLevel},
		{name: "unknown falls back to info", level: "verbose", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(LoggingConfig{Level: tt.level})
			if got := logger.GetLevel(); got != tt.want {
				t.Errorf("expected level %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNewLoggerConsoleFormat(t *testing.T) {
	// Console format must not panic and still respects the level.
	logger := NewLogger(LoggingConfig{Level: "error", Format: "console"})
	if got := logger.GetLevel(); got != zerolog.ErrorLevel {
		t.Errorf("expected level %v, got %v", zerolog.ErrorLevel, got)
	}
}
