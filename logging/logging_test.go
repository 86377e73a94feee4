package logging

import (
	"testing"

	"github.com/automoto/splatarena/config"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.LoggingConfig
		debug  bool
		enable zapcore.Level
	}{
		{"console info", config.LoggingConfig{Level: "info", Format: "console"}, false, zapcore.InfoLevel},
		{"json debug", config.LoggingConfig{Level: "debug", Format: "json"}, true, zapcore.DebugLevel},
		{"unknown level", config.LoggingConfig{Level: "chatty"}, false, zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := log.Core().Enabled(zapcore.DebugLevel); got != tt.debug {
				t.Errorf("debug enabled = %v, want %v", got, tt.debug)
			}
			if !log.Core().Enabled(tt.enable) {
				t.Errorf("level %v disabled", tt.enable)
			}
		})
	}
}

func TestNamedNil(t *testing.T) {
	if Named(nil, "x") == nil {
		t.Error("Named(nil) returned nil")
	}
}
