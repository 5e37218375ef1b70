package logging

import (
	"testing"

	"github.com/zulandar/tasktrail/internal/config"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		cfg     config.LogConfig
		level   zapcore.Level
		wantErr bool
	}{
		{config.LogConfig{Level: "info", Format: "json"}, zapcore.InfoLevel, false},
		{config.LogConfig{Level: "debug", Format: "console"}, zapcore.DebugLevel, false},
		{config.LogConfig{Level: "warn"}, zapcore.WarnLevel, false},
		{config.LogConfig{Level: "loud", Format: "json"}, 0, true},
		{config.LogConfig{Level: "info", Format: "xml"}, 0, true},
	}
	for _, tt := range tests {
		logger, err := New(tt.cfg)
		if tt.wantErr {
			if err == nil {
				t.Errorf("New(%+v) expected error", tt.cfg)
			}
			continue
		}
		if err != nil {
			t.Fatalf("New(%+v): %v", tt.cfg, err)
		}
		if !logger.Core().Enabled(tt.level) {
			t.Errorf("New(%+v) level %s not enabled", tt.cfg, tt.level)
		}
		if tt.level > zapcore.DebugLevel && logger.Core().Enabled(tt.level-1) {
			t.Errorf("New(%+v) enables level below %s", tt.cfg, tt.level)
		}
	}
}
