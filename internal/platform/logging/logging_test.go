package logging

import (
	"testing"

	"github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/platform/config"
	"go.uber.org/zap"
)

func TestNew_Level(t *testing.T) {
	t.Parallel()

	logger, err := New(config.LoggingConfig{Level: "warn"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if logger.Core().Enabled(zap.InfoLevel) {
		t.Fatalf("info should be disabled at warn level")
	}
	if !logger.Core().Enabled(zap.WarnLevel) {
		t.Fatalf("warn should be enabled at warn level")
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	t.Parallel()

	if _, err := New(config.LoggingConfig{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
