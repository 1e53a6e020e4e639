// Package logging は設定から zap.Logger を構築します。
package logging

import (
	"fmt"

	"github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/platform/config"
	"go.uber.org/zap"
)

// New は設定に従って zap.Logger を生成します。
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging: parse level %q: %w", cfg.Level, err)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger, nil
}
