package postgres

import (
	"context"
	"fmt"

	"github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/platform/config"
	"github.com/codeGROOVE-dev/retry"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// BuildPoolConfig は database 設定から pgxpool.Config を構築します。
func BuildPoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}

	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	}

	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	if cfg.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	}

	return poolCfg, nil
}

// pinger は疎通確認が可能な接続です。
type pinger interface {
	Ping(ctx context.Context) error
}

// NewPool は pgxpool.Pool を生成し、起動直後の DB 未起動に備えて疎通確認を再試行します。
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := BuildPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	if err := pingWithRetry(ctx, pool, cfg, logger); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func pingWithRetry(ctx context.Context, p pinger, cfg config.DatabaseConfig, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	attempts := cfg.ConnectAttempts
	if attempts <= 0 {
		attempts = 1
	}

	err := retry.Do(
		func() error {
			return p.Ping(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(cfg.ConnectDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("postgres ping failed, retrying",
				zap.Uint("attempt", n+1),
				zap.Int("max_attempts", attempts),
				zap.String("host", cfg.Host),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}
