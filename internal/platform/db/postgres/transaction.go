package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/codeGROOVE-dev/retry"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const (
	serializationFailureCode = "40001"
	deadlockDetectedCode     = "40P01"

	defaultTxAttempts = 3
)

type txKey struct{}

// Queryer は pgx.Tx と pgxpool.Pool の双方が満たすクエリ実行インターフェースです。
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type txStarter interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TransactionManager は KPI の参照と算出結果の保存を 1 つのトランザクションで実行します。
// 読み書きトランザクションは直列化失敗やデッドロックで中断された場合に限り再実行されます。
type TransactionManager struct {
	pool     txStarter
	logger   *zap.Logger
	attempts uint
}

// NewTransactionManager は TransactionManager を生成します。pool が nil の場合は nil を返し、
// その場合 fn はトランザクションなしで実行されます。
func NewTransactionManager(pool txStarter, logger *zap.Logger) *TransactionManager {
	if pool == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionManager{
		pool:     pool,
		logger:   logger.Named("postgres.tx"),
		attempts: defaultTxAttempts,
	}
}

// WithinReadOnly は読み取り専用トランザクションで fn を実行します。
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.run(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

// WithinReadWrite は読み書きトランザクションで fn を実行します。
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	if _, ok := txFromContext(ctx); ok {
		return m.run(ctx, pgx.TxOptions{AccessMode: pgx.ReadWrite}, fn)
	}

	return retry.Do(
		func() error {
			err := m.run(ctx, pgx.TxOptions{AccessMode: pgx.ReadWrite}, fn)
			if err != nil && !isRetryableTxError(err) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(m.attempts),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			m.logger.Warn("transaction aborted, retrying",
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)
}

func (m *TransactionManager) run(ctx context.Context, opts pgx.TxOptions, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("postgres: transaction function is required")
	}

	// 既にトランザクション内であれば外側のトランザクションに参加する。
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := m.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			m.logger.Error("rollback failed", zap.Error(rbErr))
			return errors.Join(err, fmt.Errorf("postgres: rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(fmt.Errorf("postgres: commit: %w", err), fmt.Errorf("postgres: rollback after commit failure: %w", rbErr))
		}
		return fmt.Errorf("postgres: commit: %w", err)
	}

	return nil
}

func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == serializationFailureCode || pgErr.Code == deadlockDetectedCode
}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// QueryerFromContext はコンテキストにトランザクションがあればそれを、なければ fallback を返します。
func QueryerFromContext(ctx context.Context, fallback Queryer) Queryer {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return fallback
}
