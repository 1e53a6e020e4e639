package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/core/kpi"
	pgdb "github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/platform/db/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const invalidTextRepresentationCode = "22P02"

// UserKPIRepository は PostgreSQL を利用した KPI 永続化の実装です。
type UserKPIRepository struct {
	pool pgdb.Queryer
}

// NewUserKPIRepository は UserKPIRepository を生成します。
func NewUserKPIRepository(pool pgdb.Queryer) *UserKPIRepository {
	return &UserKPIRepository{pool: pool}
}

// FindByUserID は社員 ID で KPI を取得します。
func (r *UserKPIRepository) FindByUserID(ctx context.Context, userID string) (*kpi.UserKPI, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id,
               user_id,
               rolling_avg_arrival_14,
               rolling_avg_arrival_28,
               rolling_avg_departure_14,
               rolling_avg_departure_28,
               rolling_avg_working_hours_14,
               rolling_avg_working_hours_28,
               created_at
          FROM user_kpis
         WHERE user_id = $1
         LIMIT 1
    `, userID)

	found, err := scanUserKPI(row)
	if err != nil {
		return nil, translateKPIPgError(err)
	}
	return found, nil
}

// InsertIfAbsent は KPI を挿入します。user_id が既に存在する場合は上書きせず既存行を返します。
func (r *UserKPIRepository) InsertIfAbsent(ctx context.Context, k *kpi.UserKPI) (*kpi.UserKPI, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO user_kpis (user_id, rolling_avg_arrival_14, rolling_avg_arrival_28, rolling_avg_departure_14, rolling_avg_departure_28, rolling_avg_working_hours_14, rolling_avg_working_hours_28, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
        RETURNING id, user_id, rolling_avg_arrival_14, rolling_avg_arrival_28, rolling_avg_departure_14, rolling_avg_departure_28, rolling_avg_working_hours_14, rolling_avg_working_hours_28, created_at
    `,
		k.UserID,
		k.RollingAvgArrival14,
		k.RollingAvgArrival28,
		k.RollingAvgDeparture14,
		k.RollingAvgDeparture28,
		k.RollingAvgWorkingHours14,
		k.RollingAvgWorkingHours28,
		k.CreatedAt,
	)

	stored, err := scanUserKPI(row)
	if err != nil {
		return nil, translateKPIPgError(err)
	}
	return stored, nil
}

func scanUserKPI(row pgx.Row) (*kpi.UserKPI, error) {
	var (
		id             string
		userID         string
		arrival14      time.Time
		arrival28      time.Time
		departure14    time.Time
		departure28    time.Time
		workingHours14 string
		workingHours28 string
		createdAt      time.Time
	)

	if err := row.Scan(
		&id,
		&userID,
		&arrival14,
		&arrival28,
		&departure14,
		&departure28,
		&workingHours14,
		&workingHours28,
		&createdAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, kpi.ErrKPINotFound
		}
		return nil, err
	}

	return &kpi.UserKPI{
		ID:                       id,
		UserID:                   userID,
		RollingAvgArrival14:      arrival14.UTC(),
		RollingAvgArrival28:      arrival28.UTC(),
		RollingAvgDeparture14:    departure14.UTC(),
		RollingAvgDeparture28:    departure28.UTC(),
		RollingAvgWorkingHours14: workingHours14,
		RollingAvgWorkingHours28: workingHours28,
		CreatedAt:                createdAt.UTC(),
	}, nil
}

func translateKPIPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return kpi.ErrKPINotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentationCode {
		return kpi.ErrInvalidUserID
	}

	return err
}
