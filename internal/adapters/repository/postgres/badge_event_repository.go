package postgres

import (
	"context"
	"time"

	"github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/core/kpi"
	pgdb "github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/platform/db/postgres"
	"github.com/jackc/pgx/v5"
)

// BadgeEventRepository は PostgreSQL に保存された打刻イベントを読み取ります。
type BadgeEventRepository struct {
	pool pgdb.Queryer
}

// NewBadgeEventRepository は BadgeEventRepository を生成します。
func NewBadgeEventRepository(pool pgdb.Queryer) *BadgeEventRepository {
	return &BadgeEventRepository{pool: pool}
}

// ListByUser は社員の打刻をすべて時刻順に取得します。
func (r *BadgeEventRepository) ListByUser(ctx context.Context, userID string) ([]kpi.BadgeEvent, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT user_id, badged_at
          FROM badge_events
         WHERE user_id = $1
         ORDER BY badged_at
    `, userID)
	if err != nil {
		return nil, translateKPIPgError(err)
	}
	defer rows.Close()

	events := make([]kpi.BadgeEvent, 0)
	for rows.Next() {
		ev, err := scanBadgeEvent(rows)
		if err != nil {
			return nil, translateKPIPgError(err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, translateKPIPgError(err)
	}

	return events, nil
}

func scanBadgeEvent(row pgx.Row) (kpi.BadgeEvent, error) {
	var (
		userID   string
		badgedAt time.Time
	)
	if err := row.Scan(&userID, &badgedAt); err != nil {
		return kpi.BadgeEvent{}, err
	}
	return kpi.BadgeEvent{UserID: userID, BadgedAt: badgedAt.UTC()}, nil
}
