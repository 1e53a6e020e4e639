package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/core/kpi"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

const testUserID = "3f8c2a9e-1b4d-4c6e-9a7f-2d5b8e1c0a11"

var userKPIColumns = []string{
	"id",
	"user_id",
	"rolling_avg_arrival_14",
	"rolling_avg_arrival_28",
	"rolling_avg_departure_14",
	"rolling_avg_departure_28",
	"rolling_avg_working_hours_14",
	"rolling_avg_working_hours_28",
	"created_at",
}

func sampleKPI(now time.Time) *kpi.UserKPI {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return &kpi.UserKPI{
		UserID:                   testUserID,
		RollingAvgArrival14:      today.Add(9 * time.Hour),
		RollingAvgArrival28:      today.Add(9*time.Hour + 15*time.Minute),
		RollingAvgDeparture14:    today.Add(17 * time.Hour),
		RollingAvgDeparture28:    today.Add(17*time.Hour + 30*time.Minute),
		RollingAvgWorkingHours14: "08:00",
		RollingAvgWorkingHours28: "08:15",
		CreatedAt:                now,
	}
}

func kpiRow(id string, k *kpi.UserKPI) []any {
	return []any{
		id,
		k.UserID,
		k.RollingAvgArrival14,
		k.RollingAvgArrival28,
		k.RollingAvgDeparture14,
		k.RollingAvgDeparture28,
		k.RollingAvgWorkingHours14,
		k.RollingAvgWorkingHours28,
		k.CreatedAt,
	}
}

type stubKPIRow struct {
	scanFn func(dest ...any) error
}

func (s stubKPIRow) Scan(dest ...any) error {
	return s.scanFn(dest...)
}

func TestScanUserKPI_NoRows(t *testing.T) {
	t.Parallel()

	row := stubKPIRow{scanFn: func(dest ...any) error {
		return pgx.ErrNoRows
	}}

	if _, err := scanUserKPI(row); !errors.Is(err, kpi.ErrKPINotFound) {
		t.Fatalf("expected ErrKPINotFound, got %v", err)
	}
}

func TestTranslateKPIPgError(t *testing.T) {
	t.Parallel()

	if !errors.Is(translateKPIPgError(pgx.ErrNoRows), kpi.ErrKPINotFound) {
		t.Fatalf("expected no rows to map to ErrKPINotFound")
	}

	invalid := &pgconn.PgError{Code: invalidTextRepresentationCode}
	if !errors.Is(translateKPIPgError(invalid), kpi.ErrInvalidUserID) {
		t.Fatalf("expected invalid text representation to map to ErrInvalidUserID")
	}

	other := errors.New("other")
	if translateKPIPgError(other) != other {
		t.Fatalf("unexpected translation for generic error")
	}

	if translateKPIPgError(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}

func TestUserKPIRepository_FindByUserID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewUserKPIRepository(mock)
	stored := sampleKPI(time.Date(2024, 1, 28, 18, 0, 0, 0, time.UTC))

	mock.ExpectQuery(regexp.QuoteMeta(`FROM user_kpis`)).
		WithArgs(testUserID).
		WillReturnRows(pgxmock.NewRows(userKPIColumns).AddRow(kpiRow("kpi-1", stored)...))

	found, err := repo.FindByUserID(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("FindByUserID returned error: %v", err)
	}

	if found.ID != "kpi-1" || found.UserID != testUserID {
		t.Fatalf("unexpected record: %+v", found)
	}
	if !found.RollingAvgArrival28.Equal(stored.RollingAvgArrival28) || found.RollingAvgWorkingHours28 != "08:15" {
		t.Fatalf("unexpected 28-day fields: %+v", found)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserKPIRepository_FindByUserID_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewUserKPIRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM user_kpis`)).
		WithArgs(testUserID).
		WillReturnRows(pgxmock.NewRows(userKPIColumns))

	if _, err := repo.FindByUserID(context.Background(), testUserID); !errors.Is(err, kpi.ErrKPINotFound) {
		t.Fatalf("expected ErrKPINotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserKPIRepository_InsertIfAbsent(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewUserKPIRepository(mock)
	in := sampleKPI(time.Date(2024, 1, 28, 18, 0, 0, 0, time.UTC))

	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id`)).
		WithArgs(
			in.UserID,
			in.RollingAvgArrival14,
			in.RollingAvgArrival28,
			in.RollingAvgDeparture14,
			in.RollingAvgDeparture28,
			in.RollingAvgWorkingHours14,
			in.RollingAvgWorkingHours28,
			in.CreatedAt,
		).
		WillReturnRows(pgxmock.NewRows(userKPIColumns).AddRow(kpiRow("kpi-1", in)...))

	stored, err := repo.InsertIfAbsent(context.Background(), in)
	if err != nil {
		t.Fatalf("InsertIfAbsent returned error: %v", err)
	}
	if stored.ID != "kpi-1" {
		t.Fatalf("expected assigned id, got %q", stored.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserKPIRepository_InsertIfAbsent_ReturnsExistingOnConflict(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewUserKPIRepository(mock)
	existing := sampleKPI(time.Date(2024, 1, 20, 18, 0, 0, 0, time.UTC))
	in := sampleKPI(time.Date(2024, 1, 28, 18, 0, 0, 0, time.UTC))
	in.RollingAvgWorkingHours14 = "07:00"

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO user_kpis`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(userKPIColumns).AddRow(kpiRow("kpi-existing", existing)...))

	stored, err := repo.InsertIfAbsent(context.Background(), in)
	if err != nil {
		t.Fatalf("InsertIfAbsent returned error: %v", err)
	}
	if stored.ID != "kpi-existing" || stored.RollingAvgWorkingHours14 != "08:00" {
		t.Fatalf("expected existing row to be returned unchanged, got %+v", stored)
	}
	if !stored.CreatedAt.Equal(existing.CreatedAt) {
		t.Fatalf("expected original created_at, got %v", stored.CreatedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBadgeEventRepository_ListByUser(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewBadgeEventRepository(mock)
	plus2 := time.FixedZone("UTC+2", 2*60*60)

	rows := pgxmock.NewRows([]string{"user_id", "badged_at"}).
		AddRow(testUserID, time.Date(2024, 1, 2, 10, 0, 0, 0, plus2)).
		AddRow(testUserID, time.Date(2024, 1, 2, 17, 0, 0, 0, time.UTC))

	mock.ExpectQuery(regexp.QuoteMeta(`FROM badge_events`)).
		WithArgs(testUserID).
		WillReturnRows(rows)

	events, err := repo.ListByUser(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].BadgedAt.Location() != time.UTC || events[0].BadgedAt.Hour() != 8 {
		t.Fatalf("expected event normalized to UTC, got %v", events[0].BadgedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBadgeEventRepository_ListByUser_QueryError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewBadgeEventRepository(mock)
	backendErr := errors.New("connection refused")

	mock.ExpectQuery(regexp.QuoteMeta(`FROM badge_events`)).
		WithArgs(testUserID).
		WillReturnError(backendErr)

	if _, err := repo.ListByUser(context.Background(), testUserID); !errors.Is(err, backendErr) {
		t.Fatalf("expected backend error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
