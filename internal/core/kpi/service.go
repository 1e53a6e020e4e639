package kpi

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// computeTimeout は複数の呼び出し元で共有される算出処理の上限時間です。
const computeTimeout = 30 * time.Second

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// UseCase は KPI ユースケースの公開インターフェースです。
type UseCase interface {
	GetOrCompute(ctx context.Context, userID string) (*UserKPI, error)
	GetReport(ctx context.Context, userID string) (*Report, error)
}

// Service は社員の KPI 算出と永続化をまとめます。
type Service struct {
	repo   Repository
	events EventSource
	clock  Clock
	tx     TransactionManager
	logger *zap.Logger
	sf     *singleflight.Group
}

// NewService は Service を生成します。clock, tx, logger は nil の場合に既定値を使います。
func NewService(repo Repository, events EventSource, clock Clock, tx TransactionManager, logger *zap.Logger) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if logger == nil {
		logger = zap.L()
	}
	return &Service{
		repo:   repo,
		events: events,
		clock:  clock,
		tx:     tx,
		logger: logger.Named("kpi.service"),
		sf:     &singleflight.Group{},
	}
}

// GetOrCompute は永続化済みの KPI を返し、存在しなければ算出して保存します。
// 同一プロセス内の同じ社員への同時呼び出しは 1 回の算出にまとめられます。
// 共有される算出は呼び出し元のキャンセルから切り離し computeTimeout で打ち切ります。
// 各呼び出し元は自身の ctx が終了した時点で待機をやめます。
func (s *Service) GetOrCompute(ctx context.Context, userID string) (*UserKPI, error) {
	id, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}

	ch := s.sf.DoChan(id, func() (interface{}, error) {
		workCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), computeTimeout)
		defer cancel()
		return s.getOrCompute(workCtx, id)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("kpi computation shared", zap.String("user_id", id))
		}
		return cloneKPI(res.Val.(*UserKPI)), nil
	}
}

func (s *Service) getOrCompute(ctx context.Context, userID string) (*UserKPI, error) {
	var result *UserKPI
	err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByUserID(txCtx, userID)
		if err == nil {
			result = existing
			return nil
		}
		if !errors.Is(err, ErrKPINotFound) {
			return err
		}

		events, err := s.listEvents(txCtx, userID)
		if err != nil {
			return err
		}

		computed, err := BuildUserKPI(userID, events, s.clock.Now())
		if err != nil {
			return err
		}

		stored, err := s.repo.InsertIfAbsent(txCtx, computed)
		if err != nil {
			return err
		}

		s.logger.Info("kpi stored",
			zap.String("user_id", userID),
			zap.String("kpi_id", stored.ID),
			zap.Int("events", len(events)),
		)
		result = stored
		return nil
	})
	if err != nil {
		s.logFailure("get or compute kpi failed", userID, err)
		return nil, err
	}

	return result, nil
}

// GetReport は永続化済み KPI に、毎回算出する 7 日間の指標と出勤率を加えて返します。
func (s *Service) GetReport(ctx context.Context, userID string) (*Report, error) {
	stored, err := s.GetOrCompute(ctx, userID)
	if err != nil {
		return nil, err
	}

	var events []BadgeEvent
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.events.ListByUser(txCtx, stored.UserID)
		if err != nil {
			return err
		}
		events = found
		return nil
	}); err != nil {
		s.logFailure("list badge events failed", stored.UserID, err)
		return nil, err
	}

	now := s.clock.Now()
	buckets := GroupByDay(events)

	week, err := ComputeWindow(buckets, OneWeek, now)
	if err != nil {
		s.logFailure("compute weekly kpi failed", stored.UserID, err)
		return nil, err
	}

	return &Report{
		KPI:      stored,
		Week:     week,
		Presence: PresenceRate(buckets, now),
	}, nil
}

func (s *Service) listEvents(ctx context.Context, userID string) ([]BadgeEvent, error) {
	events, err := s.events.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNoBadgeEvents
	}
	return events, nil
}

func (s *Service) logFailure(msg, userID string, err error) {
	var insufficient *InsufficientSampleDataError
	switch {
	case errors.As(err, &insufficient):
		s.logger.Info(msg,
			zap.String("user_id", userID),
			zap.Stringer("window", insufficient.Window),
			zap.String("metric", string(insufficient.Metric)),
			zap.Int("days", insufficient.Have),
		)
	case errors.Is(err, ErrNoBadgeEvents):
		s.logger.Info(msg, zap.String("user_id", userID), zap.Error(err))
	default:
		s.logger.Error(msg, zap.String("user_id", userID), zap.Error(err))
	}
}

func normalizeUserID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidUserID
	}
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return "", ErrInvalidUserID
	}
	return id.String(), nil
}

func cloneKPI(k *UserKPI) *UserKPI {
	if k == nil {
		return nil
	}
	clone := *k
	return &clone
}
