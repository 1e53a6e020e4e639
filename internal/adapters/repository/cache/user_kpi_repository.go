package cache

import (
	"context"
	"time"

	"github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/core/kpi"
	"github.com/maypok86/otter/v2"
)

// UserKPIRepository は永続化済み KPI をプロセス内にキャッシュする kpi.Repository です。
// KPI レコードは一度保存されると更新されないため、読み込みから ttl の間は再読込しません。
// キャッシュに載るのは FindByUserID で読めた行だけです。
type UserKPIRepository struct {
	next  kpi.Repository
	cache *otter.Cache[string, kpi.UserKPI]
}

// NewUserKPIRepository は next をラップした UserKPIRepository を生成します。
func NewUserKPIRepository(next kpi.Repository, size int, ttl time.Duration) *UserKPIRepository {
	c := otter.Must(&otter.Options[string, kpi.UserKPI]{
		MaximumSize:      size,
		ExpiryCalculator: otter.ExpiryWriting[string, kpi.UserKPI](ttl),
	})
	return &UserKPIRepository{next: next, cache: c}
}

// FindByUserID はキャッシュを優先して KPI を取得します。未登録はキャッシュしません。
func (r *UserKPIRepository) FindByUserID(ctx context.Context, userID string) (*kpi.UserKPI, error) {
	if cached, ok := r.cache.GetIfPresent(userID); ok {
		return &cached, nil
	}

	found, err := r.next.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	r.cache.Set(userID, *found)
	return found, nil
}

// InsertIfAbsent は next にそのまま委譲します。
// 挿入した行はトランザクションのコミット前なのでキャッシュしません。
func (r *UserKPIRepository) InsertIfAbsent(ctx context.Context, k *kpi.UserKPI) (*kpi.UserKPI, error) {
	return r.next.InsertIfAbsent(ctx, k)
}
