package kpi

import "context"

// EventSource は打刻イベントの読み取り元です。
type EventSource interface {
	ListByUser(ctx context.Context, userID string) ([]BadgeEvent, error)
}

// Repository は KPI レコード永続化の抽象です。
type Repository interface {
	FindByUserID(ctx context.Context, userID string) (*UserKPI, error)
	// InsertIfAbsent は未登録なら挿入し、登録済みなら既存レコードをそのまま返します。
	InsertIfAbsent(ctx context.Context, k *UserKPI) (*UserKPI, error)
}
