package kpi

import "time"

// BadgeEvent は社員による 1 回の打刻を表します。
type BadgeEvent struct {
	UserID   string
	BadgedAt time.Time
}

// RollingWindow は平均を算出する直近期間です。
type RollingWindow int

const (
	OneWeek   RollingWindow = 7
	TwoWeeks  RollingWindow = 14
	FourWeeks RollingWindow = 28
)

// Days は期間の日数を返します。
func (w RollingWindow) Days() int {
	return int(w)
}

func (w RollingWindow) String() string {
	switch w {
	case OneWeek:
		return "ONE_WEEK"
	case TwoWeeks:
		return "TWO_WEEKS"
	case FourWeeks:
		return "FOUR_WEEKS"
	default:
		return "UNKNOWN"
	}
}

// MetricKind は出勤・退勤のどちらの指標かを表します。
type MetricKind string

const (
	MetricArrival   MetricKind = "arrival"
	MetricDeparture MetricKind = "departure"
)

// UserKPI は社員ごとに永続化される KPI レコードです。
type UserKPI struct {
	ID                       string
	UserID                   string
	RollingAvgArrival14      time.Time
	RollingAvgArrival28      time.Time
	RollingAvgDeparture14    time.Time
	RollingAvgDeparture28    time.Time
	RollingAvgWorkingHours14 string
	RollingAvgWorkingHours28 string
	CreatedAt                time.Time
}

// WindowMetrics は 1 つの期間について算出した平均値です。
type WindowMetrics struct {
	Window       RollingWindow
	Arrival      time.Time
	Departure    time.Time
	WorkingHours string
}

// Presence は直近 14 日間の出勤率です。
type Presence struct {
	Rate        float64
	WorkingDays int
	TotalDays   int
}

// Report は永続化済み KPI と毎回算出する 7 日間指標・出勤率をまとめた応答です。
type Report struct {
	KPI      *UserKPI
	Week     WindowMetrics
	Presence Presence
}
