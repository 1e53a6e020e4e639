package kpi

import "time"

// ComputeWindow は 1 つの期間について平均出勤・退勤時刻と平均勤務時間を算出します。
func ComputeWindow(buckets []DayBucket, window RollingWindow, now time.Time) (WindowMetrics, error) {
	arrivals, err := SelectWindow(buckets, window, MetricArrival, now)
	if err != nil {
		return WindowMetrics{}, err
	}
	departures, err := SelectWindow(buckets, window, MetricDeparture, now)
	if err != nil {
		return WindowMetrics{}, err
	}

	arrival := AverageTimeOfDay(arrivals, MetricArrival, now)
	departure := AverageTimeOfDay(departures, MetricDeparture, now)

	return WindowMetrics{
		Window:       window,
		Arrival:      arrival,
		Departure:    departure,
		WorkingHours: FormatClockDuration(WorkingHours(arrival, departure)),
	}, nil
}

// BuildUserKPI は 14 日・28 日の両期間を算出して永続化前の UserKPI を組み立てます。
// どちらかの期間で失敗した場合は部分的な結果を返しません。
func BuildUserKPI(userID string, events []BadgeEvent, now time.Time) (*UserKPI, error) {
	buckets := GroupByDay(events)

	twoWeeks, err := ComputeWindow(buckets, TwoWeeks, now)
	if err != nil {
		return nil, err
	}
	fourWeeks, err := ComputeWindow(buckets, FourWeeks, now)
	if err != nil {
		return nil, err
	}

	return &UserKPI{
		UserID:                   userID,
		RollingAvgArrival14:      twoWeeks.Arrival,
		RollingAvgArrival28:      fourWeeks.Arrival,
		RollingAvgDeparture14:    twoWeeks.Departure,
		RollingAvgDeparture28:    fourWeeks.Departure,
		RollingAvgWorkingHours14: twoWeeks.WorkingHours,
		RollingAvgWorkingHours28: fourWeeks.WorkingHours,
		CreatedAt:                now,
	}, nil
}
