package kpi

import "time"

// SelectWindow は now を基準に期間内のバケットを抽出します。
// 下限は window の日数 + 1 日前で、抽出数が window の日数に満たない場合は
// InsufficientSampleDataError を返します。
func SelectWindow(buckets []DayBucket, window RollingWindow, metric MetricKind, now time.Time) ([]DayBucket, error) {
	today := startOfDay(now)
	cutoff := today.AddDate(0, 0, -(window.Days() + 1))

	selected := bucketsBetween(buckets, cutoff, today)
	if len(selected) < window.Days() {
		return nil, &InsufficientSampleDataError{Window: window, Metric: metric, Have: len(selected)}
	}
	return selected, nil
}
