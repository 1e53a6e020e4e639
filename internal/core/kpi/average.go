package kpi

import "time"

// tick は平均計算に用いる最小単位です。
const tick = 100 * time.Nanosecond

// AverageTimeOfDay は各バケットの最初 (出勤) または最後 (退勤) の打刻時刻の
// 算術平均を求め、now の UTC 日付に載せ替えて返します。
// 日付をまたぐ時刻は円周平均されないため、23:50 と 00:10 の平均は 12:00 になります。
func AverageTimeOfDay(buckets []DayBucket, metric MetricKind, now time.Time) time.Time {
	today := startOfDay(now)
	if len(buckets) == 0 {
		return today
	}

	var sum int64
	for _, b := range buckets {
		at := b.Earliest
		if metric == MetricDeparture {
			at = b.Latest
		}
		sum += int64(timeOfDay(at) / tick)
	}

	mean := time.Duration(sum/int64(len(buckets))) * tick
	return today.Add(mean)
}

// timeOfDay は UTC の 0 時からの経過時間を返します。GroupByDay の暦日と同じ基準です。
func timeOfDay(t time.Time) time.Duration {
	t = t.UTC()
	return t.Sub(startOfDay(t))
}
