package kpi

import (
	"fmt"
	"time"
)

// WorkingHours は平均出勤時刻から平均退勤時刻までの差分を返します。負値もそのまま返します。
func WorkingHours(arrival, departure time.Time) time.Duration {
	return departure.Sub(arrival)
}

// FormatClockDuration は期間を HH:mm 形式に整形します。
// 時計形式は符号を持たないため、負の期間は絶対値で表示されます。
func FormatClockDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	hours := int(d/time.Hour) % 24
	minutes := int(d/time.Minute) % 60
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}
