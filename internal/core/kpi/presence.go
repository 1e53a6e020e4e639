package kpi

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// PresenceWindowDays は出勤率を求める固定の期間です。
	PresenceWindowDays = 14
	// minEventsPerWorkedDay は出勤日とみなす打刻数の下限です (出勤と退勤)。
	minEventsPerWorkedDay = 2
)

var hundred = decimal.NewFromInt(100)

// PresenceRate は今日を含む直近 14 日のうち打刻が 2 回以上ある日の割合を、
// 小数第 1 位に丸めた百分率で返します。
func PresenceRate(buckets []DayBucket, now time.Time) Presence {
	today := startOfDay(now)
	from := today.AddDate(0, 0, -(PresenceWindowDays - 1))

	worked := 0
	for _, b := range bucketsBetween(buckets, from, today) {
		if b.Count >= minEventsPerWorkedDay {
			worked++
		}
	}

	rate, _ := decimal.NewFromInt(int64(worked)).
		Mul(hundred).
		Div(decimal.NewFromInt(PresenceWindowDays)).
		RoundBank(1).
		Float64()

	return Presence{
		Rate:        rate,
		WorkingDays: worked,
		TotalDays:   PresenceWindowDays,
	}
}
