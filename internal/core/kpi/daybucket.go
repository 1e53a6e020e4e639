package kpi

import (
	"sort"
	"time"
)

// DayBucket は同じ暦日に属する打刻の集約です。
type DayBucket struct {
	Date     time.Time
	Earliest time.Time
	Latest   time.Time
	Count    int
}

// GroupByDay は打刻を UTC の暦日ごとにまとめ、日付順に返します。
// 社員ごとのタイムゾーンは扱わないため、暦日の境界は常に UTC の 0 時です。
// たとえば UTC+1 の現地時刻 00:30 の打刻は UTC では前日 23:30 となり、前日のバケットに入ります。
func GroupByDay(events []BadgeEvent) []DayBucket {
	if len(events) == 0 {
		return []DayBucket{}
	}

	byDate := make(map[time.Time]*DayBucket, len(events))
	for _, ev := range events {
		at := ev.BadgedAt.UTC()
		date := startOfDay(at)

		b, ok := byDate[date]
		if !ok {
			byDate[date] = &DayBucket{Date: date, Earliest: at, Latest: at, Count: 1}
			continue
		}
		if at.Before(b.Earliest) {
			b.Earliest = at
		}
		if at.After(b.Latest) {
			b.Latest = at
		}
		b.Count++
	}

	buckets := make([]DayBucket, 0, len(byDate))
	for _, b := range byDate {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date.Before(buckets[j].Date)
	})
	return buckets
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// bucketsBetween は from 以上 to 以下の日付を持つバケットを返します。
func bucketsBetween(buckets []DayBucket, from, to time.Time) []DayBucket {
	selected := make([]DayBucket, 0, len(buckets))
	for _, b := range buckets {
		if b.Date.Before(from) || b.Date.After(to) {
			continue
		}
		selected = append(selected, b)
	}
	return selected
}
