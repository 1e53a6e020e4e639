package kpi

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidUserID          = errors.New("kpi: invalid user id")
	ErrKPINotFound            = errors.New("kpi: not found")
	ErrNoBadgeEvents          = errors.New("kpi: no badge events")
	ErrInsufficientSampleData = errors.New("kpi: insufficient sample data")
)

// InsufficientSampleDataError は期間内の日数が不足していることを表します。
type InsufficientSampleDataError struct {
	Window RollingWindow
	Metric MetricKind
	Have   int
}

func (e *InsufficientSampleDataError) Error() string {
	return fmt.Sprintf("kpi: insufficient sample data for %s %s: have %d days, need %d",
		e.Metric, e.Window, e.Have, e.Window.Days())
}

// Is は errors.Is(err, ErrInsufficientSampleData) を満たします。
func (e *InsufficientSampleDataError) Is(target error) bool {
	return target == ErrInsufficientSampleData
}
