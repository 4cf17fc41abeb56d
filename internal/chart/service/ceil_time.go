package service

import (
	"time"

	"github.com/Avi18971911/CycleWallet/internal/chart/model"
)

// CeilTime rounds t up to the next precision boundary in t's location. The
// rounding cascades: a sub-minute remainder always rounds up to the next
// minute, then to the next hour, midnight, Sunday or first of the month as the
// precision requires. A time already on a boundary is returned unchanged.
// Minute and hour steps are absolute, so zones must have whole-minute offsets.
func CeilTime(t time.Time, precision model.Precision) time.Time {
	loc := t.Location()
	ceiled := t.Truncate(time.Minute)
	if !ceiled.Equal(t) {
		ceiled = ceiled.Add(time.Minute)
	}

	if precision.AtLeast(model.Hour) && ceiled.Minute() > 0 {
		ceiled = ceiled.Add(time.Duration(60-ceiled.Minute()) * time.Minute)
	}
	var year, day int
	var month time.Month
	if precision.AtLeast(model.Day) && ceiled.Hour() > 0 {
		year, month, day = ceiled.Date()
		ceiled = time.Date(year, month, day+1, 0, 0, 0, 0, loc)
	}
	if precision == model.Week && ceiled.Weekday() != time.Sunday {
		year, month, day = ceiled.Date()
		ceiled = time.Date(year, month, day+7-int(ceiled.Weekday()), 0, 0, 0, 0, loc)
	}
	if precision.AtLeast(model.Month) && ceiled.Day() != 1 {
		year, month, _ = ceiled.Date()
		ceiled = time.Date(year, month+1, 1, 0, 0, 0, 0, loc)
	}
	return ceiled
}

// stepBack moves a boundary one bucket into the past. Months follow the
// calendar, every other precision is a fixed duration.
func stepBack(t time.Time, precision model.Precision) time.Time {
	switch precision {
	case model.Minute:
		return t.Add(-time.Minute)
	case model.Hour:
		return t.Add(-time.Hour)
	case model.Day:
		return t.Add(-24 * time.Hour)
	case model.Week:
		return t.Add(-7 * 24 * time.Hour)
	default:
		return t.AddDate(0, -1, 0)
	}
}

func humanDate(t time.Time, precision model.Precision) string {
	switch precision {
	case model.Minute, model.Hour:
		return t.Format(timeLabelLayout)
	default:
		return t.Format(dateLabelLayout)
	}
}

const (
	timeLabelLayout = "3:04:05 PM"
	dateLabelLayout = "1/2/2006"
)
