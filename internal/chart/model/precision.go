package model

import (
	"fmt"
	"strings"
)

// Precision is the width of a chart bucket. Precisions are totally ordered from
// Minute (finest) to Month (coarsest) through rank.
type Precision string

const (
	Minute Precision = "minute"
	Hour   Precision = "hour"
	Day    Precision = "day"
	Week   Precision = "week"
	Month  Precision = "month"
)

var Precisions = []Precision{Minute, Hour, Day, Week, Month}

func (p Precision) rank() int {
	switch p {
	case Minute:
		return 0
	case Hour:
		return 1
	case Day:
		return 2
	case Week:
		return 3
	case Month:
		return 4
	default:
		return -1
	}
}

// AtLeast reports whether p is as coarse as other or coarser.
func (p Precision) AtLeast(other Precision) bool {
	return p.rank() >= other.rank()
}

func (p Precision) IsValid() bool {
	return p.rank() >= 0
}

func (p Precision) String() string {
	return string(p)
}

// ParsePrecision accepts the precision names, the plural names used by the
// dashboard select box and its numeric values 0 to 4.
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minute", "minutes", "0":
		return Minute, nil
	case "hour", "hours", "hourly", "1":
		return Hour, nil
	case "day", "days", "daily", "2":
		return Day, nil
	case "week", "weeks", "weekly", "3":
		return Week, nil
	case "month", "months", "monthly", "4":
		return Month, nil
	}
	return "", fmt.Errorf("unknown chart precision %q", s)
}
