package model

import "time"

// Sample is one observed value of the charted series.
type Sample struct {
	Timestamp time.Time
	Value     float64
}

// TimeLabel is a bucket boundary and its display label.
type TimeLabel struct {
	Date      time.Time
	HumanDate string
}

type Bucket struct {
	Date      time.Time `json:"date"`
	HumanDate string    `json:"human_date"`
	// RealAmount is the value carried into this bucket.
	RealAmount float64 `json:"real_amount"`
	// ScaledAmount is log10(RealAmount), undefined for non-positive amounts.
	ScaledAmount float64 `json:"scaled_amount"`
}
