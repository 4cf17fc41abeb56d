package service

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Avi18971911/CycleWallet/internal/chart/model"
)

const DefaultCount = 20

// ChartService turns a sparse balance history into fixed-size chart series.
// Day, week and month boundaries are computed in its location. It holds no
// mutable state and is safe for concurrent use.
type ChartService struct {
	location *time.Location
}

func NewChartService(location *time.Location) *ChartService {
	if location == nil {
		location = time.UTC
	}
	return &ChartService{location: location}
}

func (cs *ChartService) Location() *time.Location {
	return cs.location
}

// BuildTimeArray returns count bucket boundaries walking backward from the
// ceiling of from, most recent first.
func (cs *ChartService) BuildTimeArray(
	from time.Time,
	precision model.Precision,
	count int,
) ([]model.TimeLabel, error) {
	if err := Validate(precision, count); err != nil {
		return nil, err
	}
	current := CeilTime(from.In(cs.location), precision)
	result := make([]model.TimeLabel, count)
	for i := 0; i < count; i++ {
		result[i] = model.TimeLabel{
			Date:      current,
			HumanDate: humanDate(current, precision),
		}
		current = stepBack(current, precision)
	}
	return result, nil
}

// BuildData buckets samples into count points in ascending order. Each bucket
// carries the value of the first sample at or after its boundary, or the most
// recent sample when the boundary is past all of them.
func (cs *ChartService) BuildData(
	samples []model.Sample,
	precision model.Precision,
	count int,
) ([]model.Bucket, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	if err := Validate(precision, count); err != nil {
		return nil, err
	}

	// Input order is not trusted. Ties are broken on value so that any
	// permutation of the same samples charts identically.
	sorted := make([]model.Sample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Value < sorted[j].Value
		}
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	times, err := cs.BuildTimeArray(sorted[len(sorted)-1].Timestamp, precision, count)
	if err != nil {
		return nil, err
	}

	buckets := make([]model.Bucket, count)
	for i, label := range times {
		idx := sort.Search(len(sorted), func(j int) bool {
			return !sorted[j].Timestamp.Before(label.Date)
		})
		if idx == len(sorted) {
			idx = len(sorted) - 1
		}
		amount := sorted[idx].Value
		buckets[count-1-i] = model.Bucket{
			Date:         label.Date,
			HumanDate:    label.HumanDate,
			RealAmount:   amount,
			ScaledAmount: math.Log10(amount),
		}
	}
	return buckets, nil
}

// Validate reports whether a chart of count buckets at precision can be built.
func Validate(precision model.Precision, count int) error {
	if !precision.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPrecision, precision)
	}
	if count <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	return nil
}

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNoSamples        = fmt.Errorf("%w: no samples to chart", ErrInvalidArgument)
	ErrInvalidCount     = fmt.Errorf("%w: bucket count must be positive", ErrInvalidArgument)
	ErrInvalidPrecision = fmt.Errorf("%w: unknown precision", ErrInvalidArgument)
)
