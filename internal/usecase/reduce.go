package usecase

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-dow/internal/domain"
)

const millisPerHour = 60 * 60 * 1000

// CalendarField extracts a calendar value in [0, size) from a timestamp.
type CalendarField[T ~int] struct {
	Extract func(time.Time) T
	Size    int
}

var (
	// Weekday buckets Sunday through Saturday.
	Weekday = CalendarField[time.Weekday]{
		Extract: func(t time.Time) time.Weekday { return t.Weekday() },
		Size:    7,
	}
	// Month buckets January through December; slot 0 stays empty.
	Month = CalendarField[time.Month]{
		Extract: func(t time.Time) time.Month { return t.Month() },
		Size:    13,
	}
)

// Mode returns the most frequent value of field over times, evaluated in loc.
// On ties the lowest value wins.
func Mode[T ~int](times []time.Time, field CalendarField[T], loc *time.Location) (T, error) {
	if len(times) == 0 {
		return 0, domain.ErrEmptyInput
	}
	if loc == nil {
		loc = time.Local
	}
	counts := make([]int, field.Size)
	for _, t := range times {
		counts[field.Extract(t.In(loc))]++
	}
	return T(argMax(counts)), nil
}

// argMax returns the first index holding the largest count.
func argMax(counts []int) int {
	arg := 0
	for i, c := range counts {
		if c > counts[arg] {
			arg = i
		}
	}
	return arg
}

// MeanIntervalHours sorts times ascending and returns the mean gap between
// neighbours in hours. Fewer than two timestamps yield 0.
func MeanIntervalHours(times []time.Time) float64 {
	if len(times) < 2 {
		return 0
	}
	sorted := make([]time.Time, len(times))
	copy(sorted, times)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})

	deltas := make(stats.Float64Data, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		deltas = append(deltas, float64(sorted[i].Sub(sorted[i-1]).Milliseconds()))
	}
	return meanOrZero(deltas) / millisPerHour
}

// TruncatedHours returns end-start in whole hours, truncating toward zero.
func TruncatedHours(start, end time.Time) int64 {
	return end.Sub(start).Milliseconds() / millisPerHour
}

// Mean averages integer values. An empty input yields 0.
func Mean[N ~int | ~int64](values []N) float64 {
	data := make(stats.Float64Data, 0, len(values))
	for _, v := range values {
		data = append(data, float64(v))
	}
	return meanOrZero(data)
}

func meanOrZero(data stats.Float64Data) float64 {
	if len(data) == 0 {
		return 0
	}
	mean, _ := stats.Mean(data)
	return mean
}
