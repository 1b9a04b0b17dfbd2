// Package analysis aggregates a loaded dataset into expenditure time
// series: per-period totals of absolute amounts, rolling means,
// period-over-period change and cumulative totals. Rendering is left to
// whatever consumes the series.
package analysis

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finflow/statement-extractor/internal/models"
)

// Frequency selects the resampling period.
type Frequency string

const (
	Daily     Frequency = "D"
	Weekly    Frequency = "W"
	Monthly   Frequency = "M"
	Quarterly Frequency = "Q"
	Yearly    Frequency = "Y"
)

// Label returns a human-readable name for the frequency.
func (f Frequency) Label() string {
	switch f {
	case Daily:
		return "Daily"
	case Weekly:
		return "Weekly"
	case Monthly:
		return "Monthly"
	case Quarterly:
		return "Quarterly"
	case Yearly:
		return "Yearly"
	default:
		return "Every " + string(f)
	}
}

// Point is one period bucket of the series.
type Point struct {
	Period time.Time
	Total  decimal.Decimal
}

// Resample sums the absolute amounts of the dataset into period buckets.
// Records without a booking date or amount are skipped. The result is
// sorted ascending by period.
func Resample(ds models.Dataset, freq Frequency) []Point {
	buckets := make(map[time.Time]decimal.Decimal)
	for _, txn := range ds {
		if txn.BookingDate == nil || !txn.Amount.Valid {
			continue
		}
		p := bucketStart(*txn.BookingDate, freq)
		buckets[p] = buckets[p].Add(txn.Amount.Decimal.Abs())
	}

	points := make([]Point, 0, len(buckets))
	for period, total := range buckets {
		points = append(points, Point{Period: period, Total: total})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Period.Before(points[j].Period)
	})
	return points
}

// bucketStart truncates t to the start of its period.
func bucketStart(t time.Time, freq Frequency) time.Time {
	y, m, d := t.Date()
	switch freq {
	case Daily:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	case Weekly:
		// ISO-style week starting Monday
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case Quarterly:
		qm := time.Month((int(m)-1)/3*3 + 1)
		return time.Date(y, qm, 1, 0, 0, 0, 0, time.UTC)
	case Yearly:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	default: // Monthly
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	}
}

// RollingMean returns the rolling mean of the point totals with the given
// window. Leading points use the partial window, matching a min-period of
// one.
func RollingMean(points []Point, window int) []Point {
	if window < 1 {
		window = 1
	}
	out := make([]Point, len(points))
	for i := range points {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		sum := decimal.Zero
		for j := start; j <= i; j++ {
			sum = sum.Add(points[j].Total)
		}
		n := decimal.NewFromInt(int64(i - start + 1))
		out[i] = Point{Period: points[i].Period, Total: sum.Div(n)}
	}
	return out
}

// Change returns the period-over-period difference of the totals. The
// first point has no predecessor and is reported as zero.
func Change(points []Point) []Point {
	out := make([]Point, len(points))
	for i := range points {
		diff := decimal.Zero
		if i > 0 {
			diff = points[i].Total.Sub(points[i-1].Total)
		}
		out[i] = Point{Period: points[i].Period, Total: diff}
	}
	return out
}

// Cumulative returns the running sum of the totals.
func Cumulative(points []Point) []Point {
	out := make([]Point, len(points))
	sum := decimal.Zero
	for i := range points {
		sum = sum.Add(points[i].Total)
		out[i] = Point{Period: points[i].Period, Total: sum}
	}
	return out
}
