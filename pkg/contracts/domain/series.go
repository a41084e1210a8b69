// Package domain holds the data shapes shared by the loader, the comparison
// pipeline, the exporters and the transport layer.
package domain

import (
	"math"
	"time"
)

// DateLayout is the calendar-day layout used on every external surface.
const DateLayout = "2006-01-02"

// Observation is one dated adjusted-close value. Value is NaN when the
// source cell was empty or not numeric.
type Observation struct {
	Date  time.Time
	Value float64
}

// Missing reports whether the observation carries no usable value.
func (o Observation) Missing() bool {
	return math.IsNaN(o.Value)
}

// RawSeries is the adjusted-close history of one ticker as read from its
// source file. A nil *RawSeries marks a ticker whose source was absent or
// unusable.
type RawSeries struct {
	Ticker       string
	Source       string
	Observations []Observation
}

// Len returns the number of observations.
func (s *RawSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Observations)
}

// Valid reports whether the series can take part in a comparison.
func (s *RawSeries) Valid() bool {
	return s != nil
}

// TruncateDay returns t at midnight UTC of its calendar day. All date keys
// are compared at this precision.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a day-precision time.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return TruncateDay(t), nil
}

// FormatDay formats t as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(DateLayout)
}
