package dataprocessing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/domain"
)

// ErrUnknownTenure is returned for a tenure label outside the presets.
var ErrUnknownTenure = errors.New("unknown tenure")

// Tenure is a named look-back window ending at the selected end date.
type Tenure struct {
	Label  string
	Months int
}

var tenures = []Tenure{
	{Label: "Last 6 months", Months: 6},
	{Label: "1 year", Months: 12},
	{Label: "3 years", Months: 36},
	{Label: "5 years", Months: 60},
	{Label: "10 years", Months: 120},
}

// Tenures returns the presets, shortest first.
func Tenures() []Tenure {
	out := make([]Tenure, len(tenures))
	copy(out, tenures)
	return out
}

// TenureLabels returns the preset labels, shortest first.
func TenureLabels() []string {
	labels := make([]string, len(tenures))
	for i, t := range tenures {
		labels[i] = t.Label
	}
	return labels
}

// ParseTenure looks a preset up by label, ignoring case and surrounding
// space.
func ParseTenure(label string) (Tenure, error) {
	want := strings.TrimSpace(label)
	for _, t := range tenures {
		if strings.EqualFold(t.Label, want) {
			return t, nil
		}
	}
	return Tenure{}, fmt.Errorf("%w: %q", ErrUnknownTenure, label)
}

// Start returns the first day of the window that ends at end. A day past
// the end of the target month is clamped to its last day.
func (t Tenure) Start(end time.Time) time.Time {
	end = domain.TruncateDay(end)
	first := time.Date(end.Year(), end.Month()-time.Month(t.Months), 1, 0, 0, 0, 0, end.Location())
	day := end.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

func (t Tenure) String() string {
	return t.Label
}
