// Package charts renders comparison tables as line charts.
//
// One line is drawn per ticker with dates on the x axis. Missing cells
// leave a gap in the sample list rather than being interpolated.
package charts
