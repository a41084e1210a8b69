package dataprocessing

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/domain"
)

// Required header names of a ticker spreadsheet.
const (
	ColumnDate     = "Date"
	ColumnAdjClose = "Adj Close"
)

var (
	// ErrMissingColumn means the header row lacks Date or Adj Close.
	ErrMissingColumn = errors.New("required column missing")
	// ErrInvalidDate means a Date cell could not be read as a date.
	ErrInvalidDate = errors.New("invalid date value")
	// ErrEmptySheet means the sheet has no header row at all.
	ErrEmptySheet = errors.New("sheet is empty")
)

// dateLayouts are tried in order for text date cells.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
	"01-02-06",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// ParseOptions tunes how a workbook is read.
type ParseOptions struct {
	// Sheet names the worksheet to read; empty means the first sheet.
	Sheet string
}

// ParseSeriesFile reads the adjusted-close history of ticker from the
// workbook at path.
func ParseSeriesFile(path, ticker string, opts ParseOptions) (*domain.RawSeries, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return parseWorkbook(f, ticker, path, opts)
}

// ParseSeries is ParseSeriesFile for an in-memory workbook.
func ParseSeries(r io.Reader, ticker, source string, opts ParseOptions) (*domain.RawSeries, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return parseWorkbook(f, ticker, source, opts)
}

func parseWorkbook(f *excelize.File, ticker, source string, opts ParseOptions) (*domain.RawSeries, error) {
	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptySheet
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	// The first non-blank row is the header
	headerRow := -1
	for i, row := range rows {
		if !blankRow(row) {
			headerRow = i
			break
		}
	}
	if headerRow < 0 {
		return nil, ErrEmptySheet
	}

	columnMap := mapColumns(rows[headerRow])
	dateCol, ok := columnMap[strings.ToLower(ColumnDate)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, ColumnDate)
	}
	valueCol, ok := columnMap[strings.ToLower(ColumnAdjClose)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, ColumnAdjClose)
	}

	series := &domain.RawSeries{
		Ticker:       ticker,
		Source:       source,
		Observations: make([]domain.Observation, 0, len(rows)-headerRow-1),
	}

	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		rawDate := cell(row, dateCol)
		if rawDate == "" {
			continue
		}

		date, err := parseDate(rawDate, date1904)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %q", ErrInvalidDate, i+1, rawDate)
		}

		series.Observations = append(series.Observations, domain.Observation{
			Date:  date,
			Value: parseValue(cell(row, valueCol)),
		})
	}

	return series, nil
}

// mapColumns maps lower-cased, trimmed header names to their index. The
// first occurrence of a name wins.
func mapColumns(header []string) map[string]int {
	columnMap := make(map[string]int, len(header))
	for j, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if _, exists := columnMap[key]; !exists {
			columnMap[key] = j
		}
	}
	return columnMap
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseDate accepts Excel serial numbers and the text layouts above, and
// returns the calendar day.
func parseDate(raw string, date1904 bool) (time.Time, error) {
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, date1904)
		if err != nil {
			return time.Time{}, err
		}
		return domain.TruncateDay(t), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return domain.TruncateDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// parseValue reads a numeric cell; blanks and text become NaN.
func parseValue(raw string) float64 {
	if raw == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
