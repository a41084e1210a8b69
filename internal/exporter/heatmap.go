package exporter

import (
	"fmt"
	"io"
	"math"

	"github.com/guregu/null/v6"
	"github.com/xuri/excelize/v2"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/domain"
)

// Sheet names of the heatmap workbook.
const (
	HeatmapSheet = "Heatmap"
	SummarySheet = "Summary"
)

// Three color scale used for the heatmap cells.
const (
	scaleLowColor  = "#F8696B"
	scaleMidColor  = "#FFFFFF"
	scaleHighColor = "#63BE7B"
)

// builtin number format "0.00%"
const percentNumFmt = 10

// WriteHeatmapWorkbook writes an xlsx workbook with tickers as rows and dates
// as columns. When summaries is non-empty a second sheet lists them.
func WriteHeatmapWorkbook(w io.Writer, h *domain.Heatmap, summaries []domain.ReturnSummary) error {
	if h.Empty() {
		return fmt.Errorf("write heatmap: nothing to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", HeatmapSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeHeatmapSheet(f, h); err != nil {
		return err
	}
	if len(summaries) > 0 {
		if err := writeSummarySheet(f, summaries); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// cellValue leaves invalid statistics blank.
func cellValue(v null.Float) interface{} {
	if !v.Valid || math.IsNaN(v.Float64) || math.IsInf(v.Float64, 0) {
		return nil
	}
	return v.Float64
}

func writeHeatmapSheet(f *excelize.File, h *domain.Heatmap) error {
	header := make([]interface{}, 0, len(h.Dates)+1)
	header = append(header, "Ticker")
	for _, d := range h.Dates {
		header = append(header, formatDate(d))
	}
	if err := f.SetSheetRow(HeatmapSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for r, ticker := range h.Tickers {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(HeatmapSheet, cell, ticker); err != nil {
			return fmt.Errorf("write ticker %s: %w", ticker, err)
		}
		for c, v := range h.Cells[r] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+2, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(HeatmapSheet, cell, v); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	topLeft, err := excelize.CoordinatesToCellName(2, 2)
	if err != nil {
		return err
	}
	bottomRight, err := excelize.CoordinatesToCellName(len(h.Dates)+1, len(h.Tickers)+1)
	if err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: percentNumFmt})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err := f.SetCellStyle(HeatmapSheet, topLeft, bottomRight, style); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	rng := topLeft + ":" + bottomRight
	scale := []excelize.ConditionalFormatOptions{{
		Type:     "3_color_scale",
		Criteria: "=",
		MinType:  "min",
		MidType:  "percentile",
		MidValue: "50",
		MaxType:  "max",
		MinColor: scaleLowColor,
		MidColor: scaleMidColor,
		MaxColor: scaleHighColor,
	}}
	if err := f.SetConditionalFormat(HeatmapSheet, rng, scale); err != nil {
		return fmt.Errorf("apply color scale: %w", err)
	}

	if err := f.SetColWidth(HeatmapSheet, "A", "A", 14); err != nil {
		return err
	}
	return f.SetPanes(HeatmapSheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	})
}

func writeSummarySheet(f *excelize.File, summaries []domain.ReturnSummary) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	header := []interface{}{"Ticker", "Observations", "Mean", "StdDev", "Min", "Max", "Cumulative"}
	if err := f.SetSheetRow(SummarySheet, "A1", &header); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}

	for i, s := range summaries {
		row := []interface{}{
			s.Ticker,
			s.Observations,
			cellValue(s.Mean),
			cellValue(s.StdDev),
			cellValue(s.Min),
			cellValue(s.Max),
			cellValue(s.Cumulative),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary %s: %w", s.Ticker, err)
		}
	}
	return nil
}
