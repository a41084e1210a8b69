// Package exporter writes comparison results in downloadable formats.
//
// CSVWriter produces Date-first CSV tables with an optional UTF-8 BOM so
// spreadsheet applications detect the encoding. WriteHeatmapWorkbook builds
// an xlsx workbook with the returns heatmap colored by a three color scale,
// and an optional summary sheet.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(exporter.CSVOptions{BOMPrefix: true})
//	err := w.WriteTable(out, result.Returns)
//
//	err = exporter.WriteHeatmapWorkbook(out, result.Heatmap, result.Summary)
package exporter
