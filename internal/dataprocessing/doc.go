// Package dataprocessing implements the comparison pipeline's data stages:
// reading per-ticker spreadsheets, joining them on date, windowing and
// normalizing the joined table, and deriving returns.
//
// # Stages
//
//  1. SeriesLoader reads <dir>/<ticker>_data.xlsx (falling back to
//     <ticker>.xlsx) and yields a RawSeries, or nil when the source is
//     missing or malformed.
//  2. Aggregate outer-joins the valid series on calendar day.
//  3. FilterRange keeps the inclusive [start, end] window and Normalize
//     rebases every column to 100 at the first row.
//  4. Returns computes period-over-period fractional change, and
//     BuildHeatmap / SummarizeReturns shape it for presentation.
//
// Every function here is pure apart from the loader's file access; tables
// are never mutated once built.
//
// # Usage
//
//	loader, _ := dataprocessing.NewSeriesLoader(cfg.Data, logger, metrics)
//	loaded, _ := loader.LoadAll(ctx, []string{"^NSEI", "^BSESN"})
//	joined, err := dataprocessing.Aggregate(loaded.Order, loaded.Series)
//	window := dataprocessing.FilterRange(joined, start, end)
//	returns := dataprocessing.Returns(window, start, end)
package dataprocessing
