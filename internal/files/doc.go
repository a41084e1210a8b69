// Package files provides file system discovery and export utilities for the
// index comparison dashboard.
//
// Discovery lists the ticker workbooks in the data directory and maps file
// names back to ticker symbols. Manager writes export artifacts atomically so
// a reader never observes a half-written CSV, workbook or chart.
//
// Example usage:
//
//	discovery := files.NewDiscovery(dataDir)
//	tickers, err := discovery.FindTickerFiles("", "_data.xlsx", ".xlsx")
//
//	manager := files.NewManager(outputDir, logger)
//	err = manager.WriteAtomic("returns.csv", func(w io.Writer) error {
//	    return csvWriter.WriteTable(w, returns)
//	})
package files
