// Command compare runs one index comparison from the command line. The
// returns table is printed to stdout as CSV; charts and workbooks are
// written on request.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/charts"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/config"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/dataprocessing"
	apierrors "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/errors"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/exporter"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/files"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/infrastructure"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/operations"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/services"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/validation"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts"
	api "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/api/v1"
)

// Exit codes
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

type options struct {
	configFile string
	dataDir    string
	logLevel   string
	tickers    string
	start      string
	end        string
	tenure     string
	normalize  bool
	csvOut     string
	summaryOut string
	xlsxOut    string
	pngOut     string
	svgOut     string
	version    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configFile, "config", "", "YAML config file (defaults to config.yaml lookup)")
	fs.StringVar(&opts.dataDir, "data", "", "directory holding <TICKER>_data.xlsx files")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "debug | info | warn | error")
	fs.StringVar(&opts.tickers, "tickers", "", "comma separated tickers, e.g. ^NSEI,^BSESN")
	fs.StringVar(&opts.start, "start", "", "start date YYYY-MM-DD")
	fs.StringVar(&opts.end, "end", "", "end date YYYY-MM-DD (defaults to today)")
	fs.StringVar(&opts.tenure, "tenure", "", "tenure preset, overrides -start (e.g. \"6 months\")")
	fs.BoolVar(&opts.normalize, "normalize", false, "rebase every series to 100 at the first date")
	fs.StringVar(&opts.csvOut, "csv", "", "write the chart table as CSV")
	fs.StringVar(&opts.summaryOut, "summary", "", "write per-ticker return statistics as CSV")
	fs.StringVar(&opts.xlsxOut, "xlsx", "", "write the returns heatmap workbook")
	fs.StringVar(&opts.pngOut, "png", "", "write the comparison chart as PNG")
	fs.StringVar(&opts.svgOut, "svg", "", "write the comparison chart as SVG")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.version {
		return opts, nil
	}
	if strings.TrimSpace(opts.tickers) == "" {
		return nil, fmt.Errorf("-tickers is required")
	}
	return opts, nil
}

func loadConfig(opts *options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadFile(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.dataDir != "" {
		cfg.Data.Dir = opts.dataDir
	}
	cfg.Logging.Level = opts.logLevel
	cfg.Logging.Output = "console"
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintln(stderr, "error:", err)
		}
		return exitUsage
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return exitOK
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintln(stderr, "error: failed to load configuration:", err)
		return exitFailed
	}

	logger, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "error: failed to initialize logger:", err)
		return exitFailed
	}

	loader, err := dataprocessing.NewSeriesLoader(cfg.Data, logger, nil)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitFailed
	}
	pipeline := operations.NewPipeline(loader, operations.NewPipelineTracer(nil, nil), logger)
	svc := services.NewComparisonService(pipeline, validation.NewRequestValidator(logger), cfg.Dashboard, logger)

	result, err := svc.Compare(ctx, api.ComparisonRequest{
		Tickers:   strings.Split(opts.tickers, ","),
		StartDate: opts.start,
		EndDate:   opts.end,
		Tenure:    opts.tenure,
		Normalize: opts.normalize,
	})
	if err != nil {
		fmt.Fprintln(stderr, "error:", apierrors.UserMessage(err))
		return exitUsage
	}

	for _, w := range result.Warnings {
		fmt.Fprintln(stderr, "warning:", w)
	}
	if !result.Succeeded() {
		fmt.Fprintln(stderr, "error:", result.Message)
		return exitFailed
	}

	csvWriter := exporter.NewCSVWriter(exporter.CSVOptions{})
	if result.Returns != nil {
		if err := csvWriter.WriteTable(stdout, result.Returns); err != nil {
			fmt.Fprintln(stderr, "error: failed to print returns:", err)
			return exitFailed
		}
	}

	if err := writeExports(opts, cfg, result, csvWriter, logger); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitFailed
	}

	logger.InfoContext(ctx, "comparison_complete",
		slog.String("run_id", result.RunID),
		slog.Int("rows", result.Chart.Len()))
	return exitOK
}

// writeExports writes every requested artifact atomically.
func writeExports(opts *options, cfg *config.Config, result *operations.Result, csvWriter *exporter.CSVWriter, logger *slog.Logger) error {
	validator := validation.NewFileValidator(logger)
	manager := files.NewManager("", logger)
	chartOpts := charts.OptionsFrom(cfg.Dashboard)

	exports := []struct {
		path  string
		write func(w io.Writer) error
	}{
		{opts.csvOut, func(w io.Writer) error { return csvWriter.WriteTable(w, result.Chart) }},
		{opts.summaryOut, func(w io.Writer) error { return csvWriter.WriteSummary(w, result.Summary) }},
		{opts.xlsxOut, func(w io.Writer) error {
			return exporter.WriteHeatmapWorkbook(w, result.Heatmap, result.Summary)
		}},
		{opts.pngOut, func(w io.Writer) error {
			o := chartOpts
			o.Format = charts.FormatPNG
			return charts.RenderComparison(w, result.Chart, o)
		}},
		{opts.svgOut, func(w io.Writer) error {
			o := chartOpts
			o.Format = charts.FormatSVG
			return charts.RenderComparison(w, result.Chart, o)
		}},
	}

	for _, e := range exports {
		if e.path == "" {
			continue
		}
		if err := validator.ValidateOutputFile(e.path); err != nil {
			return err
		}
		if err := manager.WriteAtomic(e.path, e.write); err != nil {
			return fmt.Errorf("write %s: %w", e.path, err)
		}
	}
	return nil
}
