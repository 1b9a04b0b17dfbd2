package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/finflow/statement-extractor/internal/aggregate"
	"github.com/finflow/statement-extractor/internal/api"
	"github.com/finflow/statement-extractor/internal/config"
	"github.com/finflow/statement-extractor/internal/extractor"
	"github.com/finflow/statement-extractor/internal/logging"
	"github.com/finflow/statement-extractor/internal/models"
	"github.com/finflow/statement-extractor/internal/parser"
	"github.com/finflow/statement-extractor/internal/store"
	"github.com/finflow/statement-extractor/internal/writer"
)

const version = "1.0.0"

func main() {
	sourceFlag := flag.String("source", "financial_reports", "Source folder with statement PDFs, relative to DATA_FOLDER")
	typeFlag := flag.String("type", "", "Transaction type filter: direct-debit, card, transfer (all types if omitted)")
	outputFlag := flag.String("output", "transactions.csv", "Output CSV path, relative to DATA_FOLDER unless absolute")
	workersFlag := flag.Int("workers", aggregate.DefaultWorkers, "Number of concurrent document workers")
	sqliteFlag := flag.String("sqlite", "", "Optional SQLite database path for persisting runs")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API on LISTEN_ADDR instead of a batch run")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Bank Statement Extractor

Extracts transactions from German bank-statement PDFs into one sorted
CSV dataset. The base data directory comes from the DATA_FOLDER
environment variable.

Usage:
  statement-extractor [flags]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Extract all direct debits from DATA_FOLDER/financial_reports
  statement-extractor -type=direct-debit

  # All transaction types, custom output, 8 workers
  statement-extractor -output=all.csv -workers=8

  # Serve the upload API on LISTEN_ADDR (default :8080)
  statement-extractor -serve
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-extractor v%s\n", version)
		os.Exit(0)
	}

	var filter *models.TransactionType
	if *typeFlag != "" {
		t, err := models.ParseTransactionType(*typeFlag)
		if err != nil {
			fatalf("%v\n", err)
		}
		filter = &t
	}

	cfg, err := config.Load()
	if err != nil {
		fatalf("%v\n", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fatalf("cannot build logger: %v\n", err)
	}
	defer logger.Sync()

	if *serveFlag {
		serve(cfg.ListenAddr, logger)
		return
	}

	sourceFolder := cfg.SourceFolder(*sourceFlag)
	outputPath := *outputFlag
	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(cfg.DataFolder, outputPath)
	}

	runner := &aggregate.Runner{
		Extractor: parser.New(extractor.PDFSource{}, logger),
		Log:       logger,
		Workers:   *workersFlag,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sink := &writer.CSVWriter{Path: outputPath}
	dataset, summary, err := runner.Run(ctx, sourceFolder, filter, sink)
	if err != nil {
		// The summary below still reports whatever was extracted.
		fmt.Fprintf(os.Stderr, "Run failed: %v\n", err)
	} else {
		summary.OutputPath = outputPath
	}

	if *sqliteFlag != "" && dataset != nil {
		st, err := store.Open(*sqliteFlag)
		if err != nil {
			fatalf("cannot open store: %v\n", err)
		}
		defer st.Close()
		if err := st.SaveRun(summary, dataset); err != nil {
			fmt.Fprintf(os.Stderr, "SQLite persistence failed: %v\n", err)
		}
	}

	printSummary(summary)
	if err != nil || len(summary.DocumentsFailed) > 0 {
		os.Exit(1)
	}
}

// printSummary reports the run outcome. Partial success is expected and
// reported, not treated as total failure.
func printSummary(s *models.RunSummary) {
	fmt.Printf("Run %s finished in %s\n", s.RunID, s.Duration.Round(time.Millisecond))
	fmt.Printf("  Documents:  %d\n", s.Documents)
	fmt.Printf("  Records:    %d\n", s.Records)
	if s.OutputPath != "" {
		fmt.Printf("  Output:     %s\n", s.OutputPath)
	}
	if len(s.PagesSkipped) > 0 {
		fmt.Printf("  Pages skipped (no extractable text): %d\n", len(s.PagesSkipped))
		for _, d := range s.PagesSkipped {
			fmt.Printf("    %s page %d\n", d.Document, d.Page)
		}
	}
	if len(s.DocumentsFailed) > 0 {
		fmt.Printf("  Documents failed: %d\n", len(s.DocumentsFailed))
		for _, f := range s.DocumentsFailed {
			fmt.Printf("    %s: %s\n", f.Document, f.Err)
		}
	}
}

func serve(addr string, logger *zap.Logger) {
	reg := prometheus.NewRegistry()
	srv := api.New(logger, reg)
	logger.Info("serving HTTP API", zap.String("addr", addr))
	if err := srv.Listen(addr); err != nil {
		fatalf("server failed: %v\n", err)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
