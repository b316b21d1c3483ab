package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/disputelens/credit-analyzer/internal/api"
	"github.com/disputelens/credit-analyzer/internal/config"
	"github.com/disputelens/credit-analyzer/internal/extractor"
	"github.com/disputelens/credit-analyzer/internal/report"
	"github.com/disputelens/credit-analyzer/internal/store"
	"github.com/disputelens/credit-analyzer/internal/writer"
)

const version = "1.0.0"

func main() {
	configFlag := flag.String("config", "", "Path to YAML config file (optional)")
	roundFlag := flag.Int("round", 0, "Dispute round number used to tag output records")
	outputFlag := flag.String("output", "", "Output file path (defaults to input filename with .json extension)")
	formatFlag := flag.String("format", "json", "Output format: json or csv")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API server instead of processing files")
	addrFlag := flag.String("addr", ":8080", "Listen address for --serve")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Credit Report Analyzer
by DisputeLens

Extracts tradelines from consumer credit report PDFs, classifies account
status, detects Metro-2 consistency violations, and selects dispute-worthy
accounts for letter generation.

Usage:
  credit-analyzer [flags] <report.pdf|report.txt> [more files ...]
  credit-analyzer --serve [--addr :8080]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Analyze a report and write report.json
  credit-analyzer report.pdf

  # Tag records with dispute round 2, write CSV
  credit-analyzer --round=2 --format=csv --output=accounts.csv report.pdf

  # Analyze pre-extracted text
  credit-analyzer report.txt

  # Run the API server with run history
  credit-analyzer --serve --config=analyzer.yaml
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("credit-analyzer v%s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fatalf("Config error: %v\n", err)
	}
	for spelling, canonical := range cfg.CreditorAliases {
		report.RegisterCreditorAlias(spelling, canonical)
	}

	analyzer := analyzerFromConfig(cfg)

	if *serveFlag {
		serve(*addrFlag, cfg, analyzer)
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	for _, inputPath := range flag.Args() {
		if err := processFile(inputPath, analyzer, *roundFlag, *outputFlag, *formatFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func analyzerFromConfig(cfg config.Config) *report.Analyzer {
	analyzer := report.NewAnalyzer()
	analyzer.Segment.LinesBefore = cfg.Window.Before
	analyzer.Segment.LinesAfter = cfg.Window.After
	analyzer.MaskSuffix = cfg.MaskSuffix
	analyzer.Policy.LateDeletionThreshold = cfg.LateDeletionThreshold

	patterns, errs := cfg.CompileAnchorPatterns()
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	analyzer.Segment.ExtraPatterns = patterns
	return analyzer
}

func processFile(inputPath string, analyzer *report.Analyzer, round int, outputPath, format string) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	var text string
	switch strings.ToLower(filepath.Ext(inputPath)) {
	case ".pdf":
		var err error
		text, err = extractor.ExtractTextCombined(inputPath)
		if err != nil {
			return fmt.Errorf("PDF extraction failed: %w", err)
		}
	case ".txt":
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		text = string(data)
	default:
		return fmt.Errorf("expected .pdf or .txt file, got %q", filepath.Ext(inputPath))
	}

	res := analyzer.Analyze(text, round)

	if res.Bureau != "" {
		fmt.Printf("  Bureau: %s\n", res.Bureau)
	}
	fmt.Printf("  Found %d account(s), %d dispute-worthy\n", len(res.Accounts), len(res.Negative))

	if len(res.Accounts) == 0 {
		fmt.Println("  Warning: No accounts found. The report layout may not match known patterns.")
	}

	outPath := outputPath
	if outPath == "" {
		base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		outPath = base + "." + format
	}

	switch format {
	case "json":
		w := &writer.JSONWriter{}
		if err := w.WriteToFile(outPath, &res); err != nil {
			return fmt.Errorf("JSON write failed: %w", err)
		}
	case "csv":
		w := &writer.CSVWriter{IncludeHeader: true}
		if err := w.WriteToFile(outPath, &res); err != nil {
			return fmt.Errorf("CSV write failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown output format %q (use json or csv)", format)
	}

	fmt.Printf("  Output: %s\n", outPath)
	fmt.Println("  Done.")
	return nil
}

func serve(addr string, cfg config.Config, analyzer *report.Analyzer) {
	logger, err := zap.NewProduction()
	if err != nil {
		fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	var runStore *store.Store
	if cfg.DBPath != "" {
		runStore, err = store.Open(cfg.DBPath)
		if err != nil {
			logger.Fatal("failed to open run store", zap.Error(err))
		}
		defer runStore.Close()
	}

	app := fiber.New(fiber.Config{
		AppName:   "credit-analyzer v" + version,
		BodyLimit: 32 << 20,
	})

	h := &api.Handler{Logger: logger, Analyzer: analyzer, Store: runStore}
	h.RegisterRoutes(app)

	logger.Info("starting server", zap.String("addr", addr), zap.Bool("history", runStore != nil))
	if err := app.Listen(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
