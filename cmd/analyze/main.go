// Command analyze runs the full pipeline once against a metadata dump and
// exports the aggregate views as CSV files plus an XLSX workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cordex/internal/analytics"
	"cordex/internal/config"
	"cordex/internal/exporter"
	"cordex/internal/infrastructure"
	"cordex/internal/services"
)

func main() {
	file := flag.String("file", "", "metadata CSV file (defaults to the configured dataset path)")
	out := flag.String("out", "reports", "output directory for the exported aggregates")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *file != "" {
		cfg.Dataset.Path = *file
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	if err := run(cfg, logger, *out); err != nil {
		logger.Error("analysis failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, outDir string) error {
	ctx := context.Background()
	explorer := services.NewExplorerService(cfg.Dataset, nil, logger)

	overview, err := explorer.Overview(ctx)
	if err != nil {
		return err
	}
	years, err := explorer.Years(ctx)
	if err != nil {
		return err
	}
	journals, err := explorer.Journals(ctx, 0)
	if err != nil {
		return err
	}
	sources, err := explorer.Sources(ctx, 0)
	if err != nil {
		return err
	}
	keywords, err := explorer.Keywords(ctx, 0)
	if err != nil {
		return err
	}

	printSummary(overview.Summary, overview.Abstracts)

	writer := exporter.NewCSVWriter(outDir)
	if err := writer.WriteCSV("years.csv", exporter.YearOptions(years)); err != nil {
		return err
	}
	if err := writer.WriteCSV("journals.csv", exporter.CountOptions("journal", journals)); err != nil {
		return err
	}
	if err := writer.WriteCSV("sources.csv", exporter.CountOptions("source", sources)); err != nil {
		return err
	}
	if err := writer.WriteCSV("keywords.csv", exporter.CountOptions("keyword", keywords)); err != nil {
		return err
	}

	workbook := filepath.Join(outDir, "aggregates.xlsx")
	if err := exporter.WriteWorkbook(workbook, exporter.WorkbookData{
		Summary:   overview.Summary,
		Abstracts: overview.Abstracts,
		Years:     years,
		Journals:  journals,
		Sources:   sources,
		Keywords:  keywords,
	}); err != nil {
		return err
	}

	logger.Info("aggregates exported",
		slog.String("out_dir", outDir),
		slog.String("workbook", workbook))
	return nil
}

func printSummary(s analytics.Summary, a analytics.AbstractStats) {
	fmt.Printf("Total papers:          %d\n", s.TotalPapers)
	fmt.Printf("Papers with abstract:  %d\n", s.PapersWithAbstract)
	fmt.Printf("Unique journals:       %d\n", s.UniqueJournals)
	fmt.Printf("Unique sources:        %d\n", s.UniqueSources)
	if s.EarliestYear != nil && s.LatestYear != nil {
		fmt.Printf("Publication range:     %d-%d\n", *s.EarliestYear, *s.LatestYear)
	}
	fmt.Printf("Rows dropped:          %d\n", s.RowsDropped)
	fmt.Printf("Rows without year:     %d\n", s.RowsNoYear)
	fmt.Printf("Mean abstract length:  %.1f words\n", a.Mean)
	fmt.Printf("Median abstract length: %.1f words\n", a.Median)
	fmt.Printf("Max abstract length:   %d words\n", a.Max)
}
