package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"cordex/internal/analytics"
)

// WorkbookData carries every aggregate view bundled into the XLSX export.
type WorkbookData struct {
	Summary   analytics.Summary
	Abstracts analytics.AbstractStats
	Years     []analytics.YearRow
	Journals  []analytics.CountRow
	Sources   []analytics.CountRow
	Keywords  []analytics.CountRow
}

// BuildWorkbook assembles a multi-sheet workbook from the aggregates.
// The caller owns the returned file and must Close it.
func BuildWorkbook(data WorkbookData) (*excelize.File, error) {
	f := excelize.NewFile()

	const summarySheet = "Summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename summary sheet: %w", err)
	}

	summaryRows := [][]interface{}{
		{"metric", "value"},
		{"total_papers", data.Summary.TotalPapers},
		{"papers_with_abstract", data.Summary.PapersWithAbstract},
		{"unique_journals", data.Summary.UniqueJournals},
		{"unique_sources", data.Summary.UniqueSources},
		{"rows_dropped", data.Summary.RowsDropped},
		{"rows_no_year", data.Summary.RowsNoYear},
		{"mean_abstract_words", data.Abstracts.Mean},
		{"median_abstract_words", data.Abstracts.Median},
		{"max_abstract_words", data.Abstracts.Max},
	}
	if data.Summary.EarliestYear != nil {
		summaryRows = append(summaryRows, []interface{}{"earliest_year", *data.Summary.EarliestYear})
	}
	if data.Summary.LatestYear != nil {
		summaryRows = append(summaryRows, []interface{}{"latest_year", *data.Summary.LatestYear})
	}
	if err := writeSheet(f, summarySheet, summaryRows); err != nil {
		return nil, err
	}

	yearRows := [][]interface{}{{"year", "count"}}
	for _, row := range data.Years {
		yearRows = append(yearRows, []interface{}{row.Year, row.Count})
	}
	if err := addSheet(f, "Years", yearRows); err != nil {
		return nil, err
	}

	if err := addSheet(f, "Journals", countSheetRows("journal", data.Journals)); err != nil {
		return nil, err
	}
	if err := addSheet(f, "Sources", countSheetRows("source", data.Sources)); err != nil {
		return nil, err
	}
	if err := addSheet(f, "Keywords", countSheetRows("keyword", data.Keywords)); err != nil {
		return nil, err
	}

	return f, nil
}

// WriteWorkbook writes the workbook to a file on disk.
func WriteWorkbook(path string, data WorkbookData) error {
	f, err := BuildWorkbook(data)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// StreamWorkbook writes the workbook to an arbitrary writer, used by the
// download endpoint.
func StreamWorkbook(w io.Writer, data WorkbookData) error {
	f, err := BuildWorkbook(data)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to stream workbook: %w", err)
	}
	return nil
}

func countSheetRows(label string, rows []analytics.CountRow) [][]interface{} {
	out := [][]interface{}{{label, "count"}}
	for _, row := range rows {
		out = append(out, []interface{}{row.Label, row.Count})
	}
	return out
}

func addSheet(f *excelize.File, name string, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	return writeSheet(f, name, rows)
}

func writeSheet(f *excelize.File, name string, rows [][]interface{}) error {
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to compute cell for sheet %s: %w", name, err)
		}
		if err := f.SetSheetRow(name, cellRef, &row); err != nil {
			return fmt.Errorf("failed to write row %d of sheet %s: %w", i+1, name, err)
		}
	}
	return nil
}
