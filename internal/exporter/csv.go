// Package exporter writes aggregate views to CSV files and XLSX
// workbooks for download.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"cordex/internal/analytics"
)

// CSVWriter provides CSV export functionality rooted at an output
// directory.
type CSVWriter struct {
	outDir string
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(outDir string) *CSVWriter {
	return &CSVWriter{outDir: outDir}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file under the output directory.
func (w *CSVWriter) WriteCSV(filename string, options WriteOptions) error {
	fullPath := filepath.Join(w.outDir, filename)

	slog.Info("writing CSV file",
		slog.String("path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return w.write(file, options)
}

// WriteTo streams a CSV document to an arbitrary writer, used by the
// download endpoint.
func (w *CSVWriter) WriteTo(dst io.Writer, options WriteOptions) error {
	return w.write(dst, options)
}

func (w *CSVWriter) write(dst io.Writer, options WriteOptions) error {
	// BOM helps Excel recognize UTF-8.
	if options.BOMPrefix {
		if _, err := dst.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(dst)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// CountOptions converts a category count into CSV write options.
func CountOptions(label string, rows []analytics.CountRow) WriteOptions {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{row.Label, strconv.Itoa(row.Count)})
	}
	return WriteOptions{
		Headers:   []string{label, "count"},
		Records:   records,
		BOMPrefix: true,
	}
}

// YearOptions converts the per-year counts into CSV write options.
func YearOptions(rows []analytics.YearRow) WriteOptions {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{strconv.Itoa(row.Year), strconv.Itoa(row.Count)})
	}
	return WriteOptions{
		Headers:   []string{"year", "count"},
		Records:   records,
		BOMPrefix: true,
	}
}
