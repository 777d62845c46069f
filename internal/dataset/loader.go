package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
)

// DefaultRequiredColumns are the columns a metadata dump must carry.
var DefaultRequiredColumns = []string{"title", "journal", "publish_time", "source_x"}

// columnAliases maps a canonical column name to header spellings that are
// accepted in its place. Some CORD-19 exports rename source_x to source.
var columnAliases = map[string][]string{
	"source_x": {"source"},
}

// Options configures the loader.
type Options struct {
	// RequiredColumns lists the canonical columns that must be present in
	// the header. Empty means DefaultRequiredColumns.
	RequiredColumns []string
}

func (o Options) required() []string {
	if len(o.RequiredColumns) == 0 {
		return DefaultRequiredColumns
	}
	return o.RequiredColumns
}

// Load reads the CSV file at path into a cleaned Table.
// It returns *FileAccessError when the file cannot be opened and
// *DataFormatError when required columns are absent.
func Load(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	defer f.Close()

	table, err := LoadReader(f, opts)
	if err != nil {
		var accessErr *FileAccessError
		if errors.As(err, &accessErr) {
			accessErr.Path = path
		}
		return nil, err
	}
	table.Path = path
	return table, nil
}

// LoadReader reads a CSV byte stream into a cleaned Table. The first row
// must be a header containing every required column; the check happens
// before any data row is parsed, so a format failure produces no partial
// table.
func LoadReader(r io.Reader, opts Options) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // metadata dumps are ragged

	header, err := reader.Read()
	if err != nil {
		return nil, &FileAccessError{Path: "(reader)", Err: err}
	}

	cols, missing := mapColumns(header, opts.required())
	if len(missing) > 0 {
		return nil, &DataFormatError{Missing: missing}
	}

	idxTitle := colIdx(cols, "title")
	idxAbstract := colIdx(cols, "abstract")
	idxJournal := colIdx(cols, "journal")
	idxSource := colIdx(cols, "source_x")
	idxPublish := colIdx(cols, "publish_time")
	idxUID := colIdx(cols, "cord_uid")

	table := &Table{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed rows are a per-row condition, not a load failure.
			// Anything other than a parse error comes from the underlying
			// reader and would repeat forever.
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				table.Stats.RowsRead++
				table.Stats.RowsDropped++
				continue
			}
			return nil, &FileAccessError{Path: "(reader)", Err: err}
		}
		table.Stats.RowsRead++

		title := strings.TrimSpace(cell(row, idxTitle))
		abstract := strings.TrimSpace(cell(row, idxAbstract))
		if title == "" && abstract == "" {
			// A record with no text contributes nothing to any analysis.
			table.Stats.RowsDropped++
			continue
		}

		rec := Record{
			CordUID:       strings.TrimSpace(cell(row, idxUID)),
			Title:         title,
			Abstract:      abstract,
			Source:        strings.TrimSpace(cell(row, idxSource)),
			PublishTime:   strings.TrimSpace(cell(row, idxPublish)),
			AbstractWords: len(strings.Fields(abstract)),
		}

		rec.Journal = strings.TrimSpace(cell(row, idxJournal))
		if rec.Journal == "" {
			rec.Journal = UnknownJournal
		}

		if year, ok := parseYear(rec.PublishTime); ok {
			rec.Year = &year
		} else {
			table.Stats.RowsNoYear++
		}

		table.Records = append(table.Records, rec)
	}

	slog.Debug("dataset loaded",
		slog.Int("rows_read", table.Stats.RowsRead),
		slog.Int("rows_dropped", table.Stats.RowsDropped),
		slog.Int("rows_no_year", table.Stats.RowsNoYear),
		slog.Int("records", len(table.Records)))

	return table, nil
}

// mapColumns resolves header names to positions and reports which required
// columns are absent. Matching is case-insensitive and alias-aware.
func mapColumns(header, required []string) (map[string]int, []string) {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, seen := byName[name]; !seen {
			byName[name] = i
		}
	}

	cols := make(map[string]int)
	for name, idx := range byName {
		cols[name] = idx
	}
	// Fold aliases onto their canonical name.
	for canonical, aliases := range columnAliases {
		if _, ok := cols[canonical]; ok {
			continue
		}
		for _, alias := range aliases {
			if idx, ok := byName[alias]; ok {
				cols[canonical] = idx
				break
			}
		}
	}

	var missing []string
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	return cols, missing
}

// colIdx returns the position of a column, or -1 when the header does not
// carry it. Optional columns resolve to -1 and read as empty cells.
func colIdx(cols map[string]int, name string) int {
	if idx, ok := cols[name]; ok {
		return idx
	}
	return -1
}

// cell returns the value at idx, or "" when the row is too short or the
// column was not present in the header.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseYear extracts a calendar year from a free-form date string.
// Accepts bare years ("2020") directly, otherwise defers to dateparse.
func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if len(s) == 4 {
		if year, err := strconv.Atoi(s); err == nil && year >= 1000 && year <= 2999 {
			return year, true
		}
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return 0, false
	}
	return t.Year(), true
}
