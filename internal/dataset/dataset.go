// Package dataset loads and cleans CORD-19 metadata dumps.
//
// A dump is a UTF-8 CSV file with at least the columns title, journal,
// publish_time and source_x. Loading produces an immutable Table whose
// records carry a derived publication year; rows whose date cannot be
// parsed keep a nil year and are excluded from year-based aggregates only.
package dataset

// UnknownJournal is the sentinel used for records without a journal name.
const UnknownJournal = "Unknown"

// Record is one cleaned row of the metadata dump.
type Record struct {
	CordUID       string `json:"cord_uid,omitempty"`
	Title         string `json:"title"`
	Journal       string `json:"journal"`
	Source        string `json:"source"`
	PublishTime   string `json:"publish_time,omitempty"`
	Abstract      string `json:"abstract,omitempty"`
	Year          *int   `json:"year,omitempty"`
	AbstractWords int    `json:"abstract_words"`
}

// HasYear reports whether the publication date parsed to a calendar year.
func (r Record) HasYear() bool {
	return r.Year != nil
}

// LoadStats counts what happened to the raw rows during cleaning.
type LoadStats struct {
	RowsRead    int `json:"rows_read"`
	RowsDropped int `json:"rows_dropped"`
	RowsNoYear  int `json:"rows_no_year"`
}

// Table is an ordered, cleaned view of a metadata dump. It is never
// mutated after Load returns; aggregation stages build their own output.
type Table struct {
	Path    string    `json:"path"`
	Records []Record  `json:"records"`
	Stats   LoadStats `json:"stats"`
}

// Len returns the number of cleaned records.
func (t *Table) Len() int {
	return len(t.Records)
}
