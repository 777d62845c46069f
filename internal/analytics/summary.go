package analytics

import (
	"sort"

	"cordex/internal/dataset"
)

// Summary carries the headline numbers shown on the dashboard overview.
type Summary struct {
	TotalPapers        int  `json:"total_papers"`
	PapersWithAbstract int  `json:"papers_with_abstract"`
	UniqueJournals     int  `json:"unique_journals"`
	UniqueSources      int  `json:"unique_sources"`
	EarliestYear       *int `json:"earliest_year,omitempty"`
	LatestYear         *int `json:"latest_year,omitempty"`
	RowsDropped        int  `json:"rows_dropped"`
	RowsNoYear         int  `json:"rows_no_year"`
}

// AbstractStats describes the distribution of abstract lengths in words.
// Records without an abstract are excluded.
type AbstractStats struct {
	Papers int     `json:"papers"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    int     `json:"max"`
}

// Summarize computes the headline numbers for a cleaned table.
func Summarize(t *dataset.Table) Summary {
	s := Summary{
		TotalPapers: len(t.Records),
		RowsDropped: t.Stats.RowsDropped,
		RowsNoYear:  t.Stats.RowsNoYear,
	}

	journals := make(map[string]bool)
	sources := make(map[string]bool)

	for _, rec := range t.Records {
		if rec.AbstractWords > 0 {
			s.PapersWithAbstract++
		}
		journals[rec.Journal] = true
		if rec.Source != "" {
			sources[rec.Source] = true
		}
		if rec.Year == nil {
			continue
		}
		year := *rec.Year
		if s.EarliestYear == nil || year < *s.EarliestYear {
			y := year
			s.EarliestYear = &y
		}
		if s.LatestYear == nil || year > *s.LatestYear {
			y := year
			s.LatestYear = &y
		}
	}

	s.UniqueJournals = len(journals)
	s.UniqueSources = len(sources)
	return s
}

// AbstractLengthStats computes mean, median and max abstract word counts
// over records that carry an abstract.
func AbstractLengthStats(t *dataset.Table) AbstractStats {
	var lengths []int
	for _, rec := range t.Records {
		if rec.AbstractWords > 0 {
			lengths = append(lengths, rec.AbstractWords)
		}
	}

	stats := AbstractStats{Papers: len(lengths)}
	if len(lengths) == 0 {
		return stats
	}

	sort.Ints(lengths)
	total := 0
	for _, n := range lengths {
		total += n
	}

	stats.Mean = float64(total) / float64(len(lengths))
	stats.Max = lengths[len(lengths)-1]

	mid := len(lengths) / 2
	if len(lengths)%2 == 0 {
		stats.Median = float64(lengths[mid-1]+lengths[mid]) / 2
	} else {
		stats.Median = float64(lengths[mid])
	}
	return stats
}
