// Package analytics computes descriptive statistics over a cleaned
// metadata table. Every function is a pure, single-pass transformation:
// the same table always yields the same output, and the input is never
// modified.
package analytics

import (
	"sort"
	"strings"
	"unicode"

	"cordex/internal/dataset"
)

// CountRow is one entry of a category count, ordered descending by count.
type CountRow struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// YearRow is the publication count for one calendar year.
type YearRow struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// minTokenLen is the shortest title token that counts as a keyword.
const minTokenLen = 3

// stopWords are common words excluded from keyword frequency analysis.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"that": true, "this": true, "are": true, "was": true, "were": true,
	"been": true, "have": true, "has": true, "had": true, "but": true,
	"not": true, "which": true,
}

// CountByYear counts records per publication year, ascending by year.
// Records without a parsed year are excluded; the sum of the counts
// therefore equals the number of records with a non-nil year.
func CountByYear(t *dataset.Table) []YearRow {
	counts := make(map[int]int)
	for _, rec := range t.Records {
		if rec.Year != nil {
			counts[*rec.Year]++
		}
	}

	rows := make([]YearRow, 0, len(counts))
	for year, n := range counts {
		rows = append(rows, YearRow{Year: year, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Year < rows[j].Year })
	return rows
}

// TopJournals returns the k journals with the most records, descending by
// count. Ties keep the order in which the journals first appear in the
// table. Records without a parsed year still count here.
func TopJournals(t *dataset.Table, k int) []CountRow {
	return topCategories(t, k, func(rec dataset.Record) string { return rec.Journal })
}

// CountBySource returns the k sources with the most records, descending
// by count with first-seen tie-break.
func CountBySource(t *dataset.Table, k int) []CountRow {
	return topCategories(t, k, func(rec dataset.Record) string { return rec.Source })
}

// topCategories counts records per category value and keeps the top k.
// Empty category values do not contribute.
func topCategories(t *dataset.Table, k int, key func(dataset.Record) string) []CountRow {
	counts := make(map[string]int)
	var order []string

	for _, rec := range t.Records {
		label := key(rec)
		if label == "" {
			continue
		}
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	rows := make([]CountRow, 0, len(order))
	for _, label := range order {
		rows = append(rows, CountRow{Label: label, Count: counts[label]})
	}
	// Stable sort over first-seen order gives the tie-break for free.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })

	if k > 0 && len(rows) > k {
		rows = rows[:k]
	}
	return rows
}

// TitleWordFrequency tokenizes every title on non-alphabetic boundaries,
// lowercases the tokens, discards tokens shorter than three characters and
// stop-words, and returns the k most frequent words descending by count
// with first-seen tie-break. extraStop adds caller-supplied stop-words.
func TitleWordFrequency(t *dataset.Table, k int, extraStop []string) []CountRow {
	extra := make(map[string]bool, len(extraStop))
	for _, w := range extraStop {
		extra[strings.ToLower(strings.TrimSpace(w))] = true
	}

	counts := make(map[string]int)
	var order []string

	for _, rec := range t.Records {
		for _, word := range tokenize(rec.Title) {
			if stopWords[word] || extra[word] {
				continue
			}
			if _, seen := counts[word]; !seen {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	rows := make([]CountRow, 0, len(order))
	for _, word := range order {
		rows = append(rows, CountRow{Label: word, Count: counts[word]})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })

	if k > 0 && len(rows) > k {
		rows = rows[:k]
	}
	return rows
}

// tokenize splits text into lowercase alphabetic tokens of at least
// minTokenLen characters. The minimum counts characters, not bytes, so
// multi-byte letters are not over-counted.
func tokenize(text string) []string {
	var tokens []string
	var b strings.Builder
	runes := 0

	flush := func() {
		if runes >= minTokenLen {
			tokens = append(tokens, b.String())
		}
		b.Reset()
		runes = 0
	}

	for _, r := range text {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToLower(r))
			runes++
		} else {
			flush()
		}
	}
	flush()
	return tokens
}
