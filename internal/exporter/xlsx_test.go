package exporter

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"cordex/internal/analytics"
)

func sampleWorkbookData() WorkbookData {
	earliest, latest := 2019, 2021
	return WorkbookData{
		Summary: analytics.Summary{
			TotalPapers:        10,
			PapersWithAbstract: 8,
			UniqueJournals:     4,
			UniqueSources:      2,
			EarliestYear:       &earliest,
			LatestYear:         &latest,
		},
		Abstracts: analytics.AbstractStats{Papers: 8, Mean: 120.5, Median: 110, Max: 300},
		Years: []analytics.YearRow{
			{Year: 2019, Count: 3},
			{Year: 2020, Count: 5},
			{Year: 2021, Count: 2},
		},
		Journals: []analytics.CountRow{{Label: "Nature", Count: 6}},
		Sources:  []analytics.CountRow{{Label: "PMC", Count: 9}},
		Keywords: []analytics.CountRow{{Label: "viral", Count: 12}},
	}
}

func TestBuildWorkbook(t *testing.T) {
	f, err := BuildWorkbook(sampleWorkbookData())
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t,
		[]string{"Summary", "Years", "Journals", "Sources", "Keywords"},
		f.GetSheetList())

	metric, err := f.GetCellValue("Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, "total_papers", metric)
	value, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "10", value)

	year, err := f.GetCellValue("Years", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2019", year)
	count, err := f.GetCellValue("Years", "B3")
	require.NoError(t, err)
	assert.Equal(t, "5", count)
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aggregates.xlsx")

	require.NoError(t, WriteWorkbook(path, sampleWorkbookData()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	journal, err := f.GetCellValue("Journals", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Nature", journal)
}

func TestStreamWorkbook(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, StreamWorkbook(&buf, sampleWorkbookData()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	keyword, err := f.GetCellValue("Keywords", "A2")
	require.NoError(t, err)
	assert.Equal(t, "viral", keyword)
}
