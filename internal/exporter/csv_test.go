package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cordex/internal/analytics"
)

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	err := w.WriteCSV("journals.csv", CountOptions("journal", []analytics.CountRow{
		{Label: "Nature", Count: 3},
		{Label: "Science", Count: 2},
	}))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "journals.csv"))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
	assert.Equal(t, "journal,count\nNature,3\nScience,2\n", string(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})))
}

func TestWriteCSV_CreatesNestedDirectory(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	err := w.WriteCSV(filepath.Join("reports", "sources.csv"), CountOptions("source", nil))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "reports", "sources.csv"))
	assert.NoError(t, err)
}

func TestWriteTo(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter("")

	err := w.WriteTo(&buf, YearOptions([]analytics.YearRow{
		{Year: 2019, Count: 1},
		{Year: 2020, Count: 4},
	}))
	require.NoError(t, err)

	got := bytes.TrimPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF})
	assert.Equal(t, "year,count\n2019,1\n2020,4\n", string(got))
}

func TestWriteTo_QuotesEmbeddedCommas(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter("")

	err := w.WriteTo(&buf, WriteOptions{
		Headers: []string{"journal", "count"},
		Records: [][]string{{"Cell Host, Microbe", "7"}},
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"Cell Host, Microbe",7`)
}
