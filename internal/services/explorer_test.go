package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cordex/internal/config"
	"cordex/internal/dataset"
)

const metadataCSV = `cord_uid,title,abstract,journal,publish_time,source_x
aaa,Viral pneumonia outcomes,Severe cases were reviewed,Nature,2020-01-10,PMC
bbb,Immune response in viral infection,Antibody titers were measured,Science,2019-06-01,WHO
ccc,Viral transmission dynamics,,Nature,2020-03-05,PMC
ddd,Hospital capacity planning,Bed occupancy models,Unknown Journal,bad-date,Elsevier
`

func newTestService(t *testing.T, csv string) (*ExplorerService, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	cfg := config.DatasetConfig{
		Path:        path,
		TopJournals: 15,
		TopSources:  10,
		TopKeywords: 25,
		CacheTTL:    time.Minute,
	}
	return NewExplorerService(cfg, nil, slog.Default()), path
}

func TestExplorerService_Overview(t *testing.T) {
	svc, path := newTestService(t, metadataCSV)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, path, overview.Dataset)
	assert.Equal(t, 4, overview.Summary.TotalPapers)
	assert.Equal(t, 3, overview.Summary.PapersWithAbstract)
	assert.Equal(t, 1, overview.Summary.RowsNoYear)
	require.NotNil(t, overview.Summary.EarliestYear)
	assert.Equal(t, 2019, *overview.Summary.EarliestYear)
	assert.Equal(t, 3, overview.Abstracts.Papers)
}

func TestExplorerService_Years(t *testing.T) {
	svc, _ := newTestService(t, metadataCSV)

	years, err := svc.Years(context.Background())
	require.NoError(t, err)

	require.Len(t, years, 2)
	assert.Equal(t, 2019, years[0].Year)
	assert.Equal(t, 1, years[0].Count)
	assert.Equal(t, 2020, years[1].Year)
	assert.Equal(t, 2, years[1].Count)
}

func TestExplorerService_JournalsDefaultK(t *testing.T) {
	svc, _ := newTestService(t, metadataCSV)

	journals, err := svc.Journals(context.Background(), 0)
	require.NoError(t, err)

	require.NotEmpty(t, journals)
	assert.Equal(t, "Nature", journals[0].Label)
	assert.Equal(t, 2, journals[0].Count)
}

func TestExplorerService_JournalsExplicitK(t *testing.T) {
	svc, _ := newTestService(t, metadataCSV)

	journals, err := svc.Journals(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, journals, 1)
}

func TestExplorerService_CachesTableByMtime(t *testing.T) {
	svc, path := newTestService(t, metadataCSV)
	ctx := context.Background()

	first, err := svc.Table(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, first.Len())

	again, err := svc.Table(ctx)
	require.NoError(t, err)
	assert.Same(t, first, again)

	// Rewriting the file with a newer mtime invalidates the cached table.
	smaller := "title,journal,publish_time,source_x\nSingle paper,Nature,2022,PMC\n"
	require.NoError(t, os.WriteFile(path, []byte(smaller), 0644))
	require.NoError(t, os.Chtimes(path, time.Now(), time.Now().Add(time.Second)))

	reloaded, err := svc.Table(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Len())
}

func TestExplorerService_MissingFile(t *testing.T) {
	cfg := config.DatasetConfig{Path: filepath.Join(t.TempDir(), "missing.csv")}
	svc := NewExplorerService(cfg, nil, slog.Default())

	_, err := svc.Table(context.Background())

	var accessErr *dataset.FileAccessError
	require.ErrorAs(t, err, &accessErr)
}

func TestExplorerService_Search(t *testing.T) {
	svc, _ := newTestService(t, metadataCSV)
	ctx := context.Background()

	tests := []struct {
		name      string
		req       SearchRequest
		wantTotal int
		wantFirst string
	}{
		{"query matches titles", SearchRequest{Query: "viral"}, 3, "Viral pneumonia outcomes"},
		{"query matches abstracts", SearchRequest{Query: "antibody"}, 1, "Immune response in viral infection"},
		{"year filter", SearchRequest{Year: 2020}, 2, "Viral pneumonia outcomes"},
		{"journal filter case-insensitive", SearchRequest{Journal: "nature"}, 2, "Viral pneumonia outcomes"},
		{"combined filters", SearchRequest{Query: "viral", Year: 2020, Journal: "Nature"}, 2, "Viral pneumonia outcomes"},
		{"no match", SearchRequest{Query: "zebrafish"}, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Search(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, result.Total)
			if tt.wantFirst != "" {
				require.NotEmpty(t, result.Papers)
				assert.Equal(t, tt.wantFirst, result.Papers[0].Title)
			} else {
				assert.Empty(t, result.Papers)
			}
		})
	}
}

func TestExplorerService_SearchLimit(t *testing.T) {
	svc, _ := newTestService(t, metadataCSV)

	result, err := svc.Search(context.Background(), SearchRequest{Limit: 1})
	require.NoError(t, err)

	// Total counts every match even when the page is capped.
	assert.Equal(t, 4, result.Total)
	assert.Len(t, result.Papers, 1)
}
