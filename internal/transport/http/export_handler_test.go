package http

import (
	"bytes"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"cordex/internal/analytics"
	"cordex/internal/dataset"
	apierrors "cordex/internal/errors"
)

func newExportServer(service StatsService) *httptest.Server {
	handler := NewExportHandler(service, slog.Default(), apierrors.NewErrorHandler(slog.Default(), false))
	return httptest.NewServer(handler.Routes())
}

func TestExportCSV(t *testing.T) {
	service := &stubStatsService{journals: []analytics.CountRow{
		{Label: "Nature", Count: 4},
		{Label: "Science", Count: 2},
	}}
	srv := newExportServer(service)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/csv/journals")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "cord19_journals.csv")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
	assert.Equal(t, "journal,count\nNature,4\nScience,2\n", body)
}

func TestExportCSV_Years(t *testing.T) {
	srv := newExportServer(&stubStatsService{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/csv/years")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "year,count")
	assert.Contains(t, string(data), "2019,1")
}

func TestExportCSV_UnknownAggregate(t *testing.T) {
	srv := newExportServer(&stubStatsService{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/csv/authors")
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, apierrors.TypeValidation, body["type"])
}

func TestExportCSV_DatasetUnavailable(t *testing.T) {
	service := &stubStatsService{err: &dataset.FileAccessError{Path: "metadata.csv", Err: fs.ErrNotExist}}
	srv := newExportServer(service)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/csv/years")
	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp.Body.Close()
}

func TestExportXLSX(t *testing.T) {
	service := &stubStatsService{journals: []analytics.CountRow{{Label: "Nature", Count: 4}}}
	srv := newExportServer(service)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/xlsx")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "cord19_aggregates.xlsx")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Years")
	assert.Contains(t, f.GetSheetList(), "Journals")
}
