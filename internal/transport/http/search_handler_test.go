package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cordex/internal/dataset"
	apierrors "cordex/internal/errors"
	"cordex/internal/services"
)

type stubSearchService struct {
	lastReq services.SearchRequest
	result  *services.SearchResult
	err     error
}

func (s *stubSearchService) Search(ctx context.Context, req services.SearchRequest) (*services.SearchResult, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &services.SearchResult{Papers: []dataset.Record{}}, nil
}

func newSearchServer(service SearchService) *httptest.Server {
	handler := NewSearchHandler(service, slog.Default(), apierrors.NewErrorHandler(slog.Default(), false))
	return httptest.NewServer(handler.Routes())
}

func TestSearch(t *testing.T) {
	service := &stubSearchService{result: &services.SearchResult{
		Total:  2,
		Papers: []dataset.Record{{Title: "Viral pneumonia"}, {Title: "Viral spread"}},
	}}
	srv := newSearchServer(service)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/?q=viral&year=2020&journal=Nature&limit=50")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, services.SearchRequest{
		Query:   "viral",
		Year:    2020,
		Journal: "Nature",
		Limit:   50,
	}, service.lastReq)

	body := decodeBody(t, resp)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(2), body["count"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total"])
}

func TestSearch_NoFilters(t *testing.T) {
	service := &stubSearchService{}
	srv := newSearchServer(service)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	assert.Equal(t, services.SearchRequest{}, service.lastReq)
}

func TestSearch_InvalidParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"bad year", "?year=abc"},
		{"year out of range", "?year=99"},
		{"bad limit", "?limit=zero"},
		{"negative limit", "?limit=-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newSearchServer(&stubSearchService{})
			defer srv.Close()

			resp, err := http.Get(srv.URL + "/" + tt.query)
			require.NoError(t, err)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)

			body := decodeBody(t, resp)
			assert.Equal(t, apierrors.TypeValidation, body["type"])
		})
	}
}
