// Package services orchestrates the load/clean/aggregate pipeline behind
// the HTTP handlers and the analyze CLI.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"cordex/internal/analytics"
	"cordex/internal/config"
	"cordex/internal/dataset"
	"cordex/internal/infrastructure"
)

const (
	defaultSearchLimit = 100
	maxSearchLimit     = 500
)

// ExplorerService runs the analysis pipeline over the configured metadata
// dump. The loaded table is memoized keyed by file path and modification
// time, so dashboard interactions re-run aggregation but not the parse.
type ExplorerService struct {
	cfg     config.DatasetConfig
	logger  *slog.Logger
	metrics *infrastructure.Metrics
	cache   *gocache.Cache
}

// NewExplorerService creates an explorer service.
func NewExplorerService(cfg config.DatasetConfig, metrics *infrastructure.Metrics, logger *slog.Logger) *ExplorerService {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ExplorerService{
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "explorer_service")),
		metrics: metrics,
		cache:   gocache.New(ttl, 2*ttl),
	}
}

// Overview is the dashboard's headline view.
type Overview struct {
	Summary   analytics.Summary       `json:"summary"`
	Abstracts analytics.AbstractStats `json:"abstracts"`
	Dataset   string                  `json:"dataset"`
}

// Table returns the cleaned table, loading the file only when it is not
// cached or has changed on disk.
func (s *ExplorerService) Table(ctx context.Context) (*dataset.Table, error) {
	key, err := s.cacheKey()
	if err == nil {
		if cached, found := s.cache.Get(key); found {
			if s.metrics != nil {
				s.metrics.DatasetLoads.WithLabelValues("hit").Inc()
			}
			return cached.(*dataset.Table), nil
		}
	}

	start := time.Now()
	table, err := dataset.Load(s.cfg.Path, dataset.Options{RequiredColumns: s.cfg.RequiredColumns})
	if err != nil {
		if s.metrics != nil {
			s.metrics.DatasetLoads.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.DatasetLoads.WithLabelValues("miss").Inc()
		s.metrics.DatasetRowsDropped.Set(float64(table.Stats.RowsDropped))
	}

	s.logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", s.cfg.Path),
		slog.Int("records", table.Len()),
		slog.Int("rows_dropped", table.Stats.RowsDropped),
		slog.Int("rows_no_year", table.Stats.RowsNoYear),
		slog.Duration("duration", time.Since(start)))

	if key, err := s.cacheKey(); err == nil {
		s.cache.Set(key, table, gocache.DefaultExpiration)
	}
	return table, nil
}

// cacheKey derives the memoization key from the file path and mtime, so a
// rewritten dump invalidates the cached table.
func (s *ExplorerService) cacheKey() (string, error) {
	info, err := os.Stat(s.cfg.Path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s|%d", s.cfg.Path, info.ModTime().UnixNano()), nil
}

// Overview returns the summary statistics for the dashboard header.
func (s *ExplorerService) Overview(ctx context.Context) (*Overview, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	return &Overview{
		Summary:   analytics.Summarize(table),
		Abstracts: analytics.AbstractLengthStats(table),
		Dataset:   table.Path,
	}, nil
}

// Years returns publication counts per year, ascending.
func (s *ExplorerService) Years(ctx context.Context) ([]analytics.YearRow, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.CountByYear(table), nil
}

// Journals returns the top-k journals. k <= 0 uses the configured default.
func (s *ExplorerService) Journals(ctx context.Context, k int) ([]analytics.CountRow, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		k = s.cfg.TopJournals
	}
	return analytics.TopJournals(table, k), nil
}

// Sources returns the top-k sources. k <= 0 uses the configured default.
func (s *ExplorerService) Sources(ctx context.Context, k int) ([]analytics.CountRow, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		k = s.cfg.TopSources
	}
	return analytics.CountBySource(table, k), nil
}

// Keywords returns the top-k title keywords. k <= 0 uses the configured
// default.
func (s *ExplorerService) Keywords(ctx context.Context, k int) ([]analytics.CountRow, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		k = s.cfg.TopKeywords
	}
	return analytics.TitleWordFrequency(table, k, s.cfg.ExtraStopWords), nil
}

// SearchRequest filters records by free text, year and journal.
type SearchRequest struct {
	Query   string
	Year    int
	Journal string
	Limit   int
}

// SearchResult carries the matching records and the total match count
// before the limit was applied.
type SearchResult struct {
	Total  int              `json:"total"`
	Papers []dataset.Record `json:"papers"`
}

// Search returns records matching every given filter. The query matches
// titles and abstracts case-insensitively.
func (s *ExplorerService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	query := strings.ToLower(strings.TrimSpace(req.Query))
	result := &SearchResult{Papers: []dataset.Record{}}

	for _, rec := range table.Records {
		if req.Year != 0 && (rec.Year == nil || *rec.Year != req.Year) {
			continue
		}
		if req.Journal != "" && !strings.EqualFold(rec.Journal, req.Journal) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(rec.Title), query) &&
			!strings.Contains(strings.ToLower(rec.Abstract), query) {
			continue
		}
		result.Total++
		if len(result.Papers) < limit {
			result.Papers = append(result.Papers, rec)
		}
	}

	s.logger.DebugContext(ctx, "search completed",
		slog.String("query", req.Query),
		slog.Int("year", req.Year),
		slog.String("journal", req.Journal),
		slog.Int("total", result.Total))

	return result, nil
}
