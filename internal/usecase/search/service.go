package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/domain"
	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	"github.com/kailas-cloud/docsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/docsearch/internal/domain/search/request"
	"github.com/kailas-cloud/docsearch/internal/logger"
	"github.com/kailas-cloud/docsearch/internal/metrics"
)

// Params are the unvalidated parameters of one search call.
type Params struct {
	Query string
	Mode  mode.Mode
	Limit *int
}

// Service runs searches and keeps the result cache in step with the
// latest result list.
type Service struct {
	conn      StoreProvider
	planner   Planner
	formatter Formatter
	cache     ResultCache
	limits    request.Limits
}

// New creates a search service. limits bound the per-search result count.
func New(conn StoreProvider, planner Planner, formatter Formatter, cache ResultCache, limits request.Limits) *Service {
	return &Service{conn: conn, planner: planner, formatter: formatter, cache: cache, limits: limits}
}

// ClearResults empties the result cache. Failures are logged and counted,
// not returned.
func (s *Service) ClearResults(ctx context.Context) {
	if err := s.cache.Clear(ctx); err != nil {
		metrics.ResultCacheTotal.WithLabelValues(metrics.CacheError).Inc()
		logger.FromContext(ctx).Warn("[SEARCH] clear result cache", zap.Error(err))
	}
}

// Search validates p and returns the formatted documents in store order.
// The cache is cleared before anything else, so a rejected or failed search
// leaves it empty. A failed search never returns partial results.
func (s *Service) Search(ctx context.Context, p Params) ([]domdoc.Document, error) {
	s.ClearResults(ctx)

	req, err := request.New(p.Query, p.Mode, p.Limit, s.limits)
	if err != nil {
		metrics.ObserveSearch(modeLabel(p.Mode), metrics.StatusInvalid, 0)
		return nil, err
	}

	m := req.Mode()
	log := logger.FromContext(ctx).With(zap.String("mode", string(m)))

	store, err := s.conn.Current()
	if err != nil {
		metrics.ObserveSearch(string(m), metrics.StatusNotConnected, 0)
		return nil, err
	}

	plan := s.planner.Plan(&req)
	log.Debug("[SEARCH] executing",
		zap.String("query", req.Query()),
		zap.Int("limit", plan.Limit()),
	)

	start := time.Now()
	records, err := store.Execute(ctx, plan)
	elapsed := time.Since(start)
	if err != nil {
		metrics.ObserveSearch(string(m), metrics.StatusError, elapsed)
		log.Error("[SEARCH] store error", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
	}

	// Store highlights exist only in ranked mode; fallback results carry
	// the query as a synthetic highlight instead.
	var query string
	if m == mode.Fallback {
		query = req.Query()
	}

	docs := make([]domdoc.Document, len(records))
	for i, r := range records {
		docs[i] = s.formatter.Format(r, query)
	}

	if err := s.cache.Replace(ctx, docs); err != nil {
		metrics.ResultCacheTotal.WithLabelValues(metrics.CacheError).Inc()
		log.Warn("[SEARCH] write result cache", zap.Error(err))
	}

	metrics.ObserveSearch(string(m), metrics.StatusOK, elapsed)
	log.Info("[SEARCH] done",
		zap.Int("results", len(docs)),
		zap.Duration("elapsed", elapsed),
	)
	return docs, nil
}

// modeLabel keeps the metrics label set closed for unknown modes.
func modeLabel(m mode.Mode) string {
	switch {
	case m == "":
		return string(mode.Fallback)
	case m.IsValid():
		return string(m)
	default:
		return "unknown"
	}
}
