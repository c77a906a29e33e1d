package document

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/db"
	"github.com/kailas-cloud/docsearch/internal/domain"
	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	"github.com/kailas-cloud/docsearch/internal/logger"
	"github.com/kailas-cloud/docsearch/internal/metrics"
)

// Service fetches single documents, preferring the latest search results.
type Service struct {
	conn      StoreProvider
	formatter Formatter
	cache     ResultCache
}

// New creates a document service.
func New(conn StoreProvider, formatter Formatter, cache ResultCache) *Service {
	return &Service{conn: conn, formatter: formatter, cache: cache}
}

// Get returns the document with id. A cache hit never touches the store.
// Store hits are formatted without query context and are not cached.
func (s *Service) Get(ctx context.Context, id string) (domdoc.Document, error) {
	log := logger.FromContext(ctx).With(zap.String("id", id))

	doc, ok, err := s.cache.Get(ctx, id)
	switch {
	case err != nil:
		metrics.ResultCacheTotal.WithLabelValues(metrics.CacheError).Inc()
		log.Warn("[GET] result cache lookup", zap.Error(err))
	case ok:
		metrics.ResultCacheTotal.WithLabelValues(metrics.CacheHit).Inc()
		log.Debug("[GET] served from result cache")
		return doc, nil
	default:
		metrics.ResultCacheTotal.WithLabelValues(metrics.CacheMiss).Inc()
	}

	store, err := s.conn.Current()
	if err != nil {
		return domdoc.Document{}, err
	}

	raw, err := store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNoDocument) {
			return domdoc.Document{}, domain.ErrNotFound
		}
		log.Error("[GET] store error", zap.Error(err))
		return domdoc.Document{}, fmt.Errorf("find document %s: %w", id, err)
	}
	return s.formatter.Format(raw, ""), nil
}
