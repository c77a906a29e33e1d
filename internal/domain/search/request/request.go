package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength  = 4096
	DefaultMinLimit = 1
	DefaultMaxLimit = 1000
)

// Limits bounds the result count of a request.
type Limits struct {
	Default int
	Min     int
	Max     int
}

// Request is a validated search query.
type Request struct {
	query      string
	searchMode mode.Mode
	limit      int
}

// New validates and normalizes search parameters.
// Fallback queries may be empty, which matches every document up to the
// limit; ranked queries must carry text.
// A nil limit takes lim.Default; a limit at or below zero is clamped up to
// lim.Min rather than rejected, and a limit above lim.Max is clamped down.
func New(query string, m mode.Mode, limit *int, lim Limits) (Request, error) {
	if m == "" {
		m = mode.Fallback
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("%w: invalid search mode %q", domain.ErrInvalidQuery, m)
	}
	if m == mode.Ranked && strings.TrimSpace(query) == "" {
		return Request{}, fmt.Errorf("%w: query is required for ranked search", domain.ErrInvalidQuery)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, MaxQueryLength)
	}

	lim = lim.normalize()
	n := lim.Default
	if limit != nil {
		n = *limit
	}
	if n < lim.Min {
		n = lim.Min
	}
	if n > lim.Max {
		n = lim.Max
	}

	return Request{query: query, searchMode: m, limit: n}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Mode returns the search strategy.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// Limit returns the maximum number of results.
func (r *Request) Limit() int { return r.limit }

func (l Limits) normalize() Limits {
	if l.Min <= 0 {
		l.Min = DefaultMinLimit
	}
	if l.Max <= 0 {
		l.Max = DefaultMaxLimit
	}
	if l.Max < l.Min {
		l.Max = l.Min
	}
	if l.Default <= 0 {
		l.Default = l.Min
	}
	if l.Default > l.Max {
		l.Default = l.Max
	}
	return l
}
