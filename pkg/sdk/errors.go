package docsearch

import "github.com/kailas-cloud/docsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotConnected = domain.ErrNotConnected
	ErrNotFound     = domain.ErrNotFound
	ErrSearchFailed = domain.ErrSearchFailed
	ErrInvalidURI   = domain.ErrInvalidURI
	ErrInvalidQuery = domain.ErrInvalidQuery
)
