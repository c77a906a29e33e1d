package db

import (
	"context"
	"time"

	"github.com/kailas-cloud/docsearch/internal/domain/record"
	"github.com/kailas-cloud/docsearch/internal/domain/search/mode"
)

// Target names the deployment and the database/collection pair a store
// handle is bound to.
type Target struct {
	URI        string
	Database   string
	Collection string
}

// Plan is a store-specific query plan built for one search request.
type Plan interface {
	Mode() mode.Mode
	Limit() int
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher executes query plans. Records come back in the store's native order.
type Searcher interface {
	Execute(ctx context.Context, plan Plan) ([]record.Record, error)
}

// Finder looks up a single record by identifier.
// Returns ErrNoDocument when nothing matches.
type Finder interface {
	FindByID(ctx context.Context, id string) (record.Record, error)
}

// Store is a live document-store handle bound to one collection.
type Store interface {
	Pinger
	Searcher
	Finder
	ServerVersion(ctx context.Context) (string, error)
	Close(ctx context.Context) error
}

// Dialer opens store handles.
type Dialer interface {
	Dial(ctx context.Context, target Target) (Store, error)
}

// HashStore provides the hash operations behind the shared result cache.
type HashStore interface {
	Pinger
	// ReplaceHash drops key and writes fields into it in one round-trip.
	// ttl <= 0 leaves the key without expiry.
	ReplaceHash(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error
	// HGet returns ErrKeyNotFound when the key or field is missing.
	HGet(ctx context.Context, key, field string) (string, error)
	Del(ctx context.Context, key string) error
	Close()
}
