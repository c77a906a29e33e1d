package resultcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/docsearch/internal/db"
	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
)

const resultsKey = "results"

// store is the consumer interface for the shared cache (ISP).
type store interface {
	Ping(ctx context.Context) error
	ReplaceHash(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error
	HGet(ctx context.Context, key, field string) (string, error)
	Del(ctx context.Context, key string) error
}

// Redis keeps the latest result set in a single hash so every gateway
// replica serves the same documents by id.
type Redis struct {
	store store
	key   string
	ttl   time.Duration
}

// NewRedis creates a hash-backed cache. A zero ttl keeps the hash until the
// next search replaces it.
func NewRedis(s store, keyPrefix string, ttl time.Duration) *Redis {
	return &Redis{store: s, key: keyPrefix + resultsKey, ttl: ttl}
}

// Key returns the hash key.
func (r *Redis) Key() string { return r.key }

// Clear deletes the hash.
func (r *Redis) Clear(ctx context.Context) error {
	if err := r.store.Del(ctx, r.key); err != nil {
		return fmt.Errorf("clear %s: %w", r.key, err)
	}
	return nil
}

// Replace atomically swaps the hash contents for docs.
func (r *Redis) Replace(ctx context.Context, docs []domdoc.Document) error {
	fields := make(map[string]string, len(docs))
	for i := range docs {
		v, err := encodeDoc(&docs[i])
		if err != nil {
			return err
		}
		fields[docs[i].ID()] = v
	}
	if err := r.store.ReplaceHash(ctx, r.key, fields, r.ttl); err != nil {
		return fmt.Errorf("replace %s: %w", r.key, err)
	}
	return nil
}

// Get returns the cached document for id.
func (r *Redis) Get(ctx context.Context, id string) (domdoc.Document, bool, error) {
	raw, err := r.store.HGet(ctx, r.key, id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domdoc.Document{}, false, nil
		}
		return domdoc.Document{}, false, fmt.Errorf("hget %s: %w", r.key, err)
	}
	doc, err := decodeDoc(raw)
	if err != nil {
		return domdoc.Document{}, false, err
	}
	return doc, true, nil
}

// Ping checks the backing store.
func (r *Redis) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}
