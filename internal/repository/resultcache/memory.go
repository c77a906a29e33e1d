package resultcache

import (
	"context"
	"sync"

	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
)

// Memory is a process-local result cache.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]domdoc.Document
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]domdoc.Document)}
}

// Clear drops all cached documents.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.docs = make(map[string]domdoc.Document)
	m.mu.Unlock()
	return nil
}

// Replace swaps the cache contents for docs keyed by id.
// A later document with a duplicate id wins.
func (m *Memory) Replace(_ context.Context, docs []domdoc.Document) error {
	next := make(map[string]domdoc.Document, len(docs))
	for i := range docs {
		next[docs[i].ID()] = docs[i]
	}
	m.mu.Lock()
	m.docs = next
	m.mu.Unlock()
	return nil
}

// Get returns the cached document for id.
func (m *Memory) Get(_ context.Context, id string) (domdoc.Document, bool, error) {
	m.mu.RLock()
	doc, ok := m.docs[id]
	m.mu.RUnlock()
	return doc, ok, nil
}

// Len reports the number of cached documents.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// Ping always succeeds.
func (m *Memory) Ping(_ context.Context) error { return nil }
