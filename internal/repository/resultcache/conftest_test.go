package resultcache

import (
	"context"
	"time"

	"github.com/kailas-cloud/docsearch/internal/db"
	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hash map[string]map[string]string
	ttls map[string]time.Duration

	pingErr    error
	replaceErr error
	hgetErr    error
	delErr     error
}

func newMockStore() *mockStore {
	return &mockStore{
		hash: make(map[string]map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockStore) Ping(_ context.Context) error { return m.pingErr }

func (m *mockStore) ReplaceHash(_ context.Context, key string, fields map[string]string, ttl time.Duration) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	delete(m.hash, key)
	if len(fields) == 0 {
		return nil
	}
	cp := make(map[string]string, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	m.hash[key] = cp
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) HGet(_ context.Context, key, field string) (string, error) {
	if m.hgetErr != nil {
		return "", m.hgetErr
	}
	v, ok := m.hash[key][field]
	if !ok {
		return "", db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) Del(_ context.Context, key string) error {
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.hash, key)
	return nil
}

func strp(s string) *string { return &s }

func sampleDocs() []domdoc.Document {
	return []domdoc.Document{
		domdoc.Reconstruct("a", domdoc.Fields{
			Title:    strp("Hello World"),
			Date:     strp("1985-03-15"),
			Location: strp("India - Pune"),
		}, []domdoc.Highlight{domdoc.NewHighlight("", domdoc.SyntheticScore, "hello", nil)}),
		domdoc.Reconstruct("b", domdoc.Fields{Content: strp("body")}, []domdoc.Highlight{
			domdoc.NewHighlight("content", 1.25, "a hit", []domdoc.Text{
				{Value: "a ", Type: "text"},
				{Value: "hit", Type: "hit"},
			}),
		}),
	}
}
