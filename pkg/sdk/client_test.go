package docsearch

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/docsearch/internal/db/dbtest"
	"github.com/kailas-cloud/docsearch/internal/domain/record"
)

func newTestClient(t *testing.T, store *dbtest.Store, opts ...Option) *Client {
	t.Helper()
	cfg := &clientConfig{uri: "mongodb://localhost:27017"}
	for _, o := range opts {
		o.apply(cfg)
	}
	c, err := connect(context.Background(), cfg, &dbtest.Dialer{Stores: []*dbtest.Store{store}})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	return c
}

func seededStore() *dbtest.Store {
	return &dbtest.Store{
		Version: "7.0.12",
		IDField: "id",
		Records: []record.Record{
			{"_id": "a1", "title": "Letting go", "content": "on attachment", "url": "https://x/a1"},
			{"_id": "a2", "title": "Silence", "content": "let it be", "id": "talk-2"},
			{"_id": "a3", "title": "Unrelated", "content": "nothing"},
		},
	}
}

func TestNew_RequiresURI(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error without WithMongo")
	}
}

func TestNew_RejectsBadScheme(t *testing.T) {
	_, err := New(context.Background(), WithMongo("http://localhost", "db", "coll"))
	if !errors.Is(err, ErrInvalidURI) {
		t.Fatalf("expected ErrInvalidURI, got %v", err)
	}
}

func TestConnect_UnknownProfile(t *testing.T) {
	cfg := &clientConfig{uri: "mongodb://localhost", profile: "nope"}
	if _, err := connect(context.Background(), cfg, &dbtest.Dialer{}); err == nil {
		t.Fatal("expected unknown profile error")
	}
}

func TestConnect_Defaults(t *testing.T) {
	dialer := &dbtest.Dialer{Stores: []*dbtest.Store{seededStore()}}
	c, err := connect(context.Background(), &clientConfig{uri: "mongodb://h"}, dialer)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if c.ServerVersion() != "7.0.12" {
		t.Errorf("version = %q, want 7.0.12", c.ServerVersion())
	}
	if len(dialer.Targets) != 1 {
		t.Fatalf("dials = %d, want 1", len(dialer.Targets))
	}
	got := dialer.Targets[0]
	if got.Database != defaultDatabase || got.Collection != defaultCollection {
		t.Errorf("target = %s/%s, want %s/%s", got.Database, got.Collection, defaultDatabase, defaultCollection)
	}
}

func TestConnect_DialFailure(t *testing.T) {
	dialer := &dbtest.Dialer{Err: errors.New("connection refused")}
	_, err := connect(context.Background(), &clientConfig{uri: "mongodb://h"}, dialer)
	if err == nil {
		t.Fatal("expected dial error")
	}
}

func TestClient_SearchFallback(t *testing.T) {
	c := newTestClient(t, seededStore())

	docs, err := c.Search(context.Background(), "let")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d docs, want 2", len(docs))
	}
	if docs[0].ID != "a1" || docs[1].ID != "a2" {
		t.Errorf("ids = %s,%s, want a1,a2", docs[0].ID, docs[1].ID)
	}
	if docs[0].Title == nil || *docs[0].Title != "Letting go" {
		t.Errorf("title = %v, want Letting go", docs[0].Title)
	}
	if len(docs[0].Highlights) == 0 {
		t.Error("expected query-derived highlight in fallback mode")
	}
}

func TestClient_SearchLimit(t *testing.T) {
	c := newTestClient(t, seededStore())

	docs, err := c.Search(context.Background(), "let", Limit(1))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("got %d docs, want 1", len(docs))
	}
}

func TestClient_SearchRanked(t *testing.T) {
	store := seededStore()
	store.Ranked = []record.Record{
		{"_id": "r1", "title": "Ranked first", "score": 2.5},
		{"_id": "r2", "title": "Ranked second", "score": 1.0},
	}
	c := newTestClient(t, store)

	docs, err := c.Search(context.Background(), "anything", Ranked())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "r1" {
		t.Fatalf("unexpected ranked results: %+v", docs)
	}
}

func TestClient_SearchEmptyQuery(t *testing.T) {
	store := seededStore()
	c := newTestClient(t, store)
	ctx := context.Background()

	docs, err := c.Search(ctx, "")
	if err != nil {
		t.Fatalf("empty fallback query: %v", err)
	}
	if len(docs) != 3 {
		t.Errorf("got %d docs, want all 3", len(docs))
	}

	calls := store.ExecuteCalls()
	_, err = c.Search(ctx, "   ", Ranked())
	if !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
	if store.ExecuteCalls() != calls {
		t.Errorf("rejected query reached the store")
	}
	if _, err := c.Get(ctx, "a3"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if store.FindCalls() != 1 {
		t.Errorf("find calls = %d, want 1 (results cleared by the rejected search)", store.FindCalls())
	}
}

func TestClient_SearchStoreError(t *testing.T) {
	store := seededStore()
	store.ExecuteErr = errors.New("index not found")
	c := newTestClient(t, store)

	_, err := c.Search(context.Background(), "let")
	if !errors.Is(err, ErrSearchFailed) {
		t.Fatalf("expected ErrSearchFailed, got %v", err)
	}
}

func TestClient_GetServedFromLatestSearch(t *testing.T) {
	store := seededStore()
	c := newTestClient(t, store)
	ctx := context.Background()

	if _, err := c.Search(ctx, "let"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	doc, err := c.Get(ctx, "a2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.ID != "a2" {
		t.Errorf("id = %q, want a2", doc.ID)
	}
	if store.FindCalls() != 0 {
		t.Errorf("find calls = %d, want 0 (cache hit)", store.FindCalls())
	}
}

func TestClient_GetFallsBackToStore(t *testing.T) {
	store := seededStore()
	c := newTestClient(t, store)

	doc, err := c.Get(context.Background(), "talk-2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.ID != "a2" {
		t.Errorf("id = %q, want a2", doc.ID)
	}
	if store.FindCalls() != 1 {
		t.Errorf("find calls = %d, want 1", store.FindCalls())
	}
}

func TestClient_GetNotFound(t *testing.T) {
	c := newTestClient(t, seededStore())

	_, err := c.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_CloseThenUse(t *testing.T) {
	store := seededStore()
	c := newTestClient(t, store)
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := c.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !store.Closed() {
		t.Error("expected store to be closed")
	}
	if err := c.Ping(ctx); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Ping after close = %v, want ErrNotConnected", err)
	}
	if _, err := c.Search(ctx, "let"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Search after close = %v, want ErrNotConnected", err)
	}
}

func TestClient_Health(t *testing.T) {
	c := newTestClient(t, seededStore())
	ctx := context.Background()

	h := c.Health(ctx)
	if h.Status != "ok" {
		t.Errorf("status = %q, want ok", h.Status)
	}
	_ = c.Close(ctx)
	h = c.Health(ctx)
	if h.Status != "degraded" {
		t.Errorf("status after close = %q, want degraded", h.Status)
	}
	if h.Checks["database"] != "error" {
		t.Errorf("database check = %q, want error", h.Checks["database"])
	}
}

func TestClient_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newTestClient(t, seededStore(), WithPrometheus(reg))
	ctx := context.Background()

	_, _ = c.Search(ctx, "let")
	_, _ = c.Get(ctx, "missing")

	ops := c.obs.metrics.operations
	if got := testutil.ToFloat64(ops.WithLabelValues("connect", "ok")); got != 1 {
		t.Errorf("connect ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(ops.WithLabelValues("search", "ok")); got != 1 {
		t.Errorf("search ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(ops.WithLabelValues("get", "not_found")); got != 1 {
		t.Errorf("get not_found = %v, want 1", got)
	}
}

func TestOptions(t *testing.T) {
	cfg := &clientConfig{}
	WithMongo("mongodb://h", "db", "coll").apply(cfg)
	if cfg.uri != "mongodb://h" || cfg.database != "db" || cfg.collection != "coll" {
		t.Errorf("mongo = %q %q %q", cfg.uri, cfg.database, cfg.collection)
	}

	WithSearchIndex("talks").apply(cfg)
	WithFieldProfile("articles").apply(cfg)
	WithRawPattern(true).apply(cfg)
	WithLimits(2, 50).apply(cfg)
	if cfg.searchIndex != "talks" || cfg.profile != "articles" || !cfg.rawPattern {
		t.Errorf("unexpected cfg: %+v", cfg)
	}
	if cfg.minLimit != 2 || cfg.maxLimit != 50 {
		t.Errorf("limits = (%d, %d), want (2, 50)", cfg.minLimit, cfg.maxLimit)
	}

	logger := slog.Default()
	WithLogger(logger).apply(cfg)
	if cfg.logger != logger {
		t.Error("expected logger to be set")
	}

	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cfg)
	if cfg.metricsReg != reg {
		t.Error("expected metricsReg to be set")
	}

	var sc searchConfig
	Ranked()(&sc)
	Limit(7)(&sc)
	if !sc.ranked || sc.limit == nil || *sc.limit != 7 {
		t.Errorf("unexpected search cfg: %+v", sc)
	}
}

func TestObserver_NilSafe(t *testing.T) {
	var obs *observer
	obs.observe("test", time.Now(), nil)
	obs.observe("test", time.Now(), errors.New("err"))
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second newObserver: %v", err)
	}
	second.observe("search", time.Now(), nil)
	if got := testutil.ToFloat64(first.metrics.operations.WithLabelValues("search", "ok")); got != 1 {
		t.Errorf("shared counter = %v, want 1", got)
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{ErrNotConnected, "not_connected"},
		{ErrNotFound, "not_found"},
		{ErrInvalidQuery, "invalid"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := statusOf(tt.err); got != tt.want {
			t.Errorf("statusOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
