package docsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbMongo "github.com/kailas-cloud/docsearch/internal/db/mongo"
	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	"github.com/kailas-cloud/docsearch/internal/domain/fieldmap"
	"github.com/kailas-cloud/docsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/docsearch/internal/domain/search/request"
	"github.com/kailas-cloud/docsearch/internal/repository/resultcache"
	connectionuc "github.com/kailas-cloud/docsearch/internal/usecase/connection"
	documentuc "github.com/kailas-cloud/docsearch/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/docsearch/internal/usecase/search"
)

const (
	defaultSearchIndex = "default"
	defaultDatabase    = "test"
	defaultCollection  = "teachings"
)

type connUseCase interface {
	Connect(ctx context.Context, uri, database, collection string) (string, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type searchUseCase interface {
	Search(ctx context.Context, p searchuc.Params) ([]domdoc.Document, error)
}

type documentUseCase interface {
	Get(ctx context.Context, id string) (domdoc.Document, error)
}

// Client is the docsearch SDK entry point. Safe for concurrent use; like
// the gateway, the latest Search of any goroutine defines what Get serves
// from memory.
type Client struct {
	conn      connUseCase
	searchSvc searchUseCase
	docSvc    documentUseCase
	healthSvc healthUseCase
	version   string
	obs       *observer
}

// New creates a Client and connects to MongoDB.
// The provided context bounds the initial connection and ping.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.uri == "" {
		return nil, errors.New("docsearch: connection string required (use WithMongo)")
	}
	return connect(ctx, cfg, nil)
}

// connect wires the client; a nil dialer selects the MongoDB driver.
func connect(ctx context.Context, cfg *clientConfig, dialer connectionuc.Dialer) (*Client, error) {
	if cfg.searchIndex == "" {
		cfg.searchIndex = defaultSearchIndex
	}
	if cfg.database == "" {
		cfg.database = defaultDatabase
	}
	if cfg.collection == "" {
		cfg.collection = defaultCollection
	}
	if cfg.profile == "" {
		cfg.profile = fieldmap.ProfileTeachings
	}

	fields, err := fieldmap.Profile(cfg.profile)
	if err != nil {
		return nil, fmt.Errorf("docsearch: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	planner := dbMongo.NewPlanner(cfg.searchIndex, fields).WithRawPattern(cfg.rawPattern)
	formatter := domdoc.NewFormatter(fields)
	if obs.logger != nil {
		formatter.OnDecodeSkipped(func(id string, err error) {
			obs.logger.Debug("date code skipped", "id", id, "error", err)
		})
	}
	if dialer == nil {
		dialer = dbMongo.NewDialer(planner)
	}

	cache := resultcache.NewMemory()
	connSvc := connectionuc.New(dialer, cfg.database, cfg.collection)

	limits := request.Limits{Default: fields.DefaultLimit, Min: cfg.minLimit, Max: cfg.maxLimit}
	c := &Client{
		conn:      connSvc,
		searchSvc: searchuc.New(connSvc, planner, formatter, cache, limits),
		docSvc:    documentuc.New(connSvc, formatter, cache),
		healthSvc: healthuc.New(connSvc, cache),
		obs:       obs,
	}

	start := time.Now()
	c.version, err = connSvc.Connect(ctx, cfg.uri, "", "")
	obs.observe("connect", start, err)
	if err != nil {
		return nil, fmt.Errorf("docsearch: %w", err)
	}
	return c, nil
}

// ServerVersion reports the MongoDB version seen at connect time.
func (c *Client) ServerVersion() string { return c.version }

// Search runs a fallback substring search, or a ranked one with Ranked().
// An empty fallback query matches every document up to the limit.
func (c *Client) Search(ctx context.Context, query string, opts ...SearchOption) (docs []Document, err error) {
	var sc searchConfig
	for _, o := range opts {
		o(&sc)
	}
	m := mode.FromHybridFlag(sc.ranked)

	start := time.Now()
	defer func() { c.obs.observe("search", start, err, "mode", string(m), "results", len(docs)) }()

	found, err := c.searchSvc.Search(ctx, searchuc.Params{Query: query, Mode: m, Limit: sc.limit})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	docs = make([]Document, len(found))
	for i := range found {
		docs[i] = documentFromDomain(&found[i])
	}
	return docs, nil
}

// Get returns a document by id, from the latest search results when possible.
func (c *Client) Get(ctx context.Context, id string) (doc Document, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get", start, err, "id", id) }()

	d, err := c.docSvc.Get(ctx, id)
	if err != nil {
		return Document{}, fmt.Errorf("get %s: %w", id, err)
	}
	return documentFromDomain(&d), nil
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.conn.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (c *Client) Close(ctx context.Context) error {
	if err := c.conn.Close(ctx); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}
