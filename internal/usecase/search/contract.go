package search

import (
	"context"

	"github.com/kailas-cloud/docsearch/internal/db"
	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	"github.com/kailas-cloud/docsearch/internal/domain/record"
	"github.com/kailas-cloud/docsearch/internal/domain/search/request"
)

// StoreProvider yields the current store handle.
type StoreProvider interface {
	Current() (db.Store, error)
}

// Planner turns requests into store plans.
type Planner interface {
	Plan(req *request.Request) db.Plan
}

// Formatter normalizes raw records.
type Formatter interface {
	Format(raw record.Record, query string) domdoc.Document
}

// ResultCache holds the documents of the latest search.
type ResultCache interface {
	Clear(ctx context.Context) error
	Replace(ctx context.Context, docs []domdoc.Document) error
}
