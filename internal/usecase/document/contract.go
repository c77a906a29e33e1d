package document

import (
	"context"

	"github.com/kailas-cloud/docsearch/internal/db"
	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	"github.com/kailas-cloud/docsearch/internal/domain/record"
)

// StoreProvider yields the current store handle.
type StoreProvider interface {
	Current() (db.Store, error)
}

// Formatter normalizes raw records.
type Formatter interface {
	Format(raw record.Record, query string) domdoc.Document
}

// ResultCache serves documents of the latest search by id.
type ResultCache interface {
	Get(ctx context.Context, id string) (domdoc.Document, bool, error)
}
