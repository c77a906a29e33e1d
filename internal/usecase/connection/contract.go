package connection

import (
	"context"

	"github.com/kailas-cloud/docsearch/internal/db"
)

// Dialer opens store handles.
type Dialer interface {
	Dial(ctx context.Context, target db.Target) (db.Store, error)
}
