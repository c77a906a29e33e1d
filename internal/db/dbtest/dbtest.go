// Package dbtest provides an in-memory db.Store for tests. It evaluates
// fallback plans against seeded records and returns canned results for
// ranked plans.
package dbtest

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/kailas-cloud/docsearch/internal/db"
	"github.com/kailas-cloud/docsearch/internal/db/mongo"
	"github.com/kailas-cloud/docsearch/internal/domain/record"
)

// Compile-time checks.
var (
	_ db.Store  = (*Store)(nil)
	_ db.Dialer = (*Dialer)(nil)
)

// Store is a fake store handle. Zero value is usable.
type Store struct {
	mu sync.Mutex

	// Records are matched by fallback plans and by FindByID.
	Records []record.Record
	// Ranked is returned verbatim (truncated to the plan limit) for ranked plans.
	Ranked []record.Record
	// IDField is matched by FindByID in addition to _id.
	IDField string
	Version string

	PingErr    error
	ExecuteErr error
	FindErr    error

	executeCalls int
	findCalls    int
	closed       bool
}

// Ping returns PingErr, or an error once closed.
func (s *Store) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("client is disconnected")
	}
	return s.PingErr
}

// ServerVersion returns Version.
func (s *Store) ServerVersion(_ context.Context) (string, error) {
	if s.Version == "" {
		return "7.0.0", nil
	}
	return s.Version, nil
}

// Execute evaluates plan.
func (s *Store) Execute(_ context.Context, plan db.Plan) ([]record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executeCalls++
	if s.ExecuteErr != nil {
		return nil, s.ExecuteErr
	}

	var out []record.Record
	switch p := plan.(type) {
	case *mongo.RankedPlan:
		out = append(out, s.Ranked...)
	case *mongo.FallbackPlan:
		re, err := regexp.Compile("(?i)" + p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("$regex: %w", err)
		}
		for _, r := range s.Records {
			if matches(r, re, p.Paths) {
				out = append(out, r)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %T", db.ErrUnsupportedPlan, plan)
	}

	if len(out) > plan.Limit() {
		out = out[:plan.Limit()]
	}
	return out, nil
}

// FindByID matches _id, then IDField.
func (s *Store) FindByID(_ context.Context, id string) (record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findCalls++
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	for _, r := range s.Records {
		if r.ID() == id {
			return r, nil
		}
		if s.IDField != "" {
			if v, ok := r.String(s.IDField); ok && v == id {
				return r, nil
			}
		}
	}
	return nil, db.ErrNoDocument
}

// Close marks the store closed.
func (s *Store) Close(_ context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Closed reports whether Close was called.
func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// ExecuteCalls reports how many plans were executed.
func (s *Store) ExecuteCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.executeCalls
}

// FindCalls reports how many lookups hit the store.
func (s *Store) FindCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findCalls
}

func matches(r record.Record, re *regexp.Regexp, paths []string) bool {
	for _, p := range paths {
		if v, ok := r.String(p); ok && re.MatchString(v) {
			return true
		}
	}
	return false
}

// Dialer hands out Stores in order. Once exhausted it keeps returning the last one.
type Dialer struct {
	mu      sync.Mutex
	Stores  []*Store
	Err     error
	Targets []db.Target
}

// Dial records target and returns the next Store.
func (d *Dialer) Dial(_ context.Context, target db.Target) (db.Store, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Targets = append(d.Targets, target)
	if d.Err != nil {
		return nil, d.Err
	}
	if len(d.Stores) == 0 {
		return nil, errors.New("dbtest: no stores configured")
	}
	s := d.Stores[0]
	if len(d.Stores) > 1 {
		d.Stores = d.Stores[1:]
	}
	return s, nil
}
