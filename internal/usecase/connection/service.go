package connection

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/db"
	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/logger"
)

var uriSchemes = []string{"mongodb://", "mongodb+srv://"}

// Service owns the single store handle shared by every request.
type Service struct {
	dialer Dialer

	// connectMu serializes Connect calls; mu guards the fields below and is
	// never held across a store round-trip.
	connectMu  sync.Mutex
	mu         sync.RWMutex
	store      db.Store
	database   string
	collection string
}

// New creates a connection manager. database and collection are the
// defaults used until a Connect call names others.
func New(dialer Dialer, database, collection string) *Service {
	return &Service{dialer: dialer, database: database, collection: collection}
}

// Connect replaces the store handle. The previous handle is detached and
// closed before dialing; while the dial runs, and after a failed one, the
// gateway reports itself disconnected.
// Empty database or collection keep the previously configured names.
func (s *Service) Connect(ctx context.Context, uri, database, collection string) (string, error) {
	log := logger.FromContext(ctx)

	if !validURI(uri) {
		return "", fmt.Errorf("%w: must start with mongodb:// or mongodb+srv://", domain.ErrInvalidURI)
	}

	s.connectMu.Lock()
	defer s.connectMu.Unlock()

	s.mu.Lock()
	prev := s.store
	s.store = nil
	if database != "" {
		s.database = database
	}
	if collection != "" {
		s.collection = collection
	}
	target := db.Target{URI: uri, Database: s.database, Collection: s.collection}
	s.mu.Unlock()

	if prev != nil {
		log.Info("[CONNECT] closing existing connection")
		if err := prev.Close(ctx); err != nil {
			log.Warn("[CONNECT] close previous handle", zap.Error(err))
		}
	}

	log.Info("[CONNECT] dialing",
		zap.String("database", target.Database),
		zap.String("collection", target.Collection),
	)
	store, err := s.dialer.Dial(ctx, target)
	if err != nil {
		log.Error("[CONNECT] dial failed", zap.Error(err))
		return "", fmt.Errorf("connect: %w", err)
	}

	version, err := store.ServerVersion(ctx)
	if err != nil {
		_ = store.Close(ctx)
		log.Error("[CONNECT] server version", zap.Error(err))
		return "", fmt.Errorf("server version: %w", err)
	}

	s.mu.Lock()
	s.store = store
	s.mu.Unlock()

	log.Info("[CONNECT] connected", zap.String("version", version))
	return version, nil
}

// Status reports whether a handle is set and answers a ping.
func (s *Service) Status(ctx context.Context) bool {
	store, err := s.Current()
	if err != nil {
		return false
	}
	if err := store.Ping(ctx); err != nil {
		logger.FromContext(ctx).Warn("[STATUS] ping failed", zap.Error(err))
		return false
	}
	return true
}

// Ping is Status for health checks: it returns the failure cause.
func (s *Service) Ping(ctx context.Context) error {
	store, err := s.Current()
	if err != nil {
		return err
	}
	return store.Ping(ctx)
}

// Current returns the live handle.
func (s *Service) Current() (db.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil, domain.ErrNotConnected
	}
	return s.store, nil
}

// Target reports the database and collection the next dial will use.
func (s *Service) Target() (database, collection string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.database, s.collection
}

// Close releases the handle, if any.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	store := s.store
	s.store = nil
	s.mu.Unlock()

	if store == nil {
		return nil
	}
	if err := store.Close(ctx); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

func validURI(uri string) bool {
	for _, p := range uriSchemes {
		if strings.HasPrefix(uri, p) {
			return true
		}
	}
	return false
}
