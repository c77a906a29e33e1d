package connection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/docsearch/internal/db"
	"github.com/kailas-cloud/docsearch/internal/db/dbtest"
	"github.com/kailas-cloud/docsearch/internal/domain"
)

const testURI = "mongodb://localhost:27017"

// gatedDialer blocks in Dial until release is closed.
type gatedDialer struct {
	entered chan struct{}
	release chan struct{}
	store   *dbtest.Store
}

func (d *gatedDialer) Dial(ctx context.Context, _ db.Target) (db.Store, error) {
	close(d.entered)
	select {
	case <-d.release:
		return d.store, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestConnect_Success(t *testing.T) {
	store := &dbtest.Store{Version: "7.0.2"}
	d := &dbtest.Dialer{Stores: []*dbtest.Store{store}}
	svc := New(d, "teachings", "talks")

	v, err := svc.Connect(context.Background(), testURI, "", "")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if v != "7.0.2" {
		t.Errorf("version = %q", v)
	}
	if d.Targets[0].Database != "teachings" || d.Targets[0].Collection != "talks" {
		t.Errorf("unexpected target %+v", d.Targets[0])
	}
	if got, err := svc.Current(); err != nil || got != store {
		t.Errorf("Current() = (%v, %v)", got, err)
	}
	if !svc.Status(context.Background()) {
		t.Error("expected connected status")
	}
}

func TestConnect_InvalidURI(t *testing.T) {
	d := &dbtest.Dialer{}
	svc := New(d, "db", "coll")

	for _, uri := range []string{"", "http://x", "localhost:27017", "MONGODB://x"} {
		if _, err := svc.Connect(context.Background(), uri, "", ""); !errors.Is(err, domain.ErrInvalidURI) {
			t.Errorf("Connect(%q) = %v, want ErrInvalidURI", uri, err)
		}
	}
	if len(d.Targets) != 0 {
		t.Error("invalid URIs must not be dialed")
	}
}

func TestConnect_SRVScheme(t *testing.T) {
	d := &dbtest.Dialer{Stores: []*dbtest.Store{{}}}
	svc := New(d, "db", "coll")
	if _, err := svc.Connect(context.Background(), "mongodb+srv://cluster.example.net", "", ""); err != nil {
		t.Fatalf("connect: %v", err)
	}
}

func TestConnect_ReplacesAndClosesPrevious(t *testing.T) {
	first, second := &dbtest.Store{}, &dbtest.Store{}
	d := &dbtest.Dialer{Stores: []*dbtest.Store{first, second}}
	svc := New(d, "db", "coll")
	ctx := context.Background()

	_, _ = svc.Connect(ctx, testURI, "", "")
	if _, err := svc.Connect(ctx, testURI, "other", ""); err != nil {
		t.Fatalf("reconnect: %v", err)
	}

	if !first.Closed() {
		t.Error("previous handle must be closed")
	}
	if got, _ := svc.Current(); got != second {
		t.Error("expected the new handle")
	}
	if d.Targets[1].Database != "other" || d.Targets[1].Collection != "coll" {
		t.Errorf("names must persist when omitted, got %+v", d.Targets[1])
	}

	// Names given once keep applying to later dials.
	if db, coll := svc.Target(); db != "other" || coll != "coll" {
		t.Errorf("Target() = (%q, %q)", db, coll)
	}
}

func TestConnect_FailureLeavesDisconnected(t *testing.T) {
	first := &dbtest.Store{}
	d := &dbtest.Dialer{Stores: []*dbtest.Store{first}}
	svc := New(d, "db", "coll")
	ctx := context.Background()
	_, _ = svc.Connect(ctx, testURI, "", "")

	d.Err = errors.New("server selection timeout")
	if _, err := svc.Connect(ctx, testURI, "", ""); err == nil {
		t.Fatal("expected dial error")
	}

	if !first.Closed() {
		t.Error("previous handle must be closed before dialing")
	}
	if _, err := svc.Current(); !errors.Is(err, domain.ErrNotConnected) {
		t.Errorf("Current() = %v, want ErrNotConnected", err)
	}
	if svc.Status(ctx) {
		t.Error("expected disconnected status")
	}
}

func TestStatus_PingFailure(t *testing.T) {
	d := &dbtest.Dialer{Stores: []*dbtest.Store{{}}}
	svc := New(d, "db", "coll")
	_, _ = svc.Connect(context.Background(), testURI, "", "")

	store, _ := svc.Current()
	store.(*dbtest.Store).PingErr = errors.New("network")
	if svc.Status(context.Background()) {
		t.Error("expected false when the ping fails")
	}
	if err := svc.Ping(context.Background()); err == nil {
		t.Error("expected Ping to surface the failure")
	}
}

func TestNotConnected(t *testing.T) {
	svc := New(&dbtest.Dialer{}, "db", "coll")
	if svc.Status(context.Background()) {
		t.Error("expected false without a handle")
	}
	if err := svc.Ping(context.Background()); !errors.Is(err, domain.ErrNotConnected) {
		t.Errorf("Ping() = %v", err)
	}
	if err := svc.Close(context.Background()); err != nil {
		t.Errorf("Close() without handle = %v", err)
	}
}

func TestClose(t *testing.T) {
	store := &dbtest.Store{}
	svc := New(&dbtest.Dialer{Stores: []*dbtest.Store{store}}, "db", "coll")
	_, _ = svc.Connect(context.Background(), testURI, "", "")

	if err := svc.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !store.Closed() {
		t.Error("store must be closed")
	}
	if _, err := svc.Current(); !errors.Is(err, domain.ErrNotConnected) {
		t.Error("handle must be unset after Close")
	}
}

func TestConnect_DialDoesNotBlockReaders(t *testing.T) {
	d := &gatedDialer{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		store:   &dbtest.Store{Version: "8.0.1"},
	}
	svc := New(d, "db", "coll")

	done := make(chan error, 1)
	go func() {
		_, err := svc.Connect(context.Background(), testURI, "", "")
		done <- err
	}()
	<-d.entered

	read := make(chan error, 1)
	go func() {
		_, err := svc.Current()
		read <- err
	}()
	select {
	case err := <-read:
		if !errors.Is(err, domain.ErrNotConnected) {
			t.Errorf("Current() during dial = %v, want ErrNotConnected", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Current() blocked while a dial was in flight")
	}
	if database, coll := svc.Target(); database != "db" || coll != "coll" {
		t.Errorf("Target() during dial = (%q, %q)", database, coll)
	}

	close(d.release)
	if err := <-done; err != nil {
		t.Fatalf("connect: %v", err)
	}
	if got, err := svc.Current(); err != nil || got != d.store {
		t.Errorf("Current() after dial = (%v, %v)", got, err)
	}
}
