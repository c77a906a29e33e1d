package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongodrv "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/kailas-cloud/docsearch/internal/db"
	"github.com/kailas-cloud/docsearch/internal/domain/record"
)

// Compile-time checks.
var (
	_ db.Store  = (*Store)(nil)
	_ db.Dialer = (*Dialer)(nil)
)

// Dialer opens Store handles with Server API v1.
type Dialer struct {
	planner *Planner
}

// NewDialer creates a dialer. planner supplies id lookup filters.
func NewDialer(planner *Planner) *Dialer {
	return &Dialer{planner: planner}
}

// Dial connects to target.URI and verifies the deployment with a ping.
func (d *Dialer) Dial(ctx context.Context, target db.Target) (db.Store, error) {
	opts := options.Client().
		ApplyURI(target.URI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))

	client, err := mongodrv.Connect(opts)
	if err != nil {
		return nil, &db.Error{Op: db.OpConnect, Err: err}
	}

	s := &Store{
		client:  client,
		coll:    client.Database(target.Database).Collection(target.Collection),
		planner: d.planner,
	}
	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// Store is a live handle bound to one collection. Safe for concurrent use.
type Store struct {
	client  *mongodrv.Client
	coll    *mongodrv.Collection
	planner *Planner
}

// Ping checks connectivity against the primary.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// ServerVersion reports the server version from serverStatus, falling back
// to buildInfo where serverStatus is not permitted (shared Atlas tiers).
func (s *Store) ServerVersion(ctx context.Context) (string, error) {
	admin := s.client.Database("admin")

	var status bson.M
	err := admin.RunCommand(ctx, bson.D{{Key: "serverStatus", Value: 1}}).Decode(&status)
	if err == nil {
		if v, ok := status["version"].(string); ok {
			return v, nil
		}
	}

	var info bson.M
	if berr := admin.RunCommand(ctx, bson.D{{Key: "buildInfo", Value: 1}}).Decode(&info); berr != nil {
		if err == nil {
			err = berr
		}
		return "", &db.Error{Op: db.OpServerStatus, Err: err}
	}
	v, _ := info["version"].(string)
	return v, nil
}

// Execute runs a RankedPlan as an aggregation or a FallbackPlan as a find.
func (s *Store) Execute(ctx context.Context, plan db.Plan) ([]record.Record, error) {
	switch p := plan.(type) {
	case *RankedPlan:
		cur, err := s.coll.Aggregate(ctx, p.Pipeline)
		if err != nil {
			return nil, &db.Error{Op: db.OpAggregate, Err: err}
		}
		return drain(ctx, cur, db.OpAggregate)
	case *FallbackPlan:
		cur, err := s.coll.Find(ctx, p.Filter(), options.Find().SetLimit(int64(p.Limit())))
		if err != nil {
			return nil, &db.Error{Op: db.OpFind, Err: err}
		}
		return drain(ctx, cur, db.OpFind)
	default:
		return nil, fmt.Errorf("%w: %T", db.ErrUnsupportedPlan, plan)
	}
}

// FindByID fetches one record by ObjectID or application id.
func (s *Store) FindByID(ctx context.Context, id string) (record.Record, error) {
	var m bson.M
	err := s.coll.FindOne(ctx, s.planner.Lookup(id)).Decode(&m)
	if err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return nil, db.ErrNoDocument
		}
		return nil, &db.Error{Op: db.OpFindOne, Err: err}
	}
	return toRecord(m), nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}

func drain(ctx context.Context, cur *mongodrv.Cursor, op string) ([]record.Record, error) {
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, &db.Error{Op: op, Err: err}
	}
	out := make([]record.Record, len(docs))
	for i, d := range docs {
		out[i] = toRecord(d)
	}
	return out, nil
}
