package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/docsearch/internal/db"
)

// ReplaceHash atomically swaps the contents of a hash: MULTI, DEL, HSET,
// optional EXPIRE, EXEC in a single DoMulti round-trip.
func (s *Store) ReplaceHash(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error {
	cmds := make(rueidis.Commands, 0, 5)
	cmds = append(cmds, s.b().Multi().Build(), s.b().Del().Key(key).Build())

	if len(fields) > 0 {
		hset := s.b().Hset().Key(key).FieldValue()
		for f, v := range fields {
			hset = hset.FieldValue(f, v)
		}
		cmds = append(cmds, hset.Build())
		if ttl > 0 {
			cmds = append(cmds, s.b().Expire().Key(key).Seconds(int64(ttl.Seconds())).Build())
		}
	}
	cmds = append(cmds, s.b().Exec().Build())

	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: opAt(cmds, i), Err: fmt.Errorf("key %s: %w", key, err)}
		}
	}
	return nil
}

// HGet returns a single hash field.
func (s *Store) HGet(ctx context.Context, key, field string) (string, error) {
	cmd := s.b().Hget().Key(key).Field(field).Build()
	v, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", db.ErrKeyNotFound
		}
		return "", &db.Error{Op: db.OpHGet, Err: err}
	}
	return v, nil
}

// Del removes a key.
func (s *Store) Del(ctx context.Context, key string) error {
	cmd := s.b().Del().Key(key).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// opAt names the command at position i for error context.
func opAt(cmds rueidis.Commands, i int) string {
	if i < len(cmds) {
		if parts := cmds[i].Commands(); len(parts) > 0 {
			return parts[0]
		}
	}
	return db.OpHSet
}
