package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound     = errors.New("db: key not found")
	ErrNoDocument      = errors.New("db: no matching document")
	ErrUnsupportedPlan = errors.New("db: unsupported plan")
)

// Op constants name store operations for error context.
const (
	OpConnect      = "connect"
	OpPing         = "ping"
	OpServerStatus = "serverStatus"
	OpAggregate    = "aggregate"
	OpFind         = "find"
	OpFindOne      = "findOne"
	OpDecode       = "decode"
	OpDel          = "DEL"
	OpHGet         = "HGET"
	OpHSet         = "HSET"
	OpExpire       = "EXPIRE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
