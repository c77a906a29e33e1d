package db

import (
	"errors"
	"testing"
)

func TestError_WrapsAndFormats(t *testing.T) {
	cause := errors.New("connection reset")
	err := error(&Error{Op: OpAggregate, Err: cause})

	if err.Error() != "aggregate: connection reset" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}

	var dbErr *Error
	if !errors.As(err, &dbErr) || dbErr.Op != OpAggregate {
		t.Errorf("errors.As failed: %v", dbErr)
	}
}

func TestError_SentinelMatch(t *testing.T) {
	err := error(&Error{Op: OpHGet, Err: ErrKeyNotFound})
	if !errors.Is(err, ErrKeyNotFound) {
		t.Error("expected ErrKeyNotFound through wrapper")
	}
}
