package domain

import "errors"

var (
	// ErrNotConnected signals that no usable store handle is available.
	ErrNotConnected = errors.New("not connected to MongoDB")
	// ErrNotFound signals a document lookup miss.
	ErrNotFound = errors.New("document not found")
	// ErrSearchFailed wraps a store or plan execution failure.
	ErrSearchFailed = errors.New("search failed")
	// ErrDecodeSkipped signals a date code that could not be decoded.
	// It never reaches callers: the field degrades to null.
	ErrDecodeSkipped = errors.New("date decode skipped")
	// ErrInvalidURI signals a malformed MongoDB connection string.
	ErrInvalidURI = errors.New("invalid MongoDB URI")
	// ErrInvalidQuery signals an empty or oversized search query.
	ErrInvalidQuery = errors.New("invalid query")
)
