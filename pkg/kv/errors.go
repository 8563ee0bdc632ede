package kv

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by every operation on a closed store.
var ErrClosed = errors.New("kv: store closed")

// OpError records the operation and key that failed.
type OpError struct {
	Op  string
	Key string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("kv %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// IsOp returns true if err (or any wrapped error) is an OpError for op.
func IsOp(err error, op string) bool {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Op == op
	}
	return false
}
