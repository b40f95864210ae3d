package server

import (
	"errors"
	"fmt"
)

// ErrForbidden rejects an action attempted by a player who is not in
// turn.
var ErrForbidden = errors.New("player not in turn")

// NotFoundError reports an id unknown to the store.
type NotFoundError struct {
	Key string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Key)
}

// StoreError wraps an underlying persistence failure. It is surfaced
// unchanged up the pipeline so the transport layer can map it to a
// response.
type StoreError struct {
	Cause error
}

func (e StoreError) Error() string {
	return fmt.Sprintf("store error: %v", e.Cause)
}

func (e StoreError) Unwrap() error { return e.Cause }
