package models

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned when a chat request carries no query text.
// It maps to a 400 at the HTTP layer and never reaches upstream clients.
var ErrEmptyQuery = errors.New("query must not be empty")

// UpstreamError wraps a failure from one of the leaf clients (feed,
// embedding, vector index, answer generation). Stage names the client
// that failed.
type UpstreamError struct {
	Stage string
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// NewUpstreamError wraps err with its failing stage. Returns nil for a
// nil err so call sites can wrap unconditionally.
func NewUpstreamError(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Stage: stage, Err: err}
}

// IsUpstream reports whether err originated from a leaf client.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
