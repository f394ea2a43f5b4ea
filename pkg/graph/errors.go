package graph

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable means no events matched the query (or no dataset was
// selected). Rendered as an empty state, not a failure.
var ErrDataUnavailable = errors.New("no events match the current filters")

// UpstreamError wraps a failure of the event store or another collaborator
// behind the builder. Surfaced with a retry action.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream failure: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsUpstream reports whether err is (or wraps) an UpstreamError
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
