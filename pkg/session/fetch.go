package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmorval/linkscope/pkg/graph"
)

// Fetch is one in-flight graph request with its own cancellation token.
// Supersession is checked per token, not through a global flag, so
// unrelated fetch families elsewhere on the page are unaffected.
type Fetch struct {
	ID     string
	Query  graph.Query
	ctx    context.Context
	cancel context.CancelFunc
}

// Context returns the context the fetch should run under
func (f *Fetch) Context() context.Context {
	return f.ctx
}

// Cancel aborts the fetch; cancellation is not an error
func (f *Fetch) Cancel() {
	f.cancel()
}

// Run executes the fetch against a source and returns the raw result.
// Intended to run off the event loop; feed the result back through
// Controller.Resolve on the loop thread.
func (f *Fetch) Run(source GraphSource) (*graph.Payload, error) {
	return source.Build(f.ctx, f.Query)
}

func newFetch(parent context.Context, q graph.Query) *Fetch {
	ctx, cancel := context.WithCancel(parent)
	return &Fetch{
		ID:     uuid.NewString(),
		Query:  q,
		ctx:    ctx,
		cancel: cancel,
	}
}
