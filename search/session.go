package search

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/poiesic/elscan/core"
)

// Session runs at most one query at a time. Starting a query cancels the
// one still in flight, which then returns ErrSuperseded.
type Session struct {
	searcher *Searcher
	mu       sync.Mutex
	cancel   context.CancelCauseFunc
	closed   bool
}

// NewSession creates a session backed by s.
func (s *Searcher) NewSession() *Session {
	return &Session{searcher: s}
}

// Search runs a query, superseding any query in flight.
func (ss *Session) Search(ctx context.Context, text *core.Text, pattern string, minSkip, maxSkip int) ([]core.Occurrence, error) {
	return ss.SearchWithMonitor(ctx, text, pattern, minSkip, maxSkip, nil)
}

// SearchWithMonitor is Search with a monitor.
func (ss *Session) SearchWithMonitor(ctx context.Context, text *core.Text, pattern string, minSkip, maxSkip int, monitor SearchMonitor) ([]core.Occurrence, error) {
	qctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	ss.mu.Lock()
	if ss.closed {
		ss.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if ss.cancel != nil {
		ss.cancel(ErrSuperseded)
	}
	ss.cancel = cancel
	ss.mu.Unlock()

	occs, err := ss.searcher.SearchWithMonitor(qctx, text, pattern, minSkip, maxSkip, monitor)
	if err != nil {
		if cause := context.Cause(qctx); ctx.Err() == nil && (errors.Is(cause, ErrSuperseded) || errors.Is(cause, ErrSessionClosed)) {
			return nil, fmt.Errorf("%w: %w", cause, err)
		}
		return nil, err
	}
	return occs, nil
}

// Close cancels the query in flight and rejects further queries.
func (ss *Session) Close() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.closed = true
	if ss.cancel != nil {
		ss.cancel(ErrSessionClosed)
		ss.cancel = nil
	}
}
