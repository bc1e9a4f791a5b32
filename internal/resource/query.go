// Package resource holds the client-side state for each remote resource:
// cached data, loading and error flags, and the mutations that keep them
// consistent with the server.
package resource

import (
	"errors"
	"sync"

	"github.com/nhle/maildesk/internal/api"
	"github.com/nhle/maildesk/internal/session"
)

// State is a point-in-time copy of a unit's cache. Views render exactly one
// of loading, error, empty or data.
type State[T any] struct {
	Data    T
	Loading bool
	Err     error
	// Loaded is set after the first successful fetch.
	Loaded bool
}

// ErrText returns the user-facing text for Err, or "" when there is none.
func (s State[T]) ErrText(fallback string) string {
	return ErrorText(s.Err, fallback)
}

// ErrorText converts err into the message shown to the user: the server's
// error text when present, the session error verbatim, otherwise fallback.
func ErrorText(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, session.ErrNoSession) {
		return err.Error()
	}
	return api.Message(err, fallback)
}

// query guards a cached value with a request sequence. Each fetch takes a
// ticket from begin; finish applies the response only if no newer fetch has
// started since.
type query[T any] struct {
	mu    sync.Mutex
	seq   uint64
	state State[T]
}

func (q *query[T]) begin() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.seq++
	q.state.Loading = true
	return q.seq
}

// finish stores the outcome of request seq. It reports false when the
// response was stale and discarded.
func (q *query[T]) finish(seq uint64, data T, err error) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if seq != q.seq {
		return false
	}

	q.state.Loading = false
	if err != nil {
		q.state.Err = err
		return true
	}
	q.state.Data = data
	q.state.Err = nil
	q.state.Loaded = true
	return true
}

func (q *query[T]) snapshot() State[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// patch edits the cached value in place under the lock.
func (q *query[T]) patch(fn func(*T)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	fn(&q.state.Data)
}

// fail records an error from a mutation without touching the data.
func (q *query[T]) fail(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.state.Err = err
}
