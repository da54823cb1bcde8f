// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package handles gives the otherwise handle-less revset streams a
// stable identity: a live Stream wrapped by a caller gets a uuid, a
// creation time, and a cancellation func, so the debug HTTP surface and
// the maintenance jobs have something to list and garbage-collect.
package handles

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hgwire/hgwired/internal/revset"
)

// Handle is one live stream's bookkeeping entry.
type Handle struct {
	ID        uuid.UUID
	Operator  string
	CreatedAt time.Time

	mu   sync.Mutex
	done bool
}

func (h *Handle) markDone() {
	h.mu.Lock()
	h.done = true
	h.mu.Unlock()
}

// Done reports whether the wrapped stream has ended or errored.
func (h *Handle) Done() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.done
}

// Snapshot is the read-only view returned by List, safe to hold without
// the registry's lock.
type Snapshot struct {
	ID        uuid.UUID
	Operator  string
	CreatedAt time.Time
	Done      bool
}

// Registry tracks every live stream handle created through Register. It
// is shared read-write across the debug HTTP surface and the periodic
// maintenance jobs, so all methods are safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	handles map[uuid.UUID]*Handle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handles: make(map[uuid.UUID]*Handle)}
}

// handleStream wraps a revset.Stream so every Poll is observed: reaching
// Ended or Errored flags the handle Done, and a cancelled context makes
// the wrapped stream report Ended on the next poll.
type handleStream struct {
	inner  revset.Stream
	handle *Handle
	ctx    context.Context
}

func (s *handleStream) Poll(ctx context.Context) revset.PollResult {
	select {
	case <-s.ctx.Done():
		s.handle.markDone()
		return revset.PollResult{Status: revset.Ended}
	default:
	}
	res := s.inner.Poll(ctx)
	if res.Status == revset.Ended || res.Status == revset.Errored {
		s.handle.markDone()
	}
	return res
}

// Register wraps stream with a new Handle tagged with operator (e.g.
// "ancestors", "intersect", "union", "common_ancestors",
// "greatest_common_ancestor") and returns the wrapped stream alongside a
// CancelFunc that abandons it. Cancelling does not interrupt an in-flight
// Poll; it only makes the wrapped stream report Ended on the next call,
// discarding any result a caller no longer wants.
func (r *Registry) Register(operator string, stream revset.Stream) (revset.Stream, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Handle{ID: uuid.New(), Operator: operator, CreatedAt: time.Now()}

	r.mu.Lock()
	r.handles[h.ID] = h
	r.mu.Unlock()

	return &handleStream{inner: stream, handle: h, ctx: ctx}, cancel
}

// List returns a snapshot of every handle currently tracked, live or not.
func (r *Registry) List() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Snapshot, 0, len(r.handles))
	for _, h := range r.handles {
		h.mu.Lock()
		out = append(out, Snapshot{ID: h.ID, Operator: h.Operator, CreatedAt: h.CreatedAt, Done: h.done})
		h.mu.Unlock()
	}
	return out
}

// GC drops tracked handles that are Done and older than ttl. It returns
// the number of handles removed.
func (r *Registry) GC(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, h := range r.handles {
		h.mu.Lock()
		done := h.done
		h.mu.Unlock()
		if done && h.CreatedAt.Before(cutoff) {
			delete(r.handles, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked handles, live or not.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}
