// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package revset

import (
	"context"
	"sync"
)

// memoEntry is one LRU slot. expiration is replaced by a simple computed
// flag here: unlike a generic cache, a node's generation never changes
// once known, so entries have no TTL — only capacity eviction.
type memoEntry struct {
	hash       NodeHash
	gen        Generation
	err        error
	computed   bool
	waiting    int
	next, prev *memoEntry
}

// MemoCache is a GenerationCache that memoizes hash -> generation lookups
// over a Repository, computing a node's generation as one plus the
// maximum generation of its parents (zero for a root). It deduplicates
// concurrent computation of the same hash the same way the generic
// pkg/lrucache cache does: callers racing to resolve the same key block
// on a condition variable rather than recomputing.
type MemoCache struct {
	mu         sync.Mutex
	cond       *sync.Cond
	repo       Repository
	maxEntries int
	entries    map[NodeHash]*memoEntry
	head, tail *memoEntry
}

// NewMemoCache returns a generation cache backed by repo, holding at most
// maxEntries memoized generations before evicting the least recently
// used.
func NewMemoCache(repo Repository, maxEntries int) *MemoCache {
	c := &MemoCache{
		repo:       repo,
		maxEntries: maxEntries,
		entries:    map[NodeHash]*memoEntry{},
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Generation implements GenerationCache.
func (c *MemoCache) Generation(ctx context.Context, hash NodeHash) (Generation, error) {
	c.mu.Lock()
	if entry, ok := c.entries[hash]; ok {
		for !entry.computed {
			entry.waiting++
			c.cond.Wait()
			entry.waiting--
		}
		c.unlinkEntry(entry)
		c.insertFront(entry)
		gen, err := entry.gen, entry.err
		c.mu.Unlock()
		return gen, err
	}

	entry := &memoEntry{hash: hash, waiting: 1}
	c.entries[hash] = entry
	c.mu.Unlock()

	gen, err := c.computeGeneration(ctx, hash)

	c.mu.Lock()
	entry.gen, entry.err, entry.computed = gen, err, true
	entry.waiting--
	if entry.waiting > 0 {
		c.cond.Broadcast()
	}
	c.insertFront(entry)
	for len(c.entries) > c.maxEntries && c.tail != nil {
		candidate := c.tail
		if candidate.waiting == 0 {
			c.evictEntry(candidate)
		} else {
			break
		}
	}
	c.mu.Unlock()

	return gen, err
}

func (c *MemoCache) computeGeneration(ctx context.Context, hash NodeHash) (Generation, error) {
	parents, err := c.repo.Parents(ctx, hash)
	if err != nil {
		return 0, &ErrParentsFetchFailed{Hash: hash, Cause: err}
	}
	if len(parents) == 0 {
		return 0, nil
	}
	var max Generation
	for i, p := range parents {
		g, err := c.Generation(ctx, p)
		if err != nil {
			return 0, err
		}
		if i == 0 || g > max {
			max = g
		}
	}
	return max + 1, nil
}

func (c *MemoCache) insertFront(e *memoEntry) {
	e.next = c.head
	c.head = e
	e.prev = nil
	if e.next != nil {
		e.next.prev = e
	}
	if c.tail == nil {
		c.tail = e
	}
}

func (c *MemoCache) unlinkEntry(e *memoEntry) {
	if e == c.head {
		c.head = e.next
	}
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	if e == c.tail {
		c.tail = e.prev
	}
}

func (c *MemoCache) evictEntry(e *memoEntry) {
	c.unlinkEntry(e)
	delete(c.entries, e.hash)
}

// Len reports the number of memoized entries currently held, computed or
// still in flight.
func (c *MemoCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// PruneToSize evicts least-recently-used computed entries, starting from
// the tail, until at most n remain or no further entry can be evicted
// (an entry with callers still waiting on it is never evicted). It
// returns the number of entries actually removed. Intended to be called
// periodically by a maintenance job so a long-lived process's memoized
// generations don't grow unbounded between the capacity-triggered
// evictions Generation already performs on its own.
func (c *MemoCache) PruneToSize(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for len(c.entries) > n {
		candidate := c.tail
		if candidate == nil || candidate.waiting > 0 {
			break
		}
		c.evictEntry(candidate)
		removed++
	}
	return removed
}
