// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package revset

import (
	"context"
	"runtime"
	"testing"
)

// fakeRepo is an in-memory Repository/GenerationCache pair built from an
// explicit parent map, used throughout the tests below in place of the
// sqlite-backed reference implementation.
type fakeRepo struct {
	parents map[NodeHash][]NodeHash
	gens    map[NodeHash]Generation
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{parents: map[NodeHash][]NodeHash{}, gens: map[NodeHash]Generation{}}
}

func (r *fakeRepo) add(hash NodeHash, gen Generation, parents ...NodeHash) {
	r.parents[hash] = parents
	r.gens[hash] = gen
}

func (r *fakeRepo) Parents(ctx context.Context, hash NodeHash) ([]NodeHash, error) {
	p, ok := r.parents[hash]
	if !ok {
		return nil, &ErrNoSuchNode{Hash: hash}
	}
	return p, nil
}

func (r *fakeRepo) Generation(ctx context.Context, hash NodeHash) (Generation, error) {
	g, ok := r.gens[hash]
	if !ok {
		return 0, &ErrNoSuchNode{Hash: hash}
	}
	return g, nil
}

func nh(b byte) NodeHash {
	var h NodeHash
	for i := range h {
		h[i] = b
	}
	return h
}

// linearRepo builds an eight-commit linear history h0 <- h1 <- ... <- h7
// (h7 is the head, generation 7; h0 is the root, generation 0).
func linearRepo() (*fakeRepo, []NodeHash) {
	r := newFakeRepo()
	hashes := make([]NodeHash, 8)
	for i := range hashes {
		hashes[i] = nh(byte(i + 1))
	}
	r.add(hashes[0], 0)
	for i := 1; i < len(hashes); i++ {
		r.add(hashes[i], Generation(i), hashes[i-1])
	}
	return r, hashes
}

// drainAll polls s until it ends or errors, returning the sequence of
// items observed. The fakeRepo answers synchronously, but the operators
// run their generation lookups on goroutines, so a not-ready poll yields
// the processor to let those lookups finish before polling again.
func drainAll(t *testing.T, s Stream) []NodeHash {
	t.Helper()
	ctx := context.Background()
	var out []NodeHash
	for i := 0; i < 100000; i++ {
		res := s.Poll(ctx)
		switch res.Status {
		case Ready:
			out = append(out, res.Item)
		case Ended:
			return out
		case Errored:
			t.Fatalf("unexpected stream error: %v", res.Err)
		case NotReady:
			// A generation lookup is still in flight on its goroutine.
			runtime.Gosched()
		}
	}
	t.Fatalf("stream did not terminate after many polls")
	return nil
}
