// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package revset

import "context"

// genPollResult mirrors PollResult but for the internal (hash, generation)
// tagged stream used by the ancestor/intersect/union operators; kept
// distinct from the public Stream interface since callers of this
// package never see a hashGen directly.
type genPollResult struct {
	status PollStatus
	item   hashGen
	err    error
}

// genStream is the internal stream type yielding (hash, generation) pairs.
type genStream interface {
	poll(ctx context.Context) genPollResult
}

// genFuture is one in-flight generation lookup.
type genFuture struct {
	done chan struct{}
	item hashGen
	err  error
}

// addGenerations lifts a Stream of node hashes into a genStream of
// (hash, generation) pairs by looking each hash up in cache. Lookups are
// issued in input order; up to bufferSize may be concurrently in flight
// (a bounded-concurrency `.buffered(size)`-style combinator). Completion
// is observed in strict input order, matching that combinator's ordering
// guarantee even though the underlying fetches may finish out of order.
func addGenerations(input Stream, cache GenerationCache, bufferSize int) genStream {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &genTaggedStream{
		input: input,
		cache: cache,
		sem:   make(chan struct{}, bufferSize),
	}
}

type genTaggedStream struct {
	input      Stream
	cache      GenerationCache
	sem        chan struct{}
	pending    []*genFuture
	inputEnded bool
	fatal      error
}

func (g *genTaggedStream) poll(ctx context.Context) genPollResult {
	if g.fatal != nil {
		return genPollResult{status: Errored, err: g.fatal}
	}

	// Pull as much as the buffer allows from the input stream, spawning a
	// concurrent generation lookup for each hash obtained.
	for !g.inputEnded && len(g.pending) < cap(g.sem) {
		res := g.input.Poll(ctx)
		switch res.Status {
		case Ready:
			g.pending = append(g.pending, g.spawnLookup(ctx, res.Item))
		case NotReady:
			goto drain
		case Ended:
			g.inputEnded = true
		case Errored:
			g.fatal = res.Err
			return genPollResult{status: Errored, err: res.Err}
		}
	}

drain:
	if len(g.pending) == 0 {
		if g.inputEnded {
			return genPollResult{status: Ended}
		}
		return genPollResult{status: NotReady}
	}

	head := g.pending[0]
	select {
	case <-head.done:
		g.pending = g.pending[1:]
		if head.err != nil {
			g.fatal = head.err
			return genPollResult{status: Errored, err: head.err}
		}
		return genPollResult{status: Ready, item: head.item}
	default:
		return genPollResult{status: NotReady}
	}
}

func (g *genTaggedStream) spawnLookup(ctx context.Context, hash NodeHash) *genFuture {
	f := &genFuture{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		g.sem <- struct{}{}
		defer func() { <-g.sem }()
		gen, err := g.cache.Generation(ctx, hash)
		if err != nil {
			f.err = &ErrGenerationFetchFailed{Hash: hash, Cause: err}
			return
		}
		f.item = hashGen{hash: hash, gen: gen}
	}()
	return f
}
