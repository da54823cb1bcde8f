// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package revset

import "context"

// Ancestors computes the ancestor set of seed (inclusive), emitted in
// strictly non-increasing generation order: itself, plus the union of
// the ancestors of all its parents. Hashes are grouped into waves by
// generation; once a wave is drained, its members' parents are fetched
// as the next wave. A wave's parent fetches run one after another; the
// generation lookups for the parents they return are bounded by
// bufferSize concurrent lookups.
func Ancestors(repo Repository, cache GenerationCache, seed NodeHash, bufferSize int) Stream {
	return &ancestorsStream{
		repo:           repo,
		cache:          cache,
		buf:            bufferSize,
		nextGeneration: map[Generation]map[NodeHash]struct{}{},
		drain:          []NodeHash{seed},
	}
}

type ancestorsStream struct {
	repo           Repository
	cache          GenerationCache
	buf            int
	pending        genStream
	nextGeneration map[Generation]map[NodeHash]struct{}
	drain          []NodeHash
	drainPos       int
	started        bool
}

// makePending fuses the parent-fetch and generation-tagging steps for an
// entire wave of hashes into one genStream, mirroring the original
// implementation's `make_pending` helper.
func makePending(repo Repository, cache GenerationCache, hashes []NodeHash, bufferSize int) genStream {
	return addGenerations(&parentFetchStream{repo: repo, hashes: hashes}, cache, bufferSize)
}

// parentFetchStream fetches the parents of a fixed list of hashes and
// flattens the results into a single Stream of node hashes, the Go
// analogue of the original's `.map(get_parents).buffered(size).flatten()`
// chain.
type parentFetchStream struct {
	repo    Repository
	hashes  []NodeHash
	idx     int
	current []NodeHash
	curIdx  int
	fatal   error
}

func (p *parentFetchStream) Poll(ctx context.Context) PollResult {
	if p.fatal != nil {
		return pollErr(p.fatal)
	}
	for {
		if p.curIdx < len(p.current) {
			h := p.current[p.curIdx]
			p.curIdx++
			return pollReady(h)
		}
		if p.idx >= len(p.hashes) {
			return pollEnded()
		}
		hash := p.hashes[p.idx]
		p.idx++
		parents, err := p.repo.Parents(ctx, hash)
		if err != nil {
			p.fatal = &ErrParentsFetchFailed{Hash: hash, Cause: err}
			return pollErr(p.fatal)
		}
		p.current = parents
		p.curIdx = 0
	}
}

func (a *ancestorsStream) Poll(ctx context.Context) PollResult {
	if !a.started {
		a.started = true
		a.pending = makePending(a.repo, a.cache, []NodeHash{a.drain[0]}, a.buf)
	}

	if a.drainPos < len(a.drain) {
		h := a.drain[a.drainPos]
		a.drainPos++
		return pollReady(h)
	}

	for {
		res := a.pending.poll(ctx)
		switch res.status {
		case Ready:
			bucket, ok := a.nextGeneration[res.item.gen]
			if !ok {
				bucket = map[NodeHash]struct{}{}
				a.nextGeneration[res.item.gen] = bucket
			}
			bucket[res.item.hash] = struct{}{}
		case NotReady:
			return pollNotReady()
		case Errored:
			return pollErr(res.err)
		case Ended:
			goto waveDone
		}
	}

waveDone:
	if len(a.nextGeneration) == 0 {
		return pollEnded()
	}

	var highest Generation
	first := true
	for gen := range a.nextGeneration {
		if first || gen > highest {
			highest = gen
			first = false
		}
	}
	bucket := a.nextGeneration[highest]
	delete(a.nextGeneration, highest)

	wave := make([]NodeHash, 0, len(bucket))
	for h := range bucket {
		wave = append(wave, h)
	}

	a.pending = makePending(a.repo, a.cache, wave, a.buf)
	a.drain = wave
	a.drainPos = 1
	return pollReady(wave[0])
}
