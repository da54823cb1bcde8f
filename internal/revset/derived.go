// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package revset

import "context"

// CommonAncestors computes Intersect(Ancestors(n) for n in nodes).
func CommonAncestors(repo Repository, cache GenerationCache, nodes []NodeHash, bufferSize int) Stream {
	inputs := make([]Stream, len(nodes))
	for i, n := range nodes {
		inputs[i] = Ancestors(repo, cache, n, bufferSize)
	}
	return Intersect(cache, inputs, bufferSize)
}

// GreatestCommonAncestor returns the highest-generation element of
// CommonAncestors(nodes): since CommonAncestors emits in non-increasing
// generation order, that is simply its first yielded item.
func GreatestCommonAncestor(repo Repository, cache GenerationCache, nodes []NodeHash, bufferSize int) Stream {
	return &takeStream{inner: CommonAncestors(repo, cache, nodes, bufferSize), limit: 1}
}

// takeStream yields at most limit items from inner, then ends regardless
// of whether inner has more.
type takeStream struct {
	inner Stream
	limit int
	taken int
	done  bool
}

func (t *takeStream) Poll(ctx context.Context) PollResult {
	if t.done || t.taken >= t.limit {
		return pollEnded()
	}
	res := t.inner.Poll(ctx)
	if res.Status == Ready {
		t.taken++
		if t.taken >= t.limit {
			t.done = true
		}
	}
	return res
}
