// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package revset

import "context"

// FromSlice wraps a fixed list of node hashes as a Stream, generalizing
// a single-hash literal fixture to an arbitrary slice so it also serves
// as a literal-heads input to Intersect/Union. The slice is consumed
// destructively from the front as it's polled, so each call site
// should pass its own copy.
func FromSlice(hashes []NodeHash) Stream {
	cp := make([]NodeHash, len(hashes))
	copy(cp, hashes)
	return &mutableSliceStream{hashes: cp}
}

// Single wraps one node hash as a one-item Stream, matching the original
// implementation's SingleNodeHash helper used throughout its test suite.
func Single(hash NodeHash) Stream {
	return FromSlice([]NodeHash{hash})
}

type mutableSliceStream struct {
	hashes []NodeHash
	idx    int
}

func (s *mutableSliceStream) Poll(ctx context.Context) PollResult {
	if s.idx >= len(s.hashes) {
		return pollEnded()
	}
	h := s.hashes[s.idx]
	s.idx++
	return pollReady(h)
}
