// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package revset

import "testing"

func TestIntersectIdenticalNode(t *testing.T) {
	repo, hashes := linearRepo()
	head := hashes[len(hashes)-1]
	inputs := []Stream{Single(head), Single(head)}

	got := drainAll(t, Intersect(repo, inputs, 4))
	if len(got) != 1 || got[0] != head {
		t.Fatalf("expected exactly [head], got %v", got)
	}
}

func TestIntersectThreeDifferentNodesIsEmpty(t *testing.T) {
	repo, hashes := linearRepo()
	inputs := []Stream{Single(hashes[1]), Single(hashes[3]), Single(hashes[5])}

	got := drainAll(t, Intersect(repo, inputs, 4))
	if len(got) != 0 {
		t.Fatalf("expected empty intersection, got %v", got)
	}
}

// Intersection law: Intersect(A, B) = A ∩ B as sets, for two ancestor
// sets sharing a common prefix.
func TestIntersectionLawOverAncestors(t *testing.T) {
	repo, hashes := linearRepo()
	a := Ancestors(repo, repo, hashes[5], 4)
	b := Ancestors(repo, repo, hashes[3], 4)

	got := drainAll(t, Intersect(repo, []Stream{a, b}, 4))

	// Ancestors(hashes[3]) is a subset of Ancestors(hashes[5]) on a
	// linear history, so the intersection is exactly Ancestors(hashes[3]).
	want := map[NodeHash]bool{}
	for i := 0; i <= 3; i++ {
		want[hashes[i]] = true
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d: %v", len(want), len(got), got)
	}
	for _, h := range got {
		if !want[h] {
			t.Fatalf("unexpected item in intersection: %v", h)
		}
	}
}

func TestIntersectDedupWithinStream(t *testing.T) {
	repo, hashes := linearRepo()
	a := Ancestors(repo, repo, hashes[4], 4)
	b := Ancestors(repo, repo, hashes[4], 4)

	got := drainAll(t, Intersect(repo, []Stream{a, b}, 4))
	seen := map[NodeHash]bool{}
	for _, h := range got {
		if seen[h] {
			t.Fatalf("duplicate in intersection output: %v", h)
		}
		seen[h] = true
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 items (hashes[0..4]), got %d: %v", len(got), got)
	}
}
