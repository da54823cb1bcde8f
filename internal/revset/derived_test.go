// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package revset

import "testing"

// unsharedReposRepo builds two entirely disjoint linear histories so that
// two of their nodes have no common ancestor.
func unsharedReposRepo() (*fakeRepo, NodeHash, NodeHash) {
	r := newFakeRepo()
	a0, a1 := nh(10), nh(11)
	b0, b1 := nh(20), nh(21)
	r.add(a0, 0)
	r.add(a1, 1, a0)
	r.add(b0, 0)
	r.add(b1, 1, b0)
	return r, a1, b1
}

// Scenario 6: on a repository with two unshared root components,
// greatest_common_ancestor([a,b]) where a,b lie in different components
// emits an empty stream.
func TestGreatestCommonAncestorNoCommonAncestor(t *testing.T) {
	repo, a, b := unsharedReposRepo()
	got := drainAll(t, GreatestCommonAncestor(repo, repo, []NodeHash{a, b}, 4))
	if len(got) != 0 {
		t.Fatalf("expected empty stream, got %v", got)
	}
}

func TestGreatestCommonAncestorSameBranch(t *testing.T) {
	repo, hashes := linearRepo()
	got := drainAll(t, GreatestCommonAncestor(repo, repo, []NodeHash{hashes[5], hashes[2]}, 4))
	if len(got) != 1 || got[0] != hashes[2] {
		t.Fatalf("expected [hashes[2]], got %v", got)
	}
}

// Derived identity: greatest_common_ancestor(nodes) equals the
// highest-generation element of common_ancestors(nodes).
func TestDerivedIdentity(t *testing.T) {
	repo, hashes := linearRepo()
	nodes := []NodeHash{hashes[6], hashes[4]}

	common := drainAll(t, CommonAncestors(repo, repo, nodes, 4))
	if len(common) == 0 {
		t.Fatalf("expected a non-empty common-ancestor set")
	}
	gca := drainAll(t, GreatestCommonAncestor(repo, repo, nodes, 4))
	if len(gca) != 1 || gca[0] != common[0] {
		t.Fatalf("expected greatest_common_ancestor to equal common[0]=%v, got %v", common[0], gca)
	}
}
