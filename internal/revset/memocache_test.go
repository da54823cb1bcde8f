// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package revset

import (
	"context"
	"testing"
)

func TestMemoCacheGeneration(t *testing.T) {
	repo, hashes := linearRepo()
	cache := NewMemoCache(repo, 100)

	gen, err := cache.Generation(context.Background(), hashes[5])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen != 5 {
		t.Fatalf("expected generation 5, got %d", gen)
	}
}

func TestMemoCacheEvictsOnOverflow(t *testing.T) {
	repo, hashes := linearRepo()
	cache := NewMemoCache(repo, 2)
	ctx := context.Background()

	for _, h := range hashes {
		if _, err := cache.Generation(ctx, h); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if cache.Len() > 2 {
		t.Fatalf("expected at most 2 entries retained, got %d", cache.Len())
	}
}

func TestMemoCachePruneToSize(t *testing.T) {
	repo, hashes := linearRepo()
	cache := NewMemoCache(repo, 100)
	ctx := context.Background()

	for _, h := range hashes {
		if _, err := cache.Generation(ctx, h); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if cache.Len() != len(hashes) {
		t.Fatalf("expected %d entries, got %d", len(hashes), cache.Len())
	}

	removed := cache.PruneToSize(3)
	if removed != len(hashes)-3 {
		t.Fatalf("expected to remove %d entries, removed %d", len(hashes)-3, removed)
	}
	if cache.Len() != 3 {
		t.Fatalf("expected 3 entries remaining, got %d", cache.Len())
	}

	if removed := cache.PruneToSize(10); removed != 0 {
		t.Fatalf("expected no-op when already under target, removed %d", removed)
	}
}
