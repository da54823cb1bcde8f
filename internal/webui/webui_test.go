// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package webui

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/hgwire/hgwired/internal/handles"
	"github.com/hgwire/hgwired/internal/revset"
)

// fakeCache is a fixed-table revset.GenerationCache for exercising the
// /debug/generation endpoint without a real store.
type fakeCache map[revset.NodeHash]revset.Generation

func (c fakeCache) Generation(ctx context.Context, hash revset.NodeHash) (revset.Generation, error) {
	gen, ok := c[hash]
	if !ok {
		return 0, &revset.ErrNoSuchNode{Hash: hash}
	}
	return gen, nil
}

func TestStartServesHealthzAndStreams(t *testing.T) {
	registry := handles.NewRegistry()
	const addr = "127.0.0.1:18234"
	if err := Start(addr, registry, fakeCache{}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer Shutdown(context.Background())

	time.Sleep(50 * time.Millisecond)

	resp, err := http.Get("http://" + addr + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Fatalf("unexpected body: %q", body)
	}

	resp2, err := http.Get("http://" + addr + "/debug/streams")
	if err != nil {
		t.Fatalf("GET /debug/streams failed: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp2.StatusCode)
	}
}

func TestStartServesGenerationLookup(t *testing.T) {
	var hash revset.NodeHash
	hash[0] = 0xab
	registry := handles.NewRegistry()
	cache := fakeCache{hash: 7}
	const addr = "127.0.0.1:18235"
	if err := Start(addr, registry, cache); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer Shutdown(context.Background())

	time.Sleep(50 * time.Millisecond)

	resp, err := http.Get("http://" + addr + "/debug/generation/" + hash.String())
	if err != nil {
		t.Fatalf("GET /debug/generation failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var unknown revset.NodeHash
	unknown[0] = 0xff
	resp2, err := http.Get("http://" + addr + "/debug/generation/" + unknown.String())
	if err != nil {
		t.Fatalf("GET /debug/generation (unknown) failed: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown hash, got %d", resp2.StatusCode)
	}

	resp3, err := http.Get("http://" + addr + "/debug/generation/not-hex")
	if err != nil {
		t.Fatalf("GET /debug/generation (bad hash) failed: %v", err)
	}
	defer resp3.Body.Close()
	if resp3.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed hash, got %d", resp3.StatusCode)
	}
}
