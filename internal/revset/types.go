// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package revset implements an asynchronous, generation-ordered stream
// engine over changeset hashes: Ancestors, Union, Intersect, and the
// derived common-ancestor operators.
package revset

import (
	"context"
	"fmt"
)

// NodeHash is a 20-byte changeset identifier.
type NodeHash [20]byte

// NullHash is the distinguished all-zero node hash.
var NullHash NodeHash

func (h NodeHash) String() string {
	return fmt.Sprintf("%040x", [20]byte(h))
}

// Generation is a non-negative topological rank: the length of the
// longest path from a node down to a root. For every parent p of child c,
// Gen(p) < Gen(c). The core treats generations as opaque totally-ordered
// values supplied by the external GenerationCache.
type Generation uint64

// Repository is the read-only external collaborator that looks up a
// changeset's parents by hash. It is out of scope for this module: only
// the interface is specified, named by the caller's implementation.
type Repository interface {
	// Parents returns the (zero, one, or two) parent hashes of hash, in
	// no particular order. It returns ErrNoSuchNode if hash is unknown.
	Parents(ctx context.Context, hash NodeHash) ([]NodeHash, error)
}

// GenerationCache is the read-only, memoizing external collaborator that
// maps a hash to its generation, backed by the Repository.
type GenerationCache interface {
	Generation(ctx context.Context, hash NodeHash) (Generation, error)
}

// ErrNoSuchNode is surfaced by a Repository/GenerationCache implementation
// when asked about a hash it does not know.
type ErrNoSuchNode struct {
	Hash NodeHash
}

func (e *ErrNoSuchNode) Error() string {
	return fmt.Sprintf("no such node: %s", e.Hash)
}

// ErrParentsFetchFailed wraps a Repository.Parents failure.
type ErrParentsFetchFailed struct {
	Hash  NodeHash
	Cause error
}

func (e *ErrParentsFetchFailed) Error() string {
	return fmt.Sprintf("fetching parents of %s: %v", e.Hash, e.Cause)
}

func (e *ErrParentsFetchFailed) Unwrap() error { return e.Cause }

// ErrGenerationFetchFailed wraps a GenerationCache.Generation failure.
type ErrGenerationFetchFailed struct {
	Hash  NodeHash
	Cause error
}

func (e *ErrGenerationFetchFailed) Error() string {
	return fmt.Sprintf("fetching generation of %s: %v", e.Hash, e.Cause)
}

func (e *ErrGenerationFetchFailed) Unwrap() error { return e.Cause }

// PollStatus is the outcome of one Stream.Poll call.
type PollStatus int

const (
	// NotReady means the stream has no item available yet; the caller
	// must poll again once the underlying I/O it's waiting on progresses.
	NotReady PollStatus = iota
	// Ready means Item holds a freshly yielded node hash.
	Ready
	// Ended means the stream is exhausted; no further polls will
	// produce items.
	Ended
	// Errored means the stream has failed permanently; Err holds the
	// cause. A stream must not be polled again after returning Errored.
	Errored
)

// PollResult is returned by Stream.Poll.
type PollResult struct {
	Status PollStatus
	Item   NodeHash
	Err    error
}

func pollReady(h NodeHash) PollResult   { return PollResult{Status: Ready, Item: h} }
func pollNotReady() PollResult          { return PollResult{Status: NotReady} }
func pollEnded() PollResult             { return PollResult{Status: Ended} }
func pollErr(err error) PollResult      { return PollResult{Status: Errored, Err: err} }

// Stream is a cooperatively-polled, generation-ordered node hash stream.
// Implementations never block: Poll returns promptly with one of
// not-ready / ready-item / ended / error. The host scheduler re-polls
// when underlying I/O becomes ready.
//
// Within a single Stream's lifetime, items are yielded in non-increasing
// generation order and each node hash is yielded at most once.
type Stream interface {
	Poll(ctx context.Context) PollResult
}

// hashGen pairs a node hash with its generation, the unit the
// generation-tagging adapter produces.
type hashGen struct {
	hash NodeHash
	gen  Generation
}
