// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package wire

// Request is a tagged sum with one variant per supported command. Exactly
// one of the typed fields is populated, selected by Kind.
type Request struct {
	Kind Kind

	Batch              *BatchRequest
	Between             *BetweenRequest
	Branchmap           *BranchmapRequest
	Branches            *BranchesRequest
	Clonebundles        *ClonebundlesRequest
	Capabilities        *CapabilitiesRequest
	Changegroup         *ChangegroupRequest
	Changegroupsubset   *ChangegroupsubsetRequest
	Debugwireargs       *DebugWireArgsRequest
	Getbundle           *GetbundleRequest
	Heads               *HeadsRequest
	Hello               *HelloRequest
	Listkeys            *ListkeysRequest
	Lookup              *LookupRequest
	Known               *KnownRequest
	Pushkey             *PushkeyRequest
	Streamout           *StreamoutRequest
	Unbundle            *UnbundleRequest
}

// Kind identifies which Request variant is populated.
type Kind int

const (
	KindBatch Kind = iota
	KindBetween
	KindBranchmap
	KindBranches
	KindClonebundles
	KindCapabilities
	KindChangegroup
	KindChangegroupsubset
	KindDebugwireargs
	KindGetbundle
	KindHeads
	KindHello
	KindListkeys
	KindLookup
	KindKnown
	KindPushkey
	KindStreamout
	KindUnbundle
)

// BatchRequest carries the sub-commands extracted from a batch's cmds
// field, still encoded in the batch dialect; the dispatcher re-parses
// each one with ParamsBatch when executing it.
type BatchRequest struct {
	Cmds []CmdEntry
}

type BetweenRequest struct {
	Pairs []NodePair
}

type BranchmapRequest struct{}

type BranchesRequest struct {
	Nodes []NodeHash
}

type ClonebundlesRequest struct{}

type CapabilitiesRequest struct{}

type ChangegroupRequest struct {
	Roots []NodeHash
}

type ChangegroupsubsetRequest struct {
	Heads []NodeHash
	Bases []NodeHash
}

// DebugWireArgsRequest carries the two named fields plus the full raw
// ParamMap, letting a client probe exactly how a server's param codec
// reconstructed its arguments.
type DebugWireArgsRequest struct {
	One     string
	Two     string
	AllArgs ParamMap
}

// GetbundleRequest's four fields all default to an empty list when their
// key is absent from the ParamMap, rather than erroring.
type GetbundleRequest struct {
	Heads       []NodeHash
	Common      []NodeHash
	Bundlecaps  []string
	Listkeys    []string
}

type HeadsRequest struct{}

type HelloRequest struct{}

type ListkeysRequest struct {
	Namespace string
}

type LookupRequest struct {
	Key string
}

type KnownRequest struct {
	Nodes []NodeHash
}

type PushkeyRequest struct {
	Namespace string
	Key       string
	Old       NodeHash
	New       NodeHash
}

type StreamoutRequest struct{}

type UnbundleRequest struct {
	Heads []NodeHash
}
