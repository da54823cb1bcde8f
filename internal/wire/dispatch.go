// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package wire

// commandSpec describes one entry in the command dispatch table: its
// name, whether it accepts a leading star slot, the number of named
// parameters it expects, and a builder that converts a fully decoded
// ParamMap into a Request.
type commandSpec struct {
	name      string
	hasStar   bool
	namedArgs int
	dialect   ParamDecoder
	build     func(ParamMap) (Request, error)
}

var commandTable = map[string]commandSpec{
	"batch":             {name: "batch", hasStar: true, namedArgs: 1, dialect: ParamsNormal, build: buildBatch},
	"between":           {name: "between", namedArgs: 1, dialect: ParamsNormal, build: buildBetween},
	"branchmap":         {name: "branchmap", namedArgs: 0, dialect: ParamsNormal, build: buildBranchmap},
	"branches":          {name: "branches", namedArgs: 1, dialect: ParamsNormal, build: buildBranches},
	"clonebundles":      {name: "clonebundles", namedArgs: 0, dialect: ParamsNormal, build: buildClonebundles},
	"capabilities":      {name: "capabilities", namedArgs: 0, dialect: ParamsNormal, build: buildCapabilities},
	"changegroup":       {name: "changegroup", namedArgs: 1, dialect: ParamsNormal, build: buildChangegroup},
	"changegroupsubset": {name: "changegroupsubset", namedArgs: 2, dialect: ParamsNormal, build: buildChangegroupsubset},
	"debugwireargs":     {name: "debugwireargs", hasStar: true, namedArgs: 2, dialect: ParamsNormal, build: buildDebugwireargs},
	"getbundle":         {name: "getbundle", hasStar: true, namedArgs: 0, dialect: ParamsNormal, build: buildGetbundle},
	"heads":             {name: "heads", namedArgs: 0, dialect: ParamsNormal, build: buildHeads},
	"hello":             {name: "hello", namedArgs: 0, dialect: ParamsNormal, build: buildHello},
	"listkeys":          {name: "listkeys", namedArgs: 1, dialect: ParamsNormal, build: buildListkeys},
	"lookup":            {name: "lookup", namedArgs: 1, dialect: ParamsNormal, build: buildLookup},
	"known":             {name: "known", hasStar: true, namedArgs: 1, dialect: ParamsNormal, build: buildKnown},
	"pushkey":           {name: "pushkey", namedArgs: 4, dialect: ParamsNormal, build: buildPushkey},
	"streamout":         {name: "streamout", namedArgs: 0, dialect: ParamsNormal, build: buildStreamout},
	"unbundle":          {name: "unbundle", namedArgs: 1, dialect: ParamsNormal, build: buildUnbundle},
}

func (c commandSpec) slotCount() uint64 {
	n := uint64(c.namedArgs)
	if c.hasStar {
		n++
	}
	return n
}

// maxCommandNameLen is the length of the longest name in commandTable,
// computed once at package init. parseCommand uses it to reject a
// buffer that can never hold a valid command line instead of waiting
// forever for a '\n' that a misbehaving or hostile client never sends.
var maxCommandNameLen = func() int {
	max := 0
	for name := range commandTable {
		if len(name) > max {
			max = len(name)
		}
	}
	return max
}()

// requiredField looks key up in m, applying sub into its value and
// requiring sub to consume it exactly.
func requiredField[T any](m ParamMap, key string, sub func([]byte) Result[T]) (T, error) {
	var zero T
	v, ok := m[key]
	if !ok {
		return zero, &MissingParamError{Key: key}
	}
	r := sub(v)
	if !r.IsDone() {
		if r.Err != nil {
			return zero, r.Err
		}
		return zero, &UnconsumedParamBytesError{Key: key}
	}
	if len(r.Rest) != 0 {
		return zero, &UnconsumedParamBytesError{Key: key}
	}
	return r.Value, nil
}

func requiredHashList(m ParamMap, key string) ([]NodeHash, error) {
	v, ok := m[key]
	if !ok {
		return nil, &MissingParamError{Key: key}
	}
	return ParseHashList(v)
}

func requiredPairList(m ParamMap, key string) ([]NodePair, error) {
	v, ok := m[key]
	if !ok {
		return nil, &MissingParamError{Key: key}
	}
	return ParsePairList(v)
}

// defaultedHashList implements the getbundle default-value rule: a
// missing key yields an empty list, not an error.
func defaultedHashList(m ParamMap, key string) ([]NodeHash, error) {
	v, ok := m[key]
	if !ok {
		return nil, nil
	}
	return ParseHashList(v)
}

func defaultedCommaValues(m ParamMap, key string) []string {
	v, ok := m[key]
	if !ok {
		return nil
	}
	return ParseCommaValues(v)
}

func identCompleteField(m ParamMap, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", &MissingParamError{Key: key}
	}
	r := IdentComplete(v)
	if !r.IsDone() {
		if r.Err != nil {
			return "", r.Err
		}
		return "", &UnconsumedParamBytesError{Key: key}
	}
	if len(r.Rest) != 0 {
		return "", &UnconsumedParamBytesError{Key: key}
	}
	return r.Value, nil
}

func nodeHashField(m ParamMap, key string) (NodeHash, error) {
	v, ok := m[key]
	if !ok {
		return NodeHash{}, &MissingParamError{Key: key}
	}
	r := ParseNodeHash(v)
	if !r.IsDone() {
		if r.Err != nil {
			return NodeHash{}, r.Err
		}
		return NodeHash{}, &UnconsumedParamBytesError{Key: key}
	}
	if len(r.Rest) != 0 {
		return NodeHash{}, &UnconsumedParamBytesError{Key: key}
	}
	return r.Value, nil
}

func buildBatch(m ParamMap) (Request, error) {
	v, ok := m["cmds"]
	if !ok {
		return Request{}, &MissingParamError{Key: "cmds"}
	}
	cmds, err := ParseCmdList(v)
	if err != nil {
		return Request{}, err
	}
	return Request{Kind: KindBatch, Batch: &BatchRequest{Cmds: cmds}}, nil
}

func buildBetween(m ParamMap) (Request, error) {
	pairs, err := requiredPairList(m, "pairs")
	if err != nil {
		return Request{}, err
	}
	return Request{Kind: KindBetween, Between: &BetweenRequest{Pairs: pairs}}, nil
}

func buildBranchmap(ParamMap) (Request, error) {
	return Request{Kind: KindBranchmap, Branchmap: &BranchmapRequest{}}, nil
}

func buildBranches(m ParamMap) (Request, error) {
	nodes, err := requiredHashList(m, "nodes")
	if err != nil {
		return Request{}, err
	}
	return Request{Kind: KindBranches, Branches: &BranchesRequest{Nodes: nodes}}, nil
}

func buildClonebundles(ParamMap) (Request, error) {
	return Request{Kind: KindClonebundles, Clonebundles: &ClonebundlesRequest{}}, nil
}

func buildCapabilities(ParamMap) (Request, error) {
	return Request{Kind: KindCapabilities, Capabilities: &CapabilitiesRequest{}}, nil
}

func buildChangegroup(m ParamMap) (Request, error) {
	roots, err := requiredHashList(m, "roots")
	if err != nil {
		return Request{}, err
	}
	return Request{Kind: KindChangegroup, Changegroup: &ChangegroupRequest{Roots: roots}}, nil
}

func buildChangegroupsubset(m ParamMap) (Request, error) {
	heads, err := requiredHashList(m, "heads")
	if err != nil {
		return Request{}, err
	}
	bases, err := requiredHashList(m, "bases")
	if err != nil {
		return Request{}, err
	}
	return Request{Kind: KindChangegroupsubset, Changegroupsubset: &ChangegroupsubsetRequest{Heads: heads, Bases: bases}}, nil
}

func buildDebugwireargs(m ParamMap) (Request, error) {
	one, err := identCompleteField(m, "one")
	if err != nil {
		return Request{}, err
	}
	two, err := identCompleteField(m, "two")
	if err != nil {
		return Request{}, err
	}
	return Request{Kind: KindDebugwireargs, Debugwireargs: &DebugWireArgsRequest{One: one, Two: two, AllArgs: m}}, nil
}

func buildGetbundle(m ParamMap) (Request, error) {
	heads, err := defaultedHashList(m, "heads")
	if err != nil {
		return Request{}, err
	}
	common, err := defaultedHashList(m, "common")
	if err != nil {
		return Request{}, err
	}
	return Request{Kind: KindGetbundle, Getbundle: &GetbundleRequest{
		Heads:      heads,
		Common:     common,
		Bundlecaps: defaultedCommaValues(m, "bundlecaps"),
		Listkeys:   defaultedCommaValues(m, "listkeys"),
	}}, nil
}

func buildHeads(ParamMap) (Request, error) {
	return Request{Kind: KindHeads, Heads: &HeadsRequest{}}, nil
}

func buildHello(ParamMap) (Request, error) {
	return Request{Kind: KindHello, Hello: &HelloRequest{}}, nil
}

func buildListkeys(m ParamMap) (Request, error) {
	ns, err := identCompleteField(m, "namespace")
	if err != nil {
		return Request{}, err
	}
	return Request{Kind: KindListkeys, Listkeys: &ListkeysRequest{Namespace: ns}}, nil
}

func buildLookup(m ParamMap) (Request, error) {
	key, err := identCompleteField(m, "key")
	if err != nil {
		return Request{}, err
	}
	return Request{Kind: KindLookup, Lookup: &LookupRequest{Key: key}}, nil
}

func buildKnown(m ParamMap) (Request, error) {
	nodes, err := requiredHashList(m, "nodes")
	if err != nil {
		return Request{}, err
	}
	return Request{Kind: KindKnown, Known: &KnownRequest{Nodes: nodes}}, nil
}

func buildPushkey(m ParamMap) (Request, error) {
	ns, err := identCompleteField(m, "namespace")
	if err != nil {
		return Request{}, err
	}
	key, err := identCompleteField(m, "key")
	if err != nil {
		return Request{}, err
	}
	oldHash, err := nodeHashField(m, "old")
	if err != nil {
		return Request{}, err
	}
	newHash, err := nodeHashField(m, "new")
	if err != nil {
		return Request{}, err
	}
	return Request{Kind: KindPushkey, Pushkey: &PushkeyRequest{Namespace: ns, Key: key, Old: oldHash, New: newHash}}, nil
}

func buildStreamout(ParamMap) (Request, error) {
	return Request{Kind: KindStreamout, Streamout: &StreamoutRequest{}}, nil
}

func buildUnbundle(m ParamMap) (Request, error) {
	heads, err := requiredHashList(m, "heads")
	if err != nil {
		return Request{}, err
	}
	return Request{Kind: KindUnbundle, Unbundle: &UnbundleRequest{Heads: heads}}, nil
}

// parseCommand matches "<command_name>\n" then dispatches to the chosen
// parameter decoder and builder. dialect selects the parameter dialect;
// its only caller, InputBuffer.Parse, passes ParamsNormal. Batch
// sub-commands do not come through here: ParseBatchArgs looks them up in
// the same table and decodes their args with ParamsBatch directly.
func parseCommand(input []byte, dialect ParamDecoder) Result[Request] {
	nl := indexByte(input, '\n')
	if nl < 0 {
		// Could still be a valid prefix of a longer command name, unless
		// it's already longer than the longest known command name.
		if len(input) > maxCommandNameLen {
			return Fail[Request](&CommandNameTooLongError{Len: len(input)})
		}
		return Incomplete[Request]()
	}
	name := string(input[:nl])
	spec, ok := commandTable[name]
	if !ok {
		return Fail[Request](&UnknownCommandError{Name: name})
	}
	rest := input[nl+1:]

	paramsRes := dialect(rest, spec.slotCount())
	if !paramsRes.IsDone() {
		return Result[Request]{Status: paramsRes.Status, Err: paramsRes.Err}
	}
	req, err := spec.build(paramsRes.Value)
	if err != nil {
		return Fail[Request](err)
	}
	return Done(paramsRes.Rest, req)
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}
