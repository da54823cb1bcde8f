// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package wire

// InputBuffer is a growable, consumable byte buffer. Bytes before the
// cursor are discarded on Advance; bytes after remain for the next parse
// attempt. It is not safe for concurrent use.
type InputBuffer struct {
	buf []byte
}

// NewInputBuffer wraps an initial byte slice. The slice is copied so the
// caller may reuse or discard it freely.
func NewInputBuffer(initial []byte) *InputBuffer {
	b := &InputBuffer{buf: make([]byte, len(initial))}
	copy(b.buf, initial)
	return b
}

// Append adds more bytes, e.g. freshly read from the transport.
func (b *InputBuffer) Append(p []byte) {
	b.buf = append(b.buf, p...)
}

// Bytes returns the current unconsumed prefix, non-destructively.
func (b *InputBuffer) Bytes() []byte {
	return b.buf
}

// Len reports the number of unconsumed bytes.
func (b *InputBuffer) Len() int { return len(b.buf) }

// advance discards the first n bytes.
func (b *InputBuffer) advance(n int) {
	b.buf = b.buf[n:]
}

// Parse runs the command dispatcher against the buffer's current contents
// using the normal ssh dialect.
//
// On success it advances the buffer by exactly the bytes consumed and
// returns the Request. On incomplete input it leaves the buffer untouched
// and returns (nil, false, nil). On a parse error it returns a
// CommandParseError wrapping the underlying cause and carrying a copy of
// the unparsed buffer.
//
// Parse is idempotent on incomplete input: calling it again with the same
// buffer contents yields the same result. It is monotonic on success: the
// buffer strictly shrinks.
func (b *InputBuffer) Parse() (req *Request, ok bool, err error) {
	origLen := len(b.buf)
	res := parseCommand(b.buf, ParamsNormal)
	switch res.Status {
	case StatusDone:
		consumed := origLen - len(res.Rest)
		b.advance(consumed)
		req := res.Value
		return &req, true, nil
	case StatusIncomplete:
		return nil, false, nil
	default:
		raw := make([]byte, origLen)
		copy(raw, b.buf)
		return nil, false, &CommandParseError{RawBuffer: raw, Cause: res.Err}
	}
}

// ParseBatchArgs parses a single batch sub-command's already-split
// (name, args) pair into a Request, using the batch dialect over the
// args string. It does not operate on an InputBuffer: a batch cmds
// entry's args are already a closed byte string with no further framing,
// so there is nothing incremental left to drive.
func ParseBatchArgs(name string, args string) (Request, error) {
	spec, ok := commandTable[name]
	if !ok {
		return Request{}, &UnknownCommandError{Name: name}
	}
	paramsRes := ParamsBatch([]byte(args), spec.slotCount())
	if !paramsRes.IsDone() {
		return Request{}, paramsRes.Err
	}
	req, err := spec.build(paramsRes.Value)
	if err != nil {
		return Request{}, err
	}
	return req, nil
}
