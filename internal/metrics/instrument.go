// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package metrics

import (
	"context"
	"errors"

	"github.com/hgwire/hgwired/internal/revset"
	"github.com/hgwire/hgwired/internal/wire"
)

// InstrumentedBuffer decorates a *wire.InputBuffer so every Parse call is
// counted by outcome and, on error, by error kind. The core parser stays
// free of any metrics dependency; this wrapper is the concrete home for
// the parser's invocation/error counters.
type InstrumentedBuffer struct {
	*wire.InputBuffer
}

// NewInstrumentedBuffer wraps buf for metrics observation.
func NewInstrumentedBuffer(buf *wire.InputBuffer) *InstrumentedBuffer {
	return &InstrumentedBuffer{InputBuffer: buf}
}

func (b *InstrumentedBuffer) Parse() (*wire.Request, bool, error) {
	req, ok, err := b.InputBuffer.Parse()
	observeParse(ok, err)
	return req, ok, err
}

func observeParse(ok bool, err error) {
	switch {
	case err != nil:
		ParserInvocations.WithLabelValues("error").Inc()
		ParserErrorKinds.WithLabelValues(errorKind(err)).Inc()
	case ok:
		ParserInvocations.WithLabelValues("done").Inc()
	default:
		ParserInvocations.WithLabelValues("incomplete").Inc()
	}
}

// ErrorKind labels a parse error the same way observeParse does, exported
// so other packages (internal/eventbus) can tag events with it without
// re-implementing the errors.As chain.
func ErrorKind(err error) string {
	return errorKind(err)
}

func errorKind(err error) string {
	var syn *wire.ParseSyntaxError
	var missing *wire.MissingParamError
	var unconsumed *wire.UnconsumedParamBytesError
	var unknownCmd *wire.UnknownCommandError
	var cmdParse *wire.CommandParseError
	var nameTooLong *wire.CommandNameTooLongError
	switch {
	case errors.As(err, &syn):
		return "syntax:" + syn.Kind.String()
	case errors.As(err, &missing):
		return "missing_param"
	case errors.As(err, &unconsumed):
		return "unconsumed_param_bytes"
	case errors.As(err, &unknownCmd):
		return "unknown_command"
	case errors.As(err, &nameTooLong):
		return "command_name_too_long"
	case errors.As(err, &cmdParse):
		return "command_parse"
	default:
		return "other"
	}
}

// InstrumentedStream decorates a revset.Stream so every Poll call is
// counted by operator kind and outcome, and every yielded item is
// counted once.
type InstrumentedStream struct {
	inner    revset.Stream
	operator string
}

// Instrument wraps stream, labeling its counters with operator (e.g.
// "ancestors", "intersect", "union").
func Instrument(operator string, stream revset.Stream) revset.Stream {
	return &InstrumentedStream{inner: stream, operator: operator}
}

func (s *InstrumentedStream) Poll(ctx context.Context) revset.PollResult {
	res := s.inner.Poll(ctx)
	StreamPolls.WithLabelValues(s.operator, outcomeLabel(res.Status)).Inc()
	if res.Status == revset.Ready {
		StreamItemsYielded.WithLabelValues(s.operator).Inc()
	}
	return res
}

func outcomeLabel(status revset.PollStatus) string {
	switch status {
	case revset.Ready:
		return "ready"
	case revset.Ended:
		return "ended"
	case revset.Errored:
		return "error"
	default:
		return "not_ready"
	}
}

// InstrumentedCache decorates a revset.GenerationCache so every lookup
// is counted as a hit, miss, or error. "Hit"/"miss" can't be
// distinguished from outside a GenerationCache implementation in
// general, so this wrapper is meant to sit directly around a
// *revset.MemoCache-free cache (e.g. the store package's Repository used
// without memoization) where every call is necessarily a fresh
// computation; wrapping a MemoCache instead simply counts every call as
// a lookup without a hit/miss split, which is still reported via the
// "lookup" result label.
type InstrumentedCache struct {
	inner revset.GenerationCache
}

// InstrumentCache wraps cache for lookup-count observation.
func InstrumentCache(cache revset.GenerationCache) revset.GenerationCache {
	return &InstrumentedCache{inner: cache}
}

func (c *InstrumentedCache) Generation(ctx context.Context, hash revset.NodeHash) (revset.Generation, error) {
	gen, err := c.inner.Generation(ctx, hash)
	if err != nil {
		GenerationCacheLookups.WithLabelValues("error").Inc()
	} else {
		GenerationCacheLookups.WithLabelValues("lookup").Inc()
	}
	return gen, err
}
