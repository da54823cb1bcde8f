// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package metrics

import (
	"context"
	"testing"

	"github.com/hgwire/hgwired/internal/revset"
	"github.com/hgwire/hgwired/internal/wire"
)

func TestErrorKindClassifiesKnownTypes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"missing param", &wire.MissingParamError{Key: "nodes"}, "missing_param"},
		{"unknown command", &wire.UnknownCommandError{Name: "bogus"}, "unknown_command"},
		{"other", context.Canceled, "other"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ErrorKind(c.err); got != c.want {
				t.Errorf("ErrorKind(%v) = %q, want %q", c.err, got, c.want)
			}
		})
	}
}

type fixedStream struct {
	results []revset.PollResult
	idx     int
}

func (f *fixedStream) Poll(ctx context.Context) revset.PollResult {
	r := f.results[f.idx]
	if f.idx < len(f.results)-1 {
		f.idx++
	}
	return r
}

func TestInstrumentPassesThroughResults(t *testing.T) {
	inner := &fixedStream{results: []revset.PollResult{
		{Status: revset.Ready, Item: revset.NodeHash{1}},
		{Status: revset.Ended},
	}}
	s := Instrument("ancestors", inner)

	res := s.Poll(context.Background())
	if res.Status != revset.Ready || res.Item != (revset.NodeHash{1}) {
		t.Fatalf("unexpected first poll result: %+v", res)
	}

	res = s.Poll(context.Background())
	if res.Status != revset.Ended {
		t.Fatalf("unexpected second poll result: %+v", res)
	}
}

type fixedCache struct {
	gen revset.Generation
	err error
}

func (c *fixedCache) Generation(ctx context.Context, hash revset.NodeHash) (revset.Generation, error) {
	return c.gen, c.err
}

func TestInstrumentCachePassesThroughResults(t *testing.T) {
	inner := &fixedCache{gen: 5}
	c := InstrumentCache(inner)

	gen, err := c.Generation(context.Background(), revset.NodeHash{})
	if err != nil || gen != 5 {
		t.Fatalf("unexpected result: gen=%v err=%v", gen, err)
	}
}
