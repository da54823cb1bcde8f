// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics exposes prometheus counters covering both halves of
// this module: parser invocations and error-kind counts for
// internal/wire, stream polls and items yielded per operator kind for
// internal/revset, and generation-cache lookup counts (by "lookup" or
// "error" result) for a cache wrapped with InstrumentCache. github.com/prometheus/client_golang is
// used here in its exporter role, registered once against a dedicated
// registry and scraped over internal/webui's /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ParserInvocations counts internal/wire.InputBuffer.Parse calls by
	// outcome: "done", "incomplete", or "error".
	ParserInvocations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hgwired",
		Subsystem: "parser",
		Name:      "invocations_total",
		Help:      "Number of wire protocol parse attempts by outcome.",
	}, []string{"outcome"})

	// ParserErrorKinds counts parse failures by the ParseSyntax sub-kind
	// or other error.Error kind string.
	ParserErrorKinds = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hgwired",
		Subsystem: "parser",
		Name:      "error_kind_total",
		Help:      "Number of wire protocol parse errors by kind.",
	}, []string{"kind"})

	// StreamPolls counts revset.Stream.Poll calls by operator kind and
	// outcome ("ready", "ended", "not_ready", "error").
	StreamPolls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hgwired",
		Subsystem: "revset",
		Name:      "stream_polls_total",
		Help:      "Number of Poll calls per stream operator kind and outcome.",
	}, []string{"operator", "outcome"})

	// StreamItemsYielded counts node hashes actually yielded (Ready
	// polls) per operator kind.
	StreamItemsYielded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hgwired",
		Subsystem: "revset",
		Name:      "stream_items_yielded_total",
		Help:      "Number of node hashes yielded per stream operator kind.",
	}, []string{"operator"})

	// GenerationCacheLookups counts Generation calls through an
	// InstrumentCache wrapper by result: "lookup" (succeeded) or "error".
	// Hits and misses are not told apart.
	GenerationCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hgwired",
		Subsystem: "generation_cache",
		Name:      "lookups_total",
		Help:      "Number of generation cache lookups by result.",
	}, []string{"result"})
)

// Registry is the collector registry serving internal/webui's /metrics
// route. A dedicated registry (rather than prometheus.DefaultRegisterer)
// keeps the exposed surface limited to the counters declared above.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		ParserInvocations,
		ParserErrorKinds,
		StreamPolls,
		StreamItemsYielded,
		GenerationCacheLookups,
	)
}
