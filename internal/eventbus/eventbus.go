// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package eventbus publishes stream lifecycle events
// ("stream.started", "stream.drained", "stream.error") and parser
// error-kind events over NATS, adapting pkg/nats's singleton client
// wrapper so external monitoring can subscribe without polling
// internal/webui's /metrics route. It is a thin, optional layer: with no
// NATS URL configured, every publish call below is a no-op.
package eventbus

import (
	"time"

	"github.com/google/uuid"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"

	"github.com/hgwire/hgwired/internal/config"
	"github.com/hgwire/hgwired/pkg/nats"
)

var (
	enabled       bool
	subjectPrefix string
)

// Init wires the event bus from cfg. A nil cfg or empty URL leaves the
// bus disabled: Publish* calls become no-ops rather than errors, since
// telemetry is never allowed to block the two cores.
func Init(cfg *config.NatsConfig) {
	if cfg == nil || cfg.URL == "" {
		cclog.Info("eventbus: no nats url configured, event publishing disabled")
		return
	}
	subjectPrefix = cfg.SubjectPrefix
	if subjectPrefix == "" {
		subjectPrefix = "hgwired"
	}
	nats.Init(nats.NatsConfig{URL: cfg.URL, Username: cfg.Username, Password: cfg.Password, CredsFilePath: cfg.CredsFilePath})
	nats.Connect()
	enabled = nats.GetClient() != nil
}

func subject(name string) string {
	return subjectPrefix + "." + name
}

func publish(subject string, measurement string, tags map[string]string, fields map[string]interface{}) {
	if !enabled {
		return
	}
	client := nats.GetClient()
	if client == nil {
		return
	}
	body, err := nats.EncodeEvent(measurement, tags, fields, time.Now())
	if err != nil {
		cclog.Warnf("eventbus: encoding %q event failed: %v", measurement, err)
		return
	}
	if err := client.Publish(subject, body); err != nil {
		cclog.Warnf("eventbus: publishing %q event failed: %v", measurement, err)
	}
}

// PublishStreamStarted announces that a new stream handle of the given
// operator kind ("ancestors", "intersect", "union",
// "common_ancestors", "greatest_common_ancestor") began polling.
func PublishStreamStarted(id uuid.UUID, operator string) {
	publish(subject("stream.started"), "stream_event",
		map[string]string{"event": "started", "operator": operator, "stream_id": id.String()},
		map[string]interface{}{"count": int64(1)})
}

// PublishStreamDrained announces that a stream handle reached
// end-of-stream, having yielded itemsYielded node hashes in total.
func PublishStreamDrained(id uuid.UUID, operator string, itemsYielded int64) {
	publish(subject("stream.drained"), "stream_event",
		map[string]string{"event": "drained", "operator": operator, "stream_id": id.String()},
		map[string]interface{}{"items_yielded": itemsYielded})
}

// PublishStreamError announces that a stream handle failed permanently.
func PublishStreamError(id uuid.UUID, operator string, cause error) {
	publish(subject("stream.error"), "stream_event",
		map[string]string{"event": "error", "operator": operator, "stream_id": id.String()},
		map[string]interface{}{"cause": cause.Error()})
}

// PublishParserErrorKind announces one wire protocol parse failure,
// labeled with its error kind (see internal/metrics.errorKind).
func PublishParserErrorKind(kind string) {
	publish(subject("parser.error"), "parser_error",
		map[string]string{"kind": kind},
		map[string]interface{}{"count": int64(1)})
}
