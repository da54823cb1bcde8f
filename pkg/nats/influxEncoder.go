// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package nats

import (
	"sort"
	"time"

	influx "github.com/influxdata/line-protocol/v2/lineprotocol"
)

// EncodeEvent renders one InfluxDB line protocol line for measurement,
// carrying tags and fields, timestamped at t. It is the inverse of the
// decode-side helper this package was adapted from
// (internal/memorystore/lineprotocol.go's DecodeLine path, which
// consumes metric telemetry); here the same wire encoding carries
// internal/eventbus's stream-lifecycle and parser-error events instead.
//
// Tag and field keys are written in sorted order: line protocol requires
// tags to be sorted for correct series identity, and sorting fields too
// keeps encoded lines deterministic for tests.
func EncodeEvent(measurement string, tags map[string]string, fields map[string]interface{}, t time.Time) ([]byte, error) {
	var enc influx.Encoder
	enc.SetPrecision(influx.Nanosecond)
	enc.StartLine(measurement)

	for _, k := range sortedKeys(tags) {
		enc.AddTag(k, tags[k])
	}

	fieldKeys := make([]string, 0, len(fields))
	for k := range fields {
		fieldKeys = append(fieldKeys, k)
	}
	sort.Strings(fieldKeys)
	for _, k := range fieldKeys {
		v, ok := influx.NewValue(fields[k])
		if !ok {
			continue
		}
		enc.AddField(k, v)
	}

	enc.EndLine(t)
	if err := enc.Err(); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
