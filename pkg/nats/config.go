// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of hgwired.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nats

// NatsConfig holds the configuration for connecting to a NATS server.
// Unlike the upstream pattern this package was adapted from, hgwired's
// config.ProgramConfig owns the single JSON schema for the whole process
// (internal/config/schema.go's "nats" property), so this package takes
// its config as a plain value passed to Init rather than decoding its own
// JSON independently.
type NatsConfig struct {
	URL           string // NATS server address (e.g., "nats://localhost:4222")
	Username      string // Username for authentication (optional)
	Password      string // Password for authentication (optional)
	CredsFilePath string // Path to credentials file (optional)
}

// Keys holds the active NATS configuration, set by Init.
var Keys NatsConfig

// Init sets the package-level Keys used by Connect.
func Init(cfg NatsConfig) {
	Keys = cfg
}
