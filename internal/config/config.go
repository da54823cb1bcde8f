// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package config

import (
	"bytes"
	"encoding/json"
	"os"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
)

// StoreConfig configures the sqlite-backed reference GenerationCache and
// Repository implementation.
type StoreConfig struct {
	Path                 string `json:"path"`
	MaxGenerationEntries int    `json:"maxGenerationEntries"`
	LogSlowQueries       bool   `json:"logSlowQueries"`
}

// NatsConfig configures the event bus used to publish stream lifecycle
// and parser error-kind events.
type NatsConfig struct {
	URL           string `json:"url"`
	SubjectPrefix string `json:"subject-prefix"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	CredsFilePath string `json:"creds-file-path"`
}

// MaintenanceConfig configures the periodic background jobs.
type MaintenanceConfig struct {
	GenerationCachePruneInterval string `json:"generationCachePruneInterval"`
	StreamHandleGcInterval       string `json:"streamHandleGcInterval"`
	StreamHandleTTL              string `json:"streamHandleTTL"`
}

// ProgramConfig is the top-level configuration for hgwired.
type ProgramConfig struct {
	Listen           string            `json:"listen"`
	SSHListen        string            `json:"sshListen"`
	Store            StoreConfig       `json:"store"`
	StreamBufferSize int               `json:"streamBufferSize"`
	Nats             *NatsConfig       `json:"nats"`
	Maintenance      MaintenanceConfig `json:"maintenance"`
	Gops             bool              `json:"gops"`
}

// Keys holds the active configuration, populated by Init.
var Keys ProgramConfig = ProgramConfig{
	Listen:    ":8234",
	SSHListen: ":8222",
	Store: StoreConfig{
		Path:                 "./var/hgwired.db",
		MaxGenerationEntries: 1_000_000,
	},
	StreamBufferSize: 16,
	Maintenance: MaintenanceConfig{
		GenerationCachePruneInterval: "1h",
		StreamHandleGcInterval:       "5m",
		StreamHandleTTL:              "15m",
	},
}

// Init reads flagConfigFile, validates it against the embedded JSON
// schema, and decodes it into Keys, rejecting unknown fields. A missing
// file is not an error: the defaults above are used as-is.
func Init(flagConfigFile string) {
	raw, err := os.ReadFile(flagConfigFile)
	if err != nil {
		if !os.IsNotExist(err) {
			cclog.Fatal(err)
		}
		return
	}

	Validate(configSchema, raw)

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&Keys); err != nil {
		cclog.Fatal(err)
	}

	if Keys.Listen == "" {
		cclog.Fatal("listen address must not be empty")
	}
	if Keys.Store.Path == "" {
		cclog.Fatal("store.path must not be empty")
	}
}
