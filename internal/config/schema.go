// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of hgwired.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

var configSchema = `
{
  "type": "object",
  "properties": {
    "listen": {
      "description": "Address the debug/metrics HTTP server listens on (for example: 'localhost:8080').",
      "type": "string"
    },
    "sshListen": {
      "description": "Address the SSH-framed wire-protocol transport listens on (for example: 'localhost:8222').",
      "type": "string"
    },
    "store": {
      "description": "Sqlite-backed generation cache / repository reference store configuration.",
      "type": "object",
      "properties": {
        "path": {
          "description": "Path to the sqlite database file.",
          "type": "string"
        },
        "maxGenerationEntries": {
          "description": "Maximum number of memoized hash->generation entries held in memory.",
          "type": "integer"
        },
        "logSlowQueries": {
          "description": "Wrap the driver with sqlhooks and log every executed query at debug level; no duration threshold is applied.",
          "type": "boolean"
        }
      },
      "required": ["path"]
    },
    "streamBufferSize": {
      "description": "Bound on concurrent repository/generation-cache lookups issued by a single stream's generation-tagging buffer. Not read by any component: revset operators take their buffer size as an argument from their caller.",
      "type": "integer"
    },
    "nats": {
      "description": "NATS connection used to publish stream lifecycle and parser error-kind events.",
      "type": "object",
      "properties": {
        "url": { "type": "string" },
        "subject-prefix": { "type": "string" },
        "username": { "type": "string" },
        "password": { "type": "string" },
        "creds-file-path": { "type": "string" }
      }
    },
    "maintenance": {
      "description": "Periodic background jobs.",
      "type": "object",
      "properties": {
        "generationCachePruneInterval": {
          "description": "How often to prune the in-memory generation cache to half its current size, least recently used entries first (Go duration string).",
          "type": "string"
        },
        "streamHandleGcInterval": {
          "description": "How often to garbage-collect finished stream handles: ones whose stream ended or errored, or was cancelled and then polled (Go duration string).",
          "type": "string"
        },
        "streamHandleTTL": {
          "description": "Minimum age, counted from the handle's creation, a finished stream handle must reach before it is collected (Go duration string).",
          "type": "string"
        }
      }
    },
    "gops": {
      "description": "Accepted but not read: the gops debug agent is started only by the -gops command-line flag.",
      "type": "boolean"
    }
  },
  "required": ["listen", "store"]
}`
