// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package main

import (
	"os"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
)

const configString = `
{
    "listen": "127.0.0.1:8234",
    "sshListen": "127.0.0.1:8222",
    "store": {
        "path": "./var/hgwired.db",
        "maxGenerationEntries": 1000000
    },
    "streamBufferSize": 16,
    "maintenance": {
        "generationCachePruneInterval": "1h",
        "streamHandleGcInterval": "5m",
        "streamHandleTTL": "15m"
    }
}
`

func initEnv() {
	if _, err := os.Stat("var"); err == nil {
		cclog.Abort("Directory ./var already exists. Cautiously exiting application initialization.")
	}

	if err := os.WriteFile(flagConfigFile, []byte(configString), 0o666); err != nil {
		cclog.Abortf("Could not write default %s with permissions '0o666'. Application initialization failed, exited.\nError: %s\n", flagConfigFile, err.Error())
	}

	if err := os.Mkdir("var", 0o777); err != nil {
		cclog.Abortf("Could not create default ./var folder with permissions '0o777'. Application initialization failed, exited.\nError: %s\n", err.Error())
	}
}
