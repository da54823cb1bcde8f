// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
	"github.com/google/gops/agent"

	"github.com/hgwire/hgwired/internal/config"
	"github.com/hgwire/hgwired/internal/eventbus"
	"github.com/hgwire/hgwired/internal/handles"
	"github.com/hgwire/hgwired/internal/maintenance"
	"github.com/hgwire/hgwired/internal/runtimeEnv"
	"github.com/hgwire/hgwired/internal/store"
	"github.com/hgwire/hgwired/internal/webui"
)

var (
	version   = "development"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	cliInit()

	if flagVersion {
		fmt.Printf("hgwired version %s, commit %s, built %s\n", version, commit, buildTime)
		return
	}

	cclog.Init(flagLogLevel, flagLogDateTime)

	if flagGops {
		if err := agent.Listen(agent.Options{}); err != nil {
			cclog.Fatalf("gops/agent.Listen failed: %s", err.Error())
		}
	}

	if err := runtimeEnv.LoadEnv("./.env"); err != nil && !os.IsNotExist(err) {
		cclog.Fatalf("parsing './.env' file failed: %s", err.Error())
	}

	if flagInit {
		initEnv()
		return
	}

	config.Init(flagConfigFile)

	repo, generationCache, memo, err := store.Open(config.Keys.Store)
	if err != nil {
		cclog.Fatalf("opening store failed: %s", err.Error())
	}
	defer repo.Close()

	eventbus.Init(config.Keys.Nats)

	registry := handles.NewRegistry()

	if err := maintenance.Start(config.Keys.Maintenance, memo, registry); err != nil {
		cclog.Fatalf("starting maintenance scheduler failed: %s", err.Error())
	}

	if err := webui.Start(config.Keys.Listen, registry, generationCache); err != nil {
		cclog.Fatalf("starting debug/metrics server failed: %s", err.Error())
	}

	if err := serverStart(config.Keys.SSHListen); err != nil {
		cclog.Fatalf("starting wire protocol listener failed: %s", err.Error())
	}

	if os.Getenv("GOGC") == "" {
		debug.SetGCPercent(25)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	runtimeEnv.SystemdNotifiy(true, "running")
	<-sigs

	runtimeEnv.SystemdNotifiy(false, "shutting down")
	serverShutdown()
	maintenance.Shutdown()
	webui.Shutdown(context.Background())
	cclog.Info("graceful shutdown completed")
}
