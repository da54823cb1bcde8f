// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package maintenance runs hgwired's periodic background jobs: pruning
// the in-memory generation cache and garbage-collecting abandoned stream
// handles. Both jobs run on a single gocron scheduler, the same pattern
// cc-backend's task manager uses for its own periodic workers.
package maintenance

import (
	"time"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
	"github.com/go-co-op/gocron/v2"

	"github.com/hgwire/hgwired/internal/config"
	"github.com/hgwire/hgwired/internal/handles"
	"github.com/hgwire/hgwired/internal/revset"
)

var s gocron.Scheduler

func parseDuration(raw, fallback string) time.Duration {
	if raw == "" {
		raw = fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		cclog.Warnf("maintenance: could not parse duration %q, falling back to %s: %v", raw, fallback, err)
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

// Start creates the scheduler and registers the generation-cache-prune
// and stream-handle-GC jobs against cache and registry, using the
// intervals in cfg (falling back to sane defaults for anything unset).
// The scheduler is started before Start returns.
func Start(cfg config.MaintenanceConfig, cache *revset.MemoCache, registry *handles.Registry) error {
	var err error
	s, err = gocron.NewScheduler()
	if err != nil {
		return err
	}

	registerGenerationCachePrune(cfg, cache)
	registerStreamHandleGC(cfg, registry)

	s.Start()
	return nil
}

func registerGenerationCachePrune(cfg config.MaintenanceConfig, cache *revset.MemoCache) {
	interval := parseDuration(cfg.GenerationCachePruneInterval, "1h")
	cclog.Infof("maintenance: registering generation cache prune with %s interval", interval)

	_, err := s.NewJob(gocron.DurationJob(interval),
		gocron.NewTask(func() {
			before := cache.Len()
			start := time.Now()
			removed := cache.PruneToSize(before / 2)
			cclog.Debugf("maintenance: pruned %d/%d generation cache entries in %s", removed, before, time.Since(start))
		}))
	if err != nil {
		cclog.Errorf("maintenance: registering generation cache prune failed: %v", err)
	}
}

func registerStreamHandleGC(cfg config.MaintenanceConfig, registry *handles.Registry) {
	interval := parseDuration(cfg.StreamHandleGcInterval, "5m")
	ttl := parseDuration(cfg.StreamHandleTTL, "15m")
	cclog.Infof("maintenance: registering stream handle gc with %s interval, %s ttl", interval, ttl)

	_, err := s.NewJob(gocron.DurationJob(interval),
		gocron.NewTask(func() {
			removed := registry.GC(ttl)
			if removed > 0 {
				cclog.Debugf("maintenance: collected %d abandoned stream handles", removed)
			}
		}))
	if err != nil {
		cclog.Errorf("maintenance: registering stream handle gc failed: %v", err)
	}
}

// Shutdown stops the scheduler, blocking until its running jobs finish.
func Shutdown() {
	if s != nil {
		s.Shutdown()
	}
}
