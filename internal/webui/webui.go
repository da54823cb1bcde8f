// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package webui serves hgwired's debug and observability HTTP surface:
// Prometheus metrics, a liveness probe, a JSON listing of live stream
// handles, and a generation-cache lookup endpoint. It never touches the
// SSH wire-protocol transport itself.
package webui

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hgwire/hgwired/internal/handles"
	"github.com/hgwire/hgwired/internal/metrics"
	"github.com/hgwire/hgwired/internal/revset"
)

var server *http.Server

// Start builds the router and begins serving on addr in the background.
// It returns once the listener is bound, so a startup failure is
// reported synchronously; errors occurring after that are logged from
// the background goroutine, matching cmd/cc-backend's server pattern.
// cache backs /debug/generation/{hash}; it is typically the durable,
// store-backed GenerationCache so a lookup here reflects what is
// actually persisted in the generations table, not just what a live
// stream has touched.
func Start(addr string, registry *handles.Registry, cache revset.GenerationCache) error {
	router := mux.NewRouter()

	router.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	router.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		rw.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	router.HandleFunc("/debug/streams", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(rw).Encode(registry.List()); err != nil {
			cclog.Errorf("webui: encoding /debug/streams response failed: %v", err)
		}
	}).Methods(http.MethodGet)

	router.HandleFunc("/debug/generation/{hash}", func(rw http.ResponseWriter, r *http.Request) {
		raw, err := hex.DecodeString(mux.Vars(r)["hash"])
		if err != nil || len(raw) != len(revset.NodeHash{}) {
			http.Error(rw, "hash must be 40 hex characters", http.StatusBadRequest)
			return
		}
		var hash revset.NodeHash
		copy(hash[:], raw)

		gen, err := cache.Generation(r.Context(), hash)
		if err != nil {
			var noSuchNode *revset.ErrNoSuchNode
			if errors.As(err, &noSuchNode) {
				http.Error(rw, err.Error(), http.StatusNotFound)
				return
			}
			cclog.Errorf("webui: generation lookup for %s failed: %v", hash, err)
			http.Error(rw, "generation lookup failed", http.StatusInternalServerError)
			return
		}

		rw.Header().Set("Content-Type", "application/json")
		json.NewEncoder(rw).Encode(struct {
			Hash       string           `json:"hash"`
			Generation revset.Generation `json:"generation"`
		}{Hash: hash.String(), Generation: gen})
	}).Methods(http.MethodGet)

	router.Use(handlers.RecoveryHandler(handlers.PrintRecoveryStack(true)))

	logged := handlers.CustomLoggingHandler(io.Discard, router, func(_ io.Writer, params handlers.LogFormatterParams) {
		cclog.Debugf("%s %s (%d, %.02fkb, %dms)",
			params.Request.Method, params.URL.RequestURI(),
			params.StatusCode, float32(params.Size)/1024,
			time.Since(params.TimeStamp).Milliseconds())
	})

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	server = &http.Server{
		Handler:      logged,
		ReadTimeout:  20 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	cclog.Infof("webui: debug/metrics server listening at %s", addr)
	go func() {
		if err := server.Serve(listener); err != nil && !strings.Contains(err.Error(), "use of closed network connection") && err != http.ErrServerClosed {
			cclog.Errorf("webui: serve failed: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the debug/metrics server, waiting for
// in-flight requests to finish or ctx to be done.
func Shutdown(ctx context.Context) {
	if server != nil {
		server.Shutdown(ctx)
	}
}
