// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package main

import (
	"errors"
	"io"
	"net"
	"sync"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"

	"github.com/hgwire/hgwired/internal/eventbus"
	"github.com/hgwire/hgwired/internal/metrics"
	"github.com/hgwire/hgwired/internal/wire"
)

var (
	listener net.Listener
	connWg   sync.WaitGroup
)

// serverStart binds addr and accepts connections in the background,
// returning once the listener is bound so a startup failure is reported
// synchronously to main.
func serverStart(addr string) error {
	var err error
	listener, err = net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	cclog.Infof("wire protocol listener at %s", addr)

	connWg.Add(1)
	go acceptLoop()
	return nil
}

func acceptLoop() {
	defer connWg.Done()
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			cclog.Errorf("wire: accept failed: %v", err)
			continue
		}
		connWg.Add(1)
		go func() {
			defer connWg.Done()
			handleConn(conn)
		}()
	}
}

// handleConn reads from conn, incrementally parsing framed requests with
// an instrumented InputBuffer. Parsed requests are logged, never
// dispatched: executing a parsed request against a real repository is
// out of scope here, this loop only proves the parser holds up against a
// live byte stream.
func handleConn(conn net.Conn) {
	defer conn.Close()
	remote := conn.RemoteAddr()

	buf := metrics.NewInstrumentedBuffer(wire.NewInputBuffer(nil))
	read := make([]byte, 4096)

	for {
		n, rerr := conn.Read(read)
		if n > 0 {
			buf.Append(read[:n])
			for {
				req, ok, perr := buf.Parse()
				if perr != nil {
					kind := metrics.ErrorKind(perr)
					cclog.Warnf("wire: %s: parse error (%s): %v", remote, kind, perr)
					eventbus.PublishParserErrorKind(kind)
					return
				}
				if !ok {
					break
				}
				cclog.Debugf("wire: %s: parsed request kind=%d", remote, req.Kind)
			}
		}
		if rerr != nil {
			if rerr != io.EOF {
				cclog.Debugf("wire: %s: connection closed: %v", remote, rerr)
			}
			return
		}
	}
}

// serverShutdown closes the listener and waits for in-flight connections
// to observe it and return.
func serverShutdown() {
	if listener != nil {
		listener.Close()
	}
	connWg.Wait()
}
