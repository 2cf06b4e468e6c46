//go:build linux

/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package listener implements the acceptor of the server: a dedicated thread
// owning the listening socket, driving TCP accept, TLS negotiation and
// worker steering, and terminating on an out-of-band shutdown signal.
//
// The acceptor never blocks outside of its readiness wait. Per-connection
// failures never escape the loop: they surface as counters and log lines
// while the acceptor keeps serving.
package listener

import (
	"crypto/tls"
	"net"

	liberr "github.com/nabbar/golib/errors"
	libcfg "github.com/sabouaram/acceptor/config"
	liblog "github.com/sabouaram/acceptor/logging"
	libpol "github.com/sabouaram/acceptor/socket/poller"
	libque "github.com/sabouaram/acceptor/socket/queues"
)

// Listener is the acceptor front-end of the server.
type Listener interface {
	// Run drives the accept loop until a Shutdown signal arrives. It owns
	// the calling goroutine and releases every OS resource on return.
	Run()

	// Waker returns the handle an external controller signals after
	// enqueueing into the signal queue.
	Waker() libque.Waker

	// Addr returns the bound listen address.
	Addr() net.Addr
}

// New captures the config snapshot, creates the readiness instance, binds
// the listening socket and stores the queue endpoints. The returned Listener
// is ready for Run.
func New(cfg *libcfg.Config, sig libque.Signals, ses libque.Sessions, log liblog.Logger) (Listener, liberr.Error) {
	if cfg == nil || sig == nil || ses == nil {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	if err := cfg.Validate(); err != nil {
		return nil, ErrorValidatorError.Error(err)
	}

	if log == nil {
		log = liblog.New(nil)
	}

	var tlsCfg *tls.Config
	if cfg.TLS != nil {
		tlsCfg = cfg.TLS.TlsConfig("")
	}

	pol, err := libpol.New()
	if err != nil {
		return nil, err
	}

	if err = pol.Bind(cfg.Server.Addr); err != nil {
		_ = pol.Close()
		return nil, err
	}

	return &lstn{
		nevent:  cfg.Server.NEvent,
		timeout: cfg.Server.Timeout.Time(),
		workers: cfg.Worker.Threads,
		balance: cfg.Worker.Balance,
		prio:    cfg.Tcp.Priority,
		bufSize: cfg.Session.BufferSize,
		bufMax:  cfg.Session.BufferSizeMax,
		tls:     tlsCfg,
		pol:     pol,
		sig:     sig,
		ses:     ses,
		nap:     &napiMap{},
		log:     log.WithFields(liblog.Fields{liblog.FieldComponent: "listener"}),
	}, nil
}
