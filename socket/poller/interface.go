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

// Package poller owns the edge-triggered readiness primitive of the
// acceptor: the epoll instance, the listening socket, an eventfd waker
// reachable from other threads, and the slab of in-flight TLS handshake
// sessions keyed by token.
//
// Except for the waker, a Poller belongs to the single acceptor thread.
package poller

import (
	"net"
	"time"

	liberr "github.com/nabbar/golib/errors"
	libses "github.com/sabouaram/acceptor/socket/session"
	libstm "github.com/sabouaram/acceptor/socket/stream"
)

// Token identifies a registered readiness source. Values above WakerToken
// identify in-flight handshake sessions; tokens are allocated monotonically.
type Token uint64

const (
	// ListenerToken is the reserved token of the listening socket.
	ListenerToken Token = iota

	// WakerToken is the reserved token of the cross-thread wakeup handle.
	WakerToken

	firstSessionToken
)

// Event is one readiness notification, translated from the kernel.
type Event struct {
	Token    Token
	Readable bool
	Writable bool
	Error    bool
}

// Poller is the readiness surface of the acceptor.
type Poller interface {
	// Bind creates the listening socket on the given address and registers
	// it under ListenerToken with edge-triggered read interest.
	Bind(addr string) liberr.Error

	// Addr returns the bound listen address, nil before Bind.
	Addr() net.Addr

	// Waker returns the cross-thread wakeup handle. Signalling it makes a
	// pending Poll return promptly with a WakerToken event.
	Waker() *Waker

	// Poll blocks up to timeout and fills evs with ready events, returning
	// how many were delivered. A negative timeout blocks indefinitely.
	Poll(evs []Event, timeout time.Duration) (int, liberr.Error)

	// Accept takes one pending connection off the listening socket. In
	// edge-triggered mode the caller must Reregister(ListenerToken) to
	// keep receiving readiness.
	Accept() (*libstm.Stream, net.Addr, liberr.Error)

	// Reregister re-arms the interest of the given token.
	Reregister(t Token) liberr.Error

	// AddSession allocates a fresh token, registers the session's stream
	// and stores the session in the handshake slab.
	AddSession(s *libses.Session) (Token, liberr.Error)

	// GetSession looks up a handshaking session by token.
	GetSession(t Token) (*libses.Session, bool)

	// RemoveSession deregisters the session's stream and extracts the
	// session from the slab.
	RemoveSession(t Token) (*libses.Session, liberr.Error)

	// Sessions returns the tokens of all in-flight handshake sessions.
	Sessions() []Token

	// Close releases the epoll instance, the waker, the listening socket
	// and every session still in the slab.
	Close() error
}

// New creates the kernel readiness instance and its waker.
func New() (Poller, liberr.Error) {
	return newPoller()
}
