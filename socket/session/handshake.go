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

package session

import (
	"crypto/tls"
	"net"

	liberr "github.com/nabbar/golib/errors"
)

// Handshaker is an in-flight TLS negotiation over an accepted stream.
//
// Handshake is polled by the acceptor thread on each readiness event of the
// underlying socket: it reports nil on completion, a would-block error while
// more I/O is needed, any other error on a fatal handshake failure. After
// completion, Conn returns the established stream.
//
// A Handshaker is not safe for concurrent use: it is driven by the single
// acceptor thread only.
type Handshaker interface {
	Handshake() liberr.Error
	Conn() net.Conn
}

// NewTlsHandshake starts a server-side TLS negotiation over the given
// connection. crypto/tls drives the record layer on an internal goroutine;
// Handshake only observes its progress, so polling it never blocks the
// acceptor. notify, when not nil, is invoked once as soon as the negotiation
// settles, letting the acceptor re-check the session without waiting for the
// next socket event.
func NewTlsHandshake(cfg *tls.Config, cnn net.Conn, notify func()) Handshaker {
	return &tlsHandshake{
		cnn: tls.Server(cnn, cfg),
		dne: make(chan error, 1),
		ntf: notify,
	}
}

type tlsHandshake struct {
	cnn *tls.Conn
	dne chan error
	ntf func()
	run bool
	end bool
	err error
}

func (o *tlsHandshake) Handshake() liberr.Error {
	if o.end {
		if o.err != nil {
			return ErrorHandshakeFailed.Error(o.err)
		}
		return nil
	}

	if !o.run {
		o.run = true

		go func() {
			o.dne <- o.cnn.Handshake()

			if o.ntf != nil {
				o.ntf()
			}
		}()
	}

	select {
	case e := <-o.dne:
		o.end = true
		o.err = e

		if e != nil {
			return ErrorHandshakeFailed.Error(e)
		}

		return nil
	default:
		return ErrorHandshakeWouldBlock.Error(nil)
	}
}

func (o *tlsHandshake) Conn() net.Conn {
	return o.cnn
}
