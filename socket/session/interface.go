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

// Package session holds the logical unit of an accepted connection: a plain
// stream, an in-progress TLS handshake, or an established TLS stream, plus
// the read/write buffers the worker will use to serve it.
//
// A session is exactly one of the three shapes at a time. A handshaking
// session becomes established at most once, then leaves the acceptor for a
// worker queue and never comes back.
package session

import (
	"net"

	liberr "github.com/nabbar/golib/errors"
	libstm "github.com/sabouaram/acceptor/socket/stream"
)

// Kind discriminates the shape of a session.
type Kind uint8

const (
	// KindPlain is a cleartext TCP session.
	KindPlain Kind = iota

	// KindHandshake is a TLS session whose handshake is still in flight.
	KindHandshake

	// KindTLS is a TLS session with a completed handshake.
	KindTLS
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindHandshake:
		return "handshaking"
	case KindTLS:
		return "tls"
	default:
		return "unknown"
	}
}

// Session is an accepted connection in one of its three shapes, carrying the
// read/write buffers of its future worker.
type Session struct {
	knd Kind
	stm *libstm.Stream
	cnn net.Conn
	hsk Handshaker

	rbuf *Buffer
	wbuf *Buffer
}

// NewPlain builds a cleartext session over the given stream, with buffers of
// the given initial and maximum capacity.
func NewPlain(stm *libstm.Stream, initCap, maxCap int) *Session {
	return &Session{
		knd:  KindPlain,
		stm:  stm,
		cnn:  stm,
		rbuf: NewBuffer(initCap, maxCap),
		wbuf: NewBuffer(initCap, maxCap),
	}
}

// NewHandshake builds a session around a TLS handshake still in flight over
// the given stream.
func NewHandshake(hsk Handshaker, stm *libstm.Stream, initCap, maxCap int) *Session {
	return &Session{
		knd:  KindHandshake,
		stm:  stm,
		hsk:  hsk,
		rbuf: NewBuffer(initCap, maxCap),
		wbuf: NewBuffer(initCap, maxCap),
	}
}

// NewTLS builds a session around a completed TLS stream layered over the
// given stream.
func NewTLS(cnn net.Conn, stm *libstm.Stream, initCap, maxCap int) *Session {
	return &Session{
		knd:  KindTLS,
		stm:  stm,
		cnn:  cnn,
		rbuf: NewBuffer(initCap, maxCap),
		wbuf: NewBuffer(initCap, maxCap),
	}
}

// Kind returns the current shape of the session.
func (o *Session) Kind() Kind {
	return o.knd
}

// Stream returns the instrumented TCP stream under the session, whatever its
// shape.
func (o *Session) Stream() *libstm.Stream {
	return o.stm
}

// Conn returns the connection a worker should serve: the stream itself for a
// plain session, the TLS stream for an established one, nil while the
// handshake is in flight.
func (o *Session) Conn() net.Conn {
	return o.cnn
}

// ReadBuffer returns the inbound buffer of the session.
func (o *Session) ReadBuffer() *Buffer {
	return o.rbuf
}

// WriteBuffer returns the outbound buffer of the session.
func (o *Session) WriteBuffer() *Buffer {
	return o.wbuf
}

// DoHandshake drives the TLS handshake of a handshaking session one step.
// It returns nil once the handshake completed, turning the session into an
// established TLS session; an error marked would-block (see IsWouldBlock)
// while more I/O is needed; any other error is fatal to the session.
//
// A plain or already established session reports completion immediately.
func (o *Session) DoHandshake() liberr.Error {
	if o.knd != KindHandshake {
		return nil
	}

	if err := o.hsk.Handshake(); err != nil {
		return err
	}

	o.knd = KindTLS
	o.cnn = o.hsk.Conn()
	o.hsk = nil

	return nil
}

// Close releases the connection of the session.
func (o *Session) Close() error {
	if o.cnn != nil && o.cnn != net.Conn(o.stm) {
		_ = o.cnn.Close()
	}

	if o.stm != nil {
		return o.stm.Close()
	}

	return nil
}
