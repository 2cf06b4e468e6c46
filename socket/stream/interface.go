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

// Package stream wraps an accepted TCP connection so every byte crossing the
// socket is counted in one place, and exposes the raw socket surface the
// acceptor needs: option get/set passthrough and the NIC receive queue
// identity (NAPI id) used for worker steering.
package stream

import (
	"net"
	"syscall"

	liberr "github.com/nabbar/golib/errors"
)

// How selects the direction(s) closed by Shutdown.
type How uint8

const (
	// ShutRead closes the read side of the stream.
	ShutRead How = iota

	// ShutWrite closes the write side of the stream.
	ShutWrite

	// ShutBoth closes both sides of the stream.
	ShutBoth
)

// New wraps the given accepted TCP connection. It rejects a nil or not yet
// connected stream, so a Stream always has a reachable peer address.
func New(c *net.TCPConn) (*Stream, liberr.Error) {
	if c == nil {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	if c.RemoteAddr() == nil {
		return nil, ErrorNotConnected.Error(nil)
	}

	var (
		o = &Stream{
			cnn: c,
			fd:  -1,
		}
		raw syscall.RawConn
		err error
	)

	if raw, err = c.SyscallConn(); err != nil {
		return nil, ErrorSysConn.Error(err)
	}

	if err = raw.Control(func(fd uintptr) {
		o.fd = int(fd)
	}); err != nil {
		return nil, ErrorSysConn.Error(err)
	}

	o.raw = raw

	return o, nil
}
