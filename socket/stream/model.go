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

package stream

import (
	"net"
	"syscall"
	"time"

	libmet "github.com/sabouaram/acceptor/metrics"
)

// Stream is an instrumented TCP connection. It implements net.Conn so TLS
// negotiation and worker protocol code can layer over it transparently while
// byte counters keep accumulating underneath.
type Stream struct {
	cnn *net.TCPConn
	raw syscall.RawConn
	fd  int

	recv uint64
	sent uint64
	part uint64
}

func (o *Stream) Read(p []byte) (int, error) {
	n, err := o.cnn.Read(p)

	if n > 0 {
		o.recv += uint64(n)
		libmet.TcpRecvByte.Add(float64(n))
	}

	return n, err
}

func (o *Stream) Write(p []byte) (int, error) {
	n, err := o.cnn.Write(p)

	if n > 0 {
		o.sent += uint64(n)
		libmet.TcpSendByte.Add(float64(n))

		if n < len(p) {
			o.part++
			libmet.TcpSendPartial.Inc()
		}
	}

	return n, err
}

// Flush is a no-op: the stream is unbuffered.
func (o *Stream) Flush() error {
	return nil
}

func (o *Stream) Close() error {
	return o.cnn.Close()
}

// Shutdown closes the given direction(s) of the stream without releasing the
// file descriptor.
func (o *Stream) Shutdown(how How) error {
	switch how {
	case ShutRead:
		return o.cnn.CloseRead()
	case ShutWrite:
		return o.cnn.CloseWrite()
	default:
		if err := o.cnn.CloseRead(); err != nil {
			return err
		}
		return o.cnn.CloseWrite()
	}
}

func (o *Stream) LocalAddr() net.Addr {
	return o.cnn.LocalAddr()
}

func (o *Stream) RemoteAddr() net.Addr {
	return o.cnn.RemoteAddr()
}

func (o *Stream) SetDeadline(t time.Time) error {
	return o.cnn.SetDeadline(t)
}

func (o *Stream) SetReadDeadline(t time.Time) error {
	return o.cnn.SetReadDeadline(t)
}

func (o *Stream) SetWriteDeadline(t time.Time) error {
	return o.cnn.SetWriteDeadline(t)
}

// Conn returns the wrapped TCP connection.
func (o *Stream) Conn() *net.TCPConn {
	return o.cnn
}

// FD returns the file descriptor of the stream, for readiness registration.
func (o *Stream) FD() int {
	return o.fd
}

// RecvBytes returns the cumulative number of bytes read from the socket.
func (o *Stream) RecvBytes() uint64 {
	return o.recv
}

// SentBytes returns the cumulative number of bytes written to the socket.
func (o *Stream) SentBytes() uint64 {
	return o.sent
}

// PartialWrites returns the number of writes that sent fewer bytes than given.
func (o *Stream) PartialWrites() uint64 {
	return o.part
}

func (o *Stream) control(f func(fd uintptr)) error {
	return o.raw.Control(f)
}
