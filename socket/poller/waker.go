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

package poller

import (
	"encoding/binary"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// Waker nudges a Poller blocked in Poll from any thread. It is backed by an
// eventfd registered under WakerToken and is safe for concurrent use, even
// against the owning poller closing.
type Waker struct {
	fd atomic.Int64
}

func newWaker(fd int) *Waker {
	w := &Waker{}
	w.fd.Store(int64(fd))
	return w
}

// Wake signals the poller. Signalling an already pending waker, or one whose
// poller has been closed, is a no-op.
func (o *Waker) Wake() error {
	fd := o.fd.Load()
	if fd < 0 {
		return nil
	}

	var b [8]byte

	binary.LittleEndian.PutUint64(b[:], 1)

	if _, err := unix.Write(int(fd), b[:]); err != nil && err != unix.EAGAIN {
		return err
	}

	return nil
}

// drain resets the eventfd counter so edge-triggered polling re-arms.
func (o *Waker) drain() {
	fd := o.fd.Load()
	if fd < 0 {
		return
	}

	var b [8]byte

	for {
		if _, err := unix.Read(int(fd), b[:]); err != nil {
			return
		}
	}
}

// close releases the eventfd, turning further wakes into no-ops.
func (o *Waker) close() {
	if fd := o.fd.Swap(-1); fd >= 0 {
		_ = unix.Close(int(fd))
	}
}
