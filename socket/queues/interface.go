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

// Package queues carries the two channel families spanning the acceptor and
// its collaborators: bounded per-worker session queues from the acceptor to
// the worker pool, and a bounded signal queue from external controllers to
// the acceptor.
//
// All sends are non-blocking try forms failing on full: bounded queues are
// the only backpressure of the acceptor.
package queues

import (
	liberr "github.com/nabbar/golib/errors"
	libses "github.com/sabouaram/acceptor/socket/session"
)

const (
	// DefaultCapacity is the per-worker session queue depth.
	DefaultCapacity = 1024

	// DefaultSignalCapacity is the signal queue depth.
	DefaultSignalCapacity = 16
)

// Waker is a cross-thread nudge causing a blocked readiness wait to return
// promptly. The poller waker of the acceptor and of every worker satisfies
// it.
type Waker interface {
	Wake() error
}

// Sessions is the bounded fan-out from the acceptor to the worker pool.
//
// All Try sends run on the single acceptor thread; Recv endpoints are each
// drained by their own worker.
type Sessions interface {
	// TrySendAny places the session on a uniformly random non-full worker
	// queue, failing only when every queue is full.
	TrySendAny(s *libses.Session) liberr.Error

	// TrySendTo places the session on the given worker queue, failing when
	// that queue is full.
	TrySendTo(worker int, s *libses.Session) liberr.Error

	// Wake nudges every worker so it observes newly enqueued sessions.
	Wake()

	// Recv returns the receive endpoint of the given worker.
	Recv(worker int) <-chan *libses.Session

	// Workers returns the number of worker queues.
	Workers() int
}

// NewSessions builds the session fan-out with one bounded queue per worker.
// wakers may be nil, or hold a nil entry for a worker without one.
func NewSessions(workers, capacity int, wakers []Waker) (Sessions, liberr.Error) {
	if workers < 1 || capacity < 1 {
		return nil, ErrorParamsInvalid.Error(nil)
	}

	if wakers != nil && len(wakers) != workers {
		return nil, ErrorParamsInvalid.Error(nil)
	}

	q := &ses{
		chn: make([]chan *libses.Session, workers),
		wak: wakers,
	}

	for i := range q.chn {
		q.chn[i] = make(chan *libses.Session, capacity)
	}

	return q, nil
}

// Signals is the bounded out-of-band channel from external controllers to
// the acceptor. Sends may come from any thread; TryRecv is called by the
// acceptor only.
type Signals interface {
	// TrySend enqueues the signal without blocking, failing on full.
	TrySend(s Signal) liberr.Error

	// TryRecv pops a pending signal without blocking.
	TryRecv() (Signal, bool)
}

// NewSignals builds a bounded signal queue.
func NewSignals(capacity int) (Signals, liberr.Error) {
	if capacity < 1 {
		return nil, ErrorParamsInvalid.Error(nil)
	}

	return &sig{
		chn: make(chan Signal, capacity),
	}, nil
}
