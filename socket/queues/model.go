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

package queues

import (
	"math/rand"

	liberr "github.com/nabbar/golib/errors"
	libses "github.com/sabouaram/acceptor/socket/session"
)

type ses struct {
	chn []chan *libses.Session
	wak []Waker
}

func (o *ses) TrySendAny(s *libses.Session) liberr.Error {
	// start at a random queue, then walk the ring so a full queue never
	// shadows a free one
	n := len(o.chn)

	for i, p := 0, rand.Intn(n); i < n; i++ { // nolint #nosec
		select {
		case o.chn[(p+i)%n] <- s:
			return nil
		default:
		}
	}

	return ErrorAllQueuesFull.Error(nil)
}

func (o *ses) TrySendTo(worker int, s *libses.Session) liberr.Error {
	if worker < 0 || worker >= len(o.chn) {
		return ErrorWorkerUnknown.Error(nil)
	}

	select {
	case o.chn[worker] <- s:
		return nil
	default:
		return ErrorQueueFull.Error(nil)
	}
}

func (o *ses) Wake() {
	for _, w := range o.wak {
		if w != nil {
			_ = w.Wake()
		}
	}
}

func (o *ses) Recv(worker int) <-chan *libses.Session {
	if worker < 0 || worker >= len(o.chn) {
		return nil
	}

	return o.chn[worker]
}

func (o *ses) Workers() int {
	return len(o.chn)
}

type sig struct {
	chn chan Signal
}

func (o *sig) TrySend(s Signal) liberr.Error {
	select {
	case o.chn <- s:
		return nil
	default:
		return ErrorQueueFull.Error(nil)
	}
}

func (o *sig) TryRecv() (Signal, bool) {
	select {
	case s := <-o.chn:
		return s, true
	default:
		return 0, false
	}
}
