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

package listener

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	cfgbal "github.com/sabouaram/acceptor/config/balance"
	liblog "github.com/sabouaram/acceptor/logging"
	libque "github.com/sabouaram/acceptor/socket/queues"
	libses "github.com/sabouaram/acceptor/socket/session"
)

var _ = Describe("NAPI Map", func() {
	It("should keep the first-seen position of every distinct id", func() {
		m := &napiMap{}

		pos, fresh, full := m.position(7)
		Expect(pos).To(Equal(0))
		Expect(fresh).To(BeTrue())
		Expect(full).To(BeFalse())

		pos, fresh, _ = m.position(9)
		Expect(pos).To(Equal(1))
		Expect(fresh).To(BeTrue())

		// re-observing an id is a no-op on the map
		pos, fresh, _ = m.position(7)
		Expect(pos).To(Equal(0))
		Expect(fresh).To(BeFalse())
		Expect(m.size()).To(Equal(2))
	})

	It("should refuse new ids past its cap", func() {
		m := &napiMap{}

		for i := 0; i < napiMapMax; i++ {
			_, _, full := m.position(uint32(i + 1))
			Expect(full).To(BeFalse())
		}

		_, _, full := m.position(uint32(napiMapMax + 1))
		Expect(full).To(BeTrue())
		Expect(m.size()).To(Equal(napiMapMax))

		// known ids keep resolving after the cap is hit
		pos, fresh, full := m.position(1)
		Expect(pos).To(Equal(0))
		Expect(fresh).To(BeFalse())
		Expect(full).To(BeFalse())
	})
})

var _ = Describe("Queue Steering", func() {
	var (
		q libque.Sessions
		l *lstn
	)

	BeforeEach(func() {
		var err error
		q, err = libque.NewSessions(2, 8, nil)
		Expect(err).To(BeNil())

		l = &lstn{
			workers: 2,
			balance: cfgbal.Queues,
			ses:     q,
			nap:     &napiMap{},
			log:     liblog.New(nil),
		}
	})

	It("should pin a stable NAPI id to one worker", func() {
		for i := 0; i < 3; i++ {
			l.sendTo(libses.NewPlain(nil, 1, 1), 7)
		}

		Expect(len(q.Recv(0))).To(Equal(3))
		Expect(len(q.Recv(1))).To(Equal(0))
		Expect(l.nap.size()).To(Equal(1))
	})

	It("should spread distinct NAPI ids over the workers in first-seen order", func() {
		l.sendTo(libses.NewPlain(nil, 1, 1), 7)
		l.sendTo(libses.NewPlain(nil, 1, 1), 9)
		l.sendTo(libses.NewPlain(nil, 1, 1), 7)

		Expect(len(q.Recv(0))).To(Equal(2))
		Expect(len(q.Recv(1))).To(Equal(1))
	})

	It("should fold the id space onto a single worker when only one exists", func() {
		var err error
		q, err = libque.NewSessions(1, 8, nil)
		Expect(err).To(BeNil())

		l.workers = 1
		l.ses = q

		l.sendTo(libses.NewPlain(nil, 1, 1), 7)
		l.sendTo(libses.NewPlain(nil, 1, 1), 9)
		l.sendTo(libses.NewPlain(nil, 1, 1), 11)

		Expect(len(q.Recv(0))).To(Equal(3))
	})
})
