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

package poller_test

import (
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libpol "github.com/sabouaram/acceptor/socket/poller"
	libses "github.com/sabouaram/acceptor/socket/session"
	libstm "github.com/sabouaram/acceptor/socket/stream"
)

var _ = Describe("Socket Poller", func() {
	var p libpol.Poller

	BeforeEach(func() {
		var err error
		p, err = libpol.New()
		Expect(err).To(BeNil())
	})

	AfterEach(func() {
		if p != nil {
			_ = p.Close()
		}
	})

	Describe("Bind", func() {
		It("should bind an ephemeral port and expose its address", func() {
			Expect(p.Addr()).To(BeNil())
			Expect(p.Bind("127.0.0.1:0")).To(BeNil())
			Expect(p.Addr()).ToNot(BeNil())
		})

		It("should fail on a bad listen address", func() {
			Expect(p.Bind("300.300.300.300:0")).To(HaveOccurred())
		})
	})

	Describe("Waker", func() {
		It("should make a pending poll return promptly", func() {
			w := p.Waker()
			Expect(w).ToNot(BeNil())

			go func() {
				time.Sleep(50 * time.Millisecond)
				_ = w.Wake()
			}()

			start := time.Now()
			ev, ok := pollFor(p, libpol.WakerToken, 5*time.Second)
			Expect(ok).To(BeTrue())
			Expect(ev.Readable).To(BeTrue())
			Expect(time.Since(start)).To(BeNumerically("<", time.Second))
		})

		It("waking twice before a poll should deliver a single event", func() {
			w := p.Waker()
			Expect(w.Wake()).To(Succeed())
			Expect(w.Wake()).To(Succeed())

			_, ok := pollFor(p, libpol.WakerToken, time.Second)
			Expect(ok).To(BeTrue())

			// drained: no further waker readiness without a new wake
			_, ok = pollFor(p, libpol.WakerToken, 200*time.Millisecond)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Accept", func() {
		It("should report would-block without pending connections", func() {
			Expect(p.Bind("127.0.0.1:0")).To(BeNil())

			s, _, err := p.Accept()
			Expect(s).To(BeNil())
			Expect(err).To(HaveOccurred())
			Expect(libpol.IsWouldBlock(err)).To(BeTrue())
		})

		It("should hand out a connected, instrumented stream", func() {
			Expect(p.Bind("127.0.0.1:0")).To(BeNil())

			cli, e := net.Dial("tcp", p.Addr().String())
			Expect(e).ToNot(HaveOccurred())
			defer func() {
				_ = cli.Close()
			}()

			_, ok := pollFor(p, libpol.ListenerToken, 5*time.Second)
			Expect(ok).To(BeTrue())

			s, addr, err := p.Accept()
			Expect(err).To(BeNil())
			Expect(s).ToNot(BeNil())
			Expect(addr.String()).To(Equal(cli.LocalAddr().String()))

			_ = s.Close()
		})

		It("reregistering the listener should be idempotent for accepts", func() {
			Expect(p.Bind("127.0.0.1:0")).To(BeNil())
			Expect(p.Reregister(libpol.ListenerToken)).To(BeNil())
			Expect(p.Reregister(libpol.ListenerToken)).To(BeNil())

			cli, e := net.Dial("tcp", p.Addr().String())
			Expect(e).ToNot(HaveOccurred())
			defer func() {
				_ = cli.Close()
			}()

			_, ok := pollFor(p, libpol.ListenerToken, 5*time.Second)
			Expect(ok).To(BeTrue())

			s, _, err := p.Accept()
			Expect(err).To(BeNil())
			_ = s.Close()
		})
	})

	Describe("Handshake slab", func() {
		It("should register, look up, notify and remove a session", func() {
			Expect(p.Bind("127.0.0.1:0")).To(BeNil())

			cli, e := net.Dial("tcp", p.Addr().String())
			Expect(e).ToNot(HaveOccurred())
			defer func() {
				_ = cli.Close()
			}()

			_, ok := pollFor(p, libpol.ListenerToken, 5*time.Second)
			Expect(ok).To(BeTrue())

			stm, _, err := p.Accept()
			Expect(err).To(BeNil())

			ses := libses.NewPlain(stm, 64, 256)

			tok, err := p.AddSession(ses)
			Expect(err).To(BeNil())
			Expect(tok).To(BeNumerically(">", libpol.WakerToken))
			Expect(p.Sessions()).To(HaveLen(1))

			got, k := p.GetSession(tok)
			Expect(k).To(BeTrue())
			Expect(got).To(Equal(ses))

			// data on the registered stream surfaces as a readable event
			_, e = cli.Write([]byte("ping"))
			Expect(e).ToNot(HaveOccurred())

			ev, k := pollFor(p, tok, 5*time.Second)
			Expect(k).To(BeTrue())
			Expect(ev.Readable).To(BeTrue())

			rm, err := p.RemoveSession(tok)
			Expect(err).To(BeNil())
			Expect(rm).To(Equal(ses))
			Expect(p.Sessions()).To(BeEmpty())

			_, err = p.RemoveSession(tok)
			Expect(err).To(HaveOccurred())

			_ = ses.Close()
		})

		It("tokens should be allocated monotonically", func() {
			Expect(p.Bind("127.0.0.1:0")).To(BeNil())

			var last libpol.Token

			for i := 0; i < 3; i++ {
				cli, e := net.Dial("tcp", p.Addr().String())
				Expect(e).ToNot(HaveOccurred())
				defer func() {
					_ = cli.Close()
				}()

				_, ok := pollFor(p, libpol.ListenerToken, 5*time.Second)
				Expect(ok).To(BeTrue())

				var (
					stm *libstm.Stream
					err error
				)

				stm, _, err = p.Accept()
				Expect(err).To(BeNil())

				tok, err := p.AddSession(libses.NewPlain(stm, 64, 256))
				Expect(err).To(BeNil())
				Expect(tok).To(BeNumerically(">", last))
				last = tok
			}
		})
	})
})
