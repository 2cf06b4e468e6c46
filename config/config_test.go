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

package config_test

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libdur "github.com/nabbar/golib/duration"
	libcfg "github.com/sabouaram/acceptor/config"
	cfgbal "github.com/sabouaram/acceptor/config/balance"
)

var _ = Describe("Acceptor Config", func() {
	Describe("Default", func() {
		It("should fill the documented default values", func() {
			c := libcfg.Default("127.0.0.1:11211")
			Expect(c.Server.Addr).To(Equal("127.0.0.1:11211"))
			Expect(c.Server.Backlog).To(Equal(128))
			Expect(c.Server.NEvent).To(Equal(1024))
			Expect(c.Worker.Threads).To(Equal(1))
			Expect(c.Worker.Balance).To(Equal(cfgbal.Random))
			Expect(c.Worker.NEvent).To(Equal(1024))
			Expect(c.Worker.Timeout.Time()).To(Equal(100 * time.Millisecond))
			Expect(c.Tcp.Priority).To(Equal(0))
			Expect(c.Tcp.PoolSize).To(Equal(0))
			Expect(c.TLS).To(BeNil())
		})

		It("should validate out of the box", func() {
			Expect(libcfg.Default("127.0.0.1:11211").Validate()).To(BeNil())
		})
	})

	Describe("Validate", func() {
		var cfg *libcfg.Config

		BeforeEach(func() {
			cfg = libcfg.Default("127.0.0.1:11211")
		})

		It("should reject an empty listen address", func() {
			cfg.Server.Addr = ""
			Expect(cfg.Validate()).To(HaveOccurred())
		})

		It("should reject an address without a port", func() {
			cfg.Server.Addr = "127.0.0.1"
			Expect(cfg.Validate()).To(HaveOccurred())
		})

		It("should reject nevent out of bounds", func() {
			cfg.Server.NEvent = 0
			Expect(cfg.Validate()).To(HaveOccurred())

			cfg.Server.NEvent = 65537
			Expect(cfg.Validate()).To(HaveOccurred())

			cfg.Server.NEvent = 65536
			Expect(cfg.Validate()).To(BeNil())
		})

		It("should reject a poll timeout above one minute", func() {
			cfg.Server.Timeout = libdur.Minutes(2)
			Expect(cfg.Validate()).To(HaveOccurred())

			cfg.Server.Timeout = libdur.Seconds(60)
			Expect(cfg.Validate()).To(BeNil())
		})

		It("should reject zero worker threads", func() {
			cfg.Worker.Threads = 0
			Expect(cfg.Validate()).To(HaveOccurred())
		})

		It("should reject a negative socket priority", func() {
			cfg.Tcp.Priority = -1
			Expect(cfg.Validate()).To(HaveOccurred())
		})

		It("should reject a buffer max lower than the initial size", func() {
			cfg.Session.BufferSize = 4096
			cfg.Session.BufferSizeMax = 1024
			Expect(cfg.Validate()).To(HaveOccurred())
		})
	})

	Describe("Encoding", func() {
		It("should roundtrip through JSON with the balance policy as string", func() {
			c := libcfg.Default("127.0.0.1:11211")
			c.Worker.Balance = cfgbal.Queues

			p, e := json.Marshal(c)
			Expect(e).ToNot(HaveOccurred())
			Expect(string(p)).To(ContainSubstring(`"balance":"queues"`))

			var r libcfg.Config
			Expect(json.Unmarshal(p, &r)).To(Succeed())
			Expect(r.Worker.Balance).To(Equal(cfgbal.Queues))
			Expect(r.Server.Addr).To(Equal(c.Server.Addr))
		})
	})
})
