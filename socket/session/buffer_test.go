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

package session_test

import (
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libses "github.com/sabouaram/acceptor/socket/session"
)

var _ = Describe("Session Buffer", func() {
	It("should start at the initial capacity and stay empty", func() {
		b := libses.NewBuffer(16, 64)
		Expect(b.Len()).To(Equal(0))
		Expect(b.Cap()).To(Equal(16))
		Expect(b.Max()).To(Equal(64))
	})

	It("should grow past the initial capacity up to the maximum", func() {
		b := libses.NewBuffer(4, 16)

		n, err := b.Write(make([]byte, 10))
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(10))
		Expect(b.Len()).To(Equal(10))
	})

	It("should truncate a write exceeding the maximum capacity", func() {
		b := libses.NewBuffer(4, 8)

		n, err := b.Write(make([]byte, 12))
		Expect(err).To(HaveOccurred())
		Expect(n).To(Equal(8))
		Expect(b.Len()).To(Equal(8))

		n, err = b.Write([]byte{0})
		Expect(err).To(HaveOccurred())
		Expect(n).To(Equal(0))
	})

	It("should drain written bytes in order", func() {
		b := libses.NewBuffer(8, 32)

		_, err := b.Write([]byte("stats\r\n"))
		Expect(err).ToNot(HaveOccurred())

		p := make([]byte, 5)
		n, err := b.Read(p)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(p[:n])).To(Equal("stats"))
		Expect(b.Len()).To(Equal(2))

		b.Reset()
		Expect(b.Len()).To(Equal(0))

		_, err = b.Read(p)
		Expect(err).To(Equal(io.EOF))
	})
})
