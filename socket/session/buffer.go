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

package session

import (
	"io"
)

// Buffer is a byte buffer with a bounded maximum capacity. It grows from its
// initial capacity on demand but never past its maximum: a write that does
// not fit is truncated and reported.
type Buffer struct {
	b   []byte
	max int
}

// NewBuffer returns a buffer pre-allocated to the initial capacity and
// bounded to the maximum capacity.
func NewBuffer(initCap, maxCap int) *Buffer {
	if initCap < 0 {
		initCap = 0
	}

	if maxCap < initCap {
		maxCap = initCap
	}

	return &Buffer{
		b:   make([]byte, 0, initCap),
		max: maxCap,
	}
}

// Write appends p to the buffer, up to the maximum capacity. A truncated
// write returns the number of bytes kept and an error.
func (o *Buffer) Write(p []byte) (int, error) {
	free := o.max - len(o.b)

	if free <= 0 && len(p) > 0 {
		return 0, ErrorBufferFull.Error(nil)
	}

	n := len(p)
	if n > free {
		n = free
	}

	o.b = append(o.b, p[:n]...)

	if n < len(p) {
		return n, ErrorBufferFull.Error(nil)
	}

	return n, nil
}

// Read drains up to len(p) bytes from the front of the buffer.
func (o *Buffer) Read(p []byte) (int, error) {
	if len(o.b) == 0 {
		return 0, io.EOF
	}

	n := copy(p, o.b)
	o.b = o.b[:copy(o.b, o.b[n:])]

	return n, nil
}

// Len returns the number of buffered bytes.
func (o *Buffer) Len() int {
	return len(o.b)
}

// Cap returns the current allocated capacity.
func (o *Buffer) Cap() int {
	return cap(o.b)
}

// Max returns the maximum capacity the buffer may grow to.
func (o *Buffer) Max() int {
	return o.max
}

// Bytes returns the buffered bytes without copying.
func (o *Buffer) Bytes() []byte {
	return o.b
}

// Reset drops the buffered bytes, keeping the allocation.
func (o *Buffer) Reset() {
	o.b = o.b[:0]
}
