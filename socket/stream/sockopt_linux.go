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

package stream

import (
	"unsafe"

	"golang.org/x/sys/unix"

	liberr "github.com/nabbar/golib/errors"
)

// SetSockOptInt sets an integer socket option at the given level and name,
// passed verbatim to the kernel.
func (o *Stream) SetSockOptInt(level, name, value int) liberr.Error {
	var se error

	if err := o.control(func(fd uintptr) {
		se = unix.SetsockoptInt(int(fd), level, name, value)
	}); err != nil {
		return ErrorSockOpt.Error(err)
	}

	if se != nil {
		return ErrorSockOpt.Error(se)
	}

	return nil
}

// GetSockOptInt reads an integer socket option at the given level and name,
// passed verbatim to the kernel. It fails when the kernel reports an option
// length other than the size of the integer read.
func (o *Stream) GetSockOptInt(level, name int) (int, liberr.Error) {
	var (
		sv int32
		sl = uint32(unsafe.Sizeof(sv))
		se error
	)

	if err := o.control(func(fd uintptr) {
		_, _, e := unix.Syscall6(unix.SYS_GETSOCKOPT, fd, uintptr(level), uintptr(name), uintptr(unsafe.Pointer(&sv)), uintptr(unsafe.Pointer(&sl)), 0)
		if e != 0 {
			se = e
		} else if sl != uint32(unsafe.Sizeof(sv)) {
			se = unix.EINVAL
		}
	}); err != nil {
		return 0, ErrorSockOpt.Error(err)
	}

	if se != nil {
		return 0, ErrorSockOpt.Error(se)
	}

	return int(sv), nil
}

// NapiID returns the NIC receive queue identifier steering this socket. The
// second return is false when the kernel does not report one, or reports
// zero.
func (o *Stream) NapiID() (uint32, bool) {
	v, err := o.GetSockOptInt(unix.SOL_SOCKET, unix.SO_INCOMING_NAPI_ID)

	if err != nil || v <= 0 {
		return 0, false
	}

	return uint32(v), true
}
