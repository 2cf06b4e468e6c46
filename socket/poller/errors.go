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
	"fmt"

	liberr "github.com/nabbar/golib/errors"
)

const (
	ErrorParamsEmpty liberr.CodeError = iota + liberr.MinAvailable + 60
	ErrorPollerCreate
	ErrorWakerCreate
	ErrorBind
	ErrorPollWait
	ErrorAccept
	ErrorAcceptWouldBlock
	ErrorRegister
	ErrorSessionUnknown
)

func init() {
	if liberr.ExistInMapMessage(ErrorParamsEmpty) {
		panic(fmt.Errorf("error code collision with package acceptor/socket/poller"))
	}
	liberr.RegisterIdFctMessage(ErrorParamsEmpty, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorParamsEmpty:
		return "given parameters is empty"
	case ErrorPollerCreate:
		return "poller : cannot create the kernel readiness instance"
	case ErrorWakerCreate:
		return "poller : cannot create the cross thread wakeup handle"
	case ErrorBind:
		return "poller : cannot bind the listening socket"
	case ErrorPollWait:
		return "poller : readiness wait failed"
	case ErrorAccept:
		return "poller : accept failed"
	case ErrorAcceptWouldBlock:
		return "poller : no pending connection"
	case ErrorRegister:
		return "poller : cannot register the source with the readiness instance"
	case ErrorSessionUnknown:
		return "poller : no session registered with this token"
	}

	return liberr.NullMessage
}

// IsWouldBlock reports whether the given error marks an accept call finding
// no pending connection.
func IsWouldBlock(e error) bool {
	return liberr.Has(e, ErrorAcceptWouldBlock)
}
