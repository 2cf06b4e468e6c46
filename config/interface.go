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

package config

import (
	"fmt"
	"time"

	libval "github.com/go-playground/validator/v10"
	libdur "github.com/nabbar/golib/duration"
	liberr "github.com/nabbar/golib/errors"
	cfgbal "github.com/sabouaram/acceptor/config/balance"
)

const (
	serverTimeoutMax = 60 * time.Second
	workerTimeoutDef = 100 * time.Millisecond
)

// Default returns a snapshot filled with the documented default values,
// listening on the given address with no TLS context.
func Default(addr string) *Config {
	return &Config{
		Server: Server{
			Addr:    addr,
			Backlog: DefaultServerBacklog,
			NEvent:  DefaultServerNEvent,
			Timeout: libdur.ParseDuration(workerTimeoutDef),
		},
		Worker: Worker{
			Threads: DefaultWorkerThreads,
			Balance: cfgbal.Random,
			NEvent:  DefaultWorkerNEvent,
			Timeout: libdur.ParseDuration(workerTimeoutDef),
		},
		Tcp: Tcp{
			Priority: DefaultTcpPriority,
			PoolSize: DefaultTcpPoolSize,
		},
		Session: Session{
			BufferSize:    DefaultBufferSize,
			BufferSizeMax: DefaultBufferSizeMax,
		},
	}
}

// Validate checks the snapshot against its declared constraints and the
// documented bounds. It returns nil when the snapshot is usable as-is.
func (c *Config) Validate() liberr.Error {
	err := ErrorValidatorError.Error(nil)

	if er := libval.New().Struct(c); er != nil {
		if e, ok := er.(*libval.InvalidValidationError); ok {
			err.Add(e)
		}

		for _, e := range er.(libval.ValidationErrors) {
			//nolint goerr113
			err.Add(fmt.Errorf("config field '%s' is not validated by constraint '%s'", e.StructNamespace(), e.ActualTag()))
		}
	}

	if t := c.Server.Timeout.Time(); t < 0 || t > serverTimeoutMax {
		err.Add(ErrorServerTimeout.Error(nil))
	}

	if c.Session.BufferSizeMax < c.Session.BufferSize {
		err.Add(ErrorSessionBuffer.Error(nil))
	}

	if err.HasParent() {
		return err
	}

	return nil
}
