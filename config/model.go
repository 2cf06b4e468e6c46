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

// Package config defines the immutable configuration snapshot consumed by the
// acceptor at construction time.
//
// Parsing configuration files is out of scope of this module: the snapshot is
// filled in by the caller (or obtained from Default) and validated once. It is
// never mutated after the Listener captured it.
package config

import (
	libtls "github.com/nabbar/golib/certificates"
	libdur "github.com/nabbar/golib/duration"
	cfgbal "github.com/sabouaram/acceptor/config/balance"
)

const (
	// DefaultServerBacklog is the listen backlog requested on the server socket.
	DefaultServerBacklog = 128

	// DefaultServerNEvent is the readiness event batch capacity of the acceptor.
	DefaultServerNEvent = 1024

	// DefaultWorkerThreads is the number of worker threads consuming sessions.
	DefaultWorkerThreads = 1

	// DefaultWorkerNEvent is the readiness event batch capacity of a worker.
	DefaultWorkerNEvent = 1024

	// DefaultTcpPriority is the SO_PRIORITY value applied to accepted sockets.
	DefaultTcpPriority = 0

	// DefaultTcpPoolSize is the connection pool hint carried for workers.
	DefaultTcpPoolSize = 0

	// DefaultBufferSize is the initial session read/write buffer capacity.
	DefaultBufferSize = 16 * 1024

	// DefaultBufferSizeMax is the upper bound of a session buffer capacity.
	DefaultBufferSizeMax = 1024 * 1024
)

// Server is the listen-socket projection of the snapshot.
type Server struct {
	// Addr is the listen socket address, as host:port.
	Addr string `mapstructure:"addr" json:"addr" yaml:"addr" toml:"addr" validate:"required,hostname_port|tcp_addr"`

	// Backlog is the listen backlog requested at bind time.
	Backlog int `mapstructure:"backlog" json:"backlog" yaml:"backlog" toml:"backlog" validate:"gte=0"`

	// NEvent is the maximum number of readiness events handled per poll call.
	NEvent int `mapstructure:"nevent" json:"nevent" yaml:"nevent" toml:"nevent" validate:"gte=1,lte=65536"`

	// Timeout is the maximum wait of a single poll call. Bounded to 60s.
	Timeout libdur.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout" toml:"timeout"`
}

// Worker is the worker-pool projection of the snapshot. NEvent and Timeout
// are consumed by the worker threads, not by the acceptor.
type Worker struct {
	// Threads is the number of worker threads consuming accepted sessions.
	Threads int `mapstructure:"threads" json:"threads" yaml:"threads" toml:"threads" validate:"gte=1"`

	// Balance is the session placement policy.
	Balance cfgbal.Balance `mapstructure:"balance" json:"balance" yaml:"balance" toml:"balance"`

	// NEvent is the readiness event batch capacity of each worker.
	NEvent int `mapstructure:"nevent" json:"nevent" yaml:"nevent" toml:"nevent" validate:"gte=1,lte=65536"`

	// Timeout is the poll wait of each worker.
	Timeout libdur.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout" toml:"timeout"`
}

// Tcp is the per-socket tuning projection of the snapshot.
type Tcp struct {
	// Priority is the SO_PRIORITY value set on every accepted socket.
	Priority int `mapstructure:"priority" json:"priority" yaml:"priority" toml:"priority" validate:"gte=0"`

	// PoolSize is a connection pool hint carried for workers.
	PoolSize int `mapstructure:"poolsize" json:"poolsize" yaml:"poolsize" toml:"poolsize" validate:"gte=0"`
}

// Session is the session buffer projection of the snapshot.
type Session struct {
	// BufferSize is the initial capacity of a session read/write buffer.
	BufferSize int `mapstructure:"buffer_size" json:"buffer_size" yaml:"buffer_size" toml:"buffer_size" validate:"gte=1"`

	// BufferSizeMax bounds the growth of a session read/write buffer.
	BufferSizeMax int `mapstructure:"buffer_size_max" json:"buffer_size_max" yaml:"buffer_size_max" toml:"buffer_size_max" validate:"gte=1"`
}

// Config is the complete acceptor snapshot, captured at Listener construction
// and immutable afterwards.
type Config struct {
	Server  Server  `mapstructure:"server" json:"server" yaml:"server" toml:"server" validate:"required"`
	Worker  Worker  `mapstructure:"worker" json:"worker" yaml:"worker" toml:"worker" validate:"required"`
	Tcp     Tcp     `mapstructure:"tcp" json:"tcp" yaml:"tcp" toml:"tcp"`
	Session Session `mapstructure:"session" json:"session" yaml:"session" toml:"session"`

	// TLS is the optional negotiation context built by the caller from the
	// certificates package. A nil value accepts plain TCP sessions only.
	TLS libtls.TLSConfig `mapstructure:"-" json:"-" yaml:"-" toml:"-"`
}
