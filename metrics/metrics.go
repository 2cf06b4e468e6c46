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

// Package metrics exposes the wire-visible counters of the acceptor. Counter
// names are stable: deployments scrape them as-is and alert on them.
//
// All counters live on the default prometheus registry, so any scrape
// endpoint built on promhttp picks them up without extra wiring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ServerEventError counts error readiness events seen by the acceptor.
	ServerEventError = promauto.NewCounter(prometheus.CounterOpts{
		Name: "SERVER_EVENT_ERROR",
		Help: "Number of error readiness events observed by the acceptor loop.",
	})

	// ServerEventWrite counts writable readiness events seen by the acceptor.
	ServerEventWrite = promauto.NewCounter(prometheus.CounterOpts{
		Name: "SERVER_EVENT_WRITE",
		Help: "Number of writable readiness events observed by the acceptor loop.",
	})

	// ServerEventRead counts readable readiness events seen by the acceptor.
	ServerEventRead = promauto.NewCounter(prometheus.CounterOpts{
		Name: "SERVER_EVENT_READ",
		Help: "Number of readable readiness events observed by the acceptor loop.",
	})

	// ServerEventLoop counts iterations of the acceptor event loop.
	ServerEventLoop = promauto.NewCounter(prometheus.CounterOpts{
		Name: "SERVER_EVENT_LOOP",
		Help: "Number of acceptor event loop iterations.",
	})

	// ServerEventTotal counts readiness events delivered to the acceptor.
	ServerEventTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "SERVER_EVENT_TOTAL",
		Help: "Total number of readiness events delivered to the acceptor loop.",
	})

	// TcpAcceptEx counts accepted connections dropped before reaching a worker.
	TcpAcceptEx = promauto.NewCounter(prometheus.CounterOpts{
		Name: "TCP_ACCEPT_EX",
		Help: "Number of accepted connections dropped on error before dispatch.",
	})

	// TcpRecvByte counts bytes read from accepted sockets.
	TcpRecvByte = promauto.NewCounter(prometheus.CounterOpts{
		Name: "TCP_RECV_BYTE",
		Help: "Number of bytes received on accepted TCP sockets.",
	})

	// TcpSendByte counts bytes written to accepted sockets.
	TcpSendByte = promauto.NewCounter(prometheus.CounterOpts{
		Name: "TCP_SEND_BYTE",
		Help: "Number of bytes sent on accepted TCP sockets.",
	})

	// TcpSendPartial counts writes that accepted fewer bytes than submitted.
	TcpSendPartial = promauto.NewCounter(prometheus.CounterOpts{
		Name: "TCP_SEND_PARTIAL",
		Help: "Number of short writes on accepted TCP sockets.",
	})
)
