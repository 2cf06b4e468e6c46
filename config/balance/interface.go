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

// Package balance defines the session placement policy of the acceptor.
//
// Two policies exist:
//   - Random: each accepted session is placed on a uniformly random,
//     non-full worker queue.
//   - Queues: each accepted session is steered to the worker mapped to the
//     NIC receive queue (NAPI id) of its connection, falling back to Random
//     when the kernel does not report one.
package balance

import (
	"strings"
)

// Balance represents the worker placement policy for accepted sessions.
type Balance uint8

const (
	// Random places each session on a uniformly random non-full worker queue.
	Random Balance = iota

	// Queues pins each session to the worker serving its NIC receive queue.
	Queues
)

// List returns a slice of all known balance policies.
func List() []Balance {
	return []Balance{
		Random,
		Queues,
	}
}

// Parse returns the balance policy matching the given string.
//
// The string is case-insensitive; quotes, hyphens, underscores and spaces
// are ignored. An unrecognized string returns Random, the default policy.
func Parse(s string) Balance {
	s = strings.ToLower(s)
	s = strings.Replace(s, "\"", "", -1) // nolint
	s = strings.Replace(s, "'", "", -1)  // nolint
	s = strings.Replace(s, "-", "", -1)  // nolint
	s = strings.Replace(s, "_", "", -1)  // nolint
	s = strings.Replace(s, " ", "", -1)  // nolint
	s = strings.TrimSpace(s)

	switch s {
	case Queues.Code():
		return Queues
	case Random.Code():
		return Random
	default:
		return Random
	}
}

// ParseBytes returns the balance policy matching the given raw bytes.
func ParseBytes(p []byte) Balance {
	return Parse(string(p))
}

// ParseInt returns the balance policy matching the given integer value.
func ParseInt(i int) Balance {
	switch Balance(i) {
	case Queues:
		return Queues
	default:
		return Random
	}
}
