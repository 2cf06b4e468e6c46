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

package listener

// napiMapMax caps the ordered list of observed NIC receive queue ids. A NIC
// exposes a small fixed set of queues in practice; the cap only guards
// against a kernel reporting garbage.
const napiMapMax = 1024

// napiMap is the append-only ordered list of distinct NAPI ids observed on
// accepted connections. The index at which an id first appeared fixes its
// worker mapping for the lifetime of the listener.
type napiMap struct {
	ids []uint32
}

// position returns the index of the given id, appending it first when never
// seen. fresh reports a first sighting; full reports that the map reached
// its cap and the id could not be recorded.
func (o *napiMap) position(id uint32) (pos int, fresh bool, full bool) {
	for i, v := range o.ids {
		if v == id {
			return i, false, false
		}
	}

	if len(o.ids) >= napiMapMax {
		return 0, false, true
	}

	o.ids = append(o.ids, id)

	return len(o.ids) - 1, true, false
}

// size returns the number of distinct ids observed so far.
func (o *napiMap) size() int {
	return len(o.ids)
}
