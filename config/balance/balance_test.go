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

package balance_test

import (
	"encoding/json"

	"github.com/fxamacker/cbor/v2"
	. "github.com/sabouaram/acceptor/config/balance"

	. "github.com/onsi/ginkgo/v2"

	. "github.com/onsi/gomega"
	"gopkg.in/yaml.v3"
)

var _ = Describe("balance", func() {
	It("Parse should recognize known policies and aliases", func() {
		Expect(Parse("queues")).To(Equal(Queues))
		Expect(Parse("Queues")).To(Equal(Queues))
		Expect(Parse("QUEUES")).To(Equal(Queues))
		Expect(Parse("random")).To(Equal(Random))
		Expect(Parse("\"random\"")).To(Equal(Random))
	})

	It("Parse should default to Random on unknown input", func() {
		Expect(Parse("round-robin")).To(Equal(Random))
		Expect(Parse("")).To(Equal(Random))
	})

	It("String/Code and numeric conversions work", func() {
		Expect(Random.String()).To(Equal("random"))
		Expect(Queues.Code()).To(Equal("queues"))
		Expect(Queues.Int()).To(Equal(int(Queues.Uint8())))
		Expect(ParseInt(Queues.Int())).To(Equal(Queues))
		Expect(ParseInt(42)).To(Equal(Random))
	})

	It("Marshal/Unmarshal JSON/YAML/CBOR/Text roundtrip", func() {
		type TestMash struct {
			Pol Balance `json:"balance" yaml:"balance" toml:"balance" cbor:"1"`
		}
		var (
			v = TestMash{
				Pol: Queues,
			}
			b []byte
			e error
		)

		// JSON
		b, e = json.Marshal(v)
		Expect(e).ToNot(HaveOccurred())
		var v2 TestMash
		Expect(json.Unmarshal(b, &v2)).To(Succeed())
		Expect(v2).To(Equal(v))

		// YAML
		b, e = yaml.Marshal(v)
		Expect(e).ToNot(HaveOccurred())
		var v3 TestMash
		Expect(yaml.Unmarshal(b, &v3)).To(Succeed())
		Expect(v3).To(Equal(v))

		// CBOR
		b, e = cbor.Marshal(v)
		Expect(e).ToNot(HaveOccurred())
		var v4 TestMash
		Expect(cbor.Unmarshal(b, &v4)).To(Succeed())
		Expect(v4).To(Equal(v))

		// Text
		b, e = v.Pol.MarshalText()
		Expect(e).ToNot(HaveOccurred())
		var v5 Balance
		Expect(v5.UnmarshalText(b)).To(Succeed())
		Expect(v5).To(Equal(v.Pol))
	})
})
