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

package balance

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

func (b *Balance) marshallByte() ([]byte, error) {
	return []byte("\"" + b.String() + "\""), nil
}

func (b *Balance) unmarshall(val []byte) error {
	*b = ParseBytes(val)
	return nil
}

func (b Balance) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *Balance) UnmarshalJSON(bytes []byte) error {
	return b.unmarshall(bytes)
}

func (b Balance) MarshalYAML() (interface{}, error) {
	return b.String(), nil
}

func (b *Balance) UnmarshalYAML(value *yaml.Node) error {
	return b.unmarshall([]byte(value.Value))
}

func (b Balance) MarshalTOML() ([]byte, error) {
	return b.marshallByte()
}

func (b *Balance) UnmarshalTOML(i interface{}) error {
	if p, k := i.([]byte); k {
		return b.unmarshall(p)
	}
	if p, k := i.(string); k {
		return b.unmarshall([]byte(p))
	}
	return fmt.Errorf("balance: value not in valid format")
}

func (b Balance) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Balance) UnmarshalText(bytes []byte) error {
	return b.unmarshall(bytes)
}

func (b Balance) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(b.String())
}

func (b *Balance) UnmarshalCBOR(bytes []byte) error {
	var t string
	if err := cbor.Unmarshal(bytes, &t); err != nil {
		return err
	} else {
		*b = Parse(t)
		return nil
	}
}
