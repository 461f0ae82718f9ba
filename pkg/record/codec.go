// Copyright © 2026 Meroxa, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package record

import (
	"bytes"
	"io"

	"github.com/conduitio/conduit-link/pkg/foundation/cerrors"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Codec converts values of type D to and from their wire representation.
type Codec[D any] interface {
	Encode(D) ([]byte, error)
	Decode([]byte) (D, error)
}

// JSONCodec is a Codec that encodes values as JSON objects. Structs are
// encoded field by field, time.Time values as RFC 3339 (ISO-8601) strings,
// Date values as ISO-8601 dates and decimal.Decimal values as strings.
type JSONCodec[D any] struct{}

func (JSONCodec[D]) Encode(v D) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, cerrors.Errorf("could not encode %T: %w", v, err)
	}
	return b, nil
}

func (JSONCodec[D]) Decode(b []byte) (D, error) {
	var v D
	if err := json.Unmarshal(b, &v); err != nil {
		return v, cerrors.Errorf("could not decode %T: %w", v, err)
	}
	return v, nil
}

// ItemCodec is a Codec for Item values. JSON objects are decoded into a
// Mapping and JSON arrays into a List. A Record can't be reconstructed from
// the wire, use JSONCodec with the concrete struct type for that.
type ItemCodec struct {
	// UseDecimal decodes JSON numbers into decimal.Decimal instead of float64,
	// so no precision is lost.
	UseDecimal bool
}

func (c ItemCodec) Encode(it Item) ([]byte, error) {
	if it == nil {
		return nil, cerrors.New("can't encode nil item")
	}
	b, err := json.Marshal(it)
	if err != nil {
		return nil, cerrors.Errorf("could not encode %s item: %w", it.Kind(), err)
	}
	return b, nil
}

func (c ItemCodec) Decode(b []byte) (Item, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return nil, cerrors.New("can't decode empty payload")
	}

	var target any
	switch trimmed[0] {
	case '{':
		target = &Mapping{}
	case '[':
		target = &List{}
	default:
		return nil, cerrors.Errorf("payload needs to be a JSON object or array, got %q", trimmed[0])
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if c.UseDecimal {
		dec.UseNumber()
	}
	if err := dec.Decode(target); err != nil {
		return nil, cerrors.Errorf("could not decode item: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); !cerrors.Is(err, io.EOF) {
		return nil, cerrors.New("could not decode item: unexpected data after JSON value")
	}

	var it Item
	switch v := target.(type) {
	case *Mapping:
		it = *v
	case *List:
		it = *v
	}
	if !c.UseDecimal {
		return it, nil
	}
	converted, err := numbersToDecimals(it)
	if err != nil {
		return nil, err
	}
	return converted.(Item), nil
}

func numbersToDecimals(v any) (any, error) {
	switch v := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return nil, cerrors.Errorf("invalid number %q: %w", v, err)
		}
		return d, nil
	case Mapping:
		for k, val := range v {
			c, err := numbersToDecimals(val)
			if err != nil {
				return nil, err
			}
			v[k] = c
		}
		return v, nil
	case map[string]any:
		m, err := numbersToDecimals(Mapping(v))
		if err != nil {
			return nil, err
		}
		return map[string]any(m.(Mapping)), nil
	case List:
		for i, val := range v {
			c, err := numbersToDecimals(val)
			if err != nil {
				return nil, err
			}
			v[i] = c
		}
		return v, nil
	case []any:
		l, err := numbersToDecimals(List(v))
		if err != nil {
			return nil, err
		}
		return []any(l.(List)), nil
	default:
		return v, nil
	}
}
