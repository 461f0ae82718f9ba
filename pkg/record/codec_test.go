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
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/matryer/is"
	"github.com/shopspring/decimal"
)

type order struct {
	ID      int             `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Created time.Time       `json:"created"`
	Due     Date            `json:"due"`
	Tags    []string        `json:"tags"`
	Note    *string         `json:"note"`
}

func testOrder(t *testing.T) Record {
	is := is.New(t)
	r, err := NewRecord(order{
		ID:      7,
		Name:    "widget",
		Price:   decimal.RequireFromString("12.345"),
		Created: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Due:     Date{Year: 2024, Month: time.February, Day: 29},
		Tags:    []string{"a", "b"},
	})
	is.NoErr(err)
	return r
}

func TestItemCodec_EncodeRecord(t *testing.T) {
	is := is.New(t)

	got, err := ItemCodec{}.Encode(testOrder(t))
	is.NoErr(err)

	want := `{"id":7,"name":"widget","price":"12.345","created":"2024-01-02T03:04:05Z","due":"2024-02-29","tags":["a","b"],"note":null}`
	is.Equal(string(got), want)
}

func TestItemCodec_EncodeMappingSortsKeys(t *testing.T) {
	is := is.New(t)

	m := Mapping{
		"b":   decimal.RequireFromString("0.1"),
		"a":   []any{1, "x", true, nil},
		"c":   map[string]any{"z": 1, "y": 2},
		"rec": testOrder(t),
	}
	is.Equal(m.Keys(), []string{"a", "b", "c", "rec"})

	got, err := ItemCodec{}.Encode(m)
	is.NoErr(err)

	want := `{"a":[1,"x",true,null],"b":"0.1","c":{"y":2,"z":1},"rec":{"id":7,"name":"widget","price":"12.345","created":"2024-01-02T03:04:05Z","due":"2024-02-29","tags":["a","b"],"note":null}}`
	is.Equal(string(got), want)
}

func TestItemCodec_Decode(t *testing.T) {
	testCases := []struct {
		name    string
		codec   ItemCodec
		payload string
		want    Item
	}{{
		name:    "object",
		payload: `{"a":1,"b":{"c":[true,null]}}`,
		want:    Mapping{"a": 1.0, "b": map[string]any{"c": []any{true, nil}}},
	}, {
		name:    "array",
		payload: ` [0,1,2,3,4] `,
		want:    List{0.0, 1.0, 2.0, 3.0, 4.0},
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)

			got, err := tc.codec.Decode([]byte(tc.payload))
			is.NoErr(err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestItemCodec_DecodeDecimal(t *testing.T) {
	is := is.New(t)

	got, err := ItemCodec{UseDecimal: true}.Decode([]byte(`{"n":[123456789012345678901234567890.5,{"m":1}]}`))
	is.NoErr(err)

	n := got.(Mapping)["n"].([]any)
	is.Equal(len(n), 2)
	is.True(n[0].(decimal.Decimal).Equal(decimal.RequireFromString("123456789012345678901234567890.5")))
	is.True(n[1].(map[string]any)["m"].(decimal.Decimal).Equal(decimal.NewFromInt(1)))
}

func TestItemCodec_DecodeInvalid(t *testing.T) {
	for _, payload := range []string{"", "   ", "42", `"str"`, `{"a":`} {
		t.Run(payload, func(t *testing.T) {
			is := is.New(t)
			_, err := ItemCodec{}.Decode([]byte(payload))
			is.True(err != nil)
		})
	}
}

func TestItemCodec_DecodeTrailingData(t *testing.T) {
	for _, payload := range []string{`[1,2] {"not":"part"}`, `{"a":1}}`, `[1] x`, `{"a":1}{"b":2}`} {
		t.Run(payload, func(t *testing.T) {
			is := is.New(t)
			_, err := ItemCodec{}.Decode([]byte(payload))
			is.True(err != nil)
			_, err = ItemCodec{UseDecimal: true}.Decode([]byte(payload))
			is.True(err != nil)
		})
	}

	// surrounding whitespace is not trailing data
	is := is.New(t)
	got, err := ItemCodec{}.Decode([]byte("  [1,2]\n"))
	is.NoErr(err)
	is.Equal(got, List{float64(1), float64(2)})
}

func TestJSONCodec_RoundTripStruct(t *testing.T) {
	is := is.New(t)

	want := testOrder(t).Value().(order)
	codec := JSONCodec[order]{}

	b, err := codec.Encode(want)
	is.NoErr(err)
	got, err := codec.Decode(b)
	is.NoErr(err)

	is.Equal(got.ID, want.ID)
	is.True(got.Price.Equal(want.Price))
	is.True(got.Created.Equal(want.Created))
	is.Equal(got.Due, want.Due)
	is.Equal(got.Tags, want.Tags)
}

func TestNewRecord_Invalid(t *testing.T) {
	var nilOrder *order
	for name, v := range map[string]any{
		"nil":         nil,
		"nil pointer": nilOrder,
		"int":         1,
		"map":         map[string]any{},
	} {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			_, err := NewRecord(v)
			is.True(err != nil)
		})
	}
}

func TestItem_Clone(t *testing.T) {
	is := is.New(t)

	m := Mapping{"list": []any{1}, "nested": map[string]any{"k": "v"}}
	cloned := m.Clone().(Mapping)
	cloned["list"].([]any)[0] = 2
	cloned["nested"].(map[string]any)["k"] = "changed"

	is.Equal(m["list"].([]any)[0], 1)
	is.Equal(m["nested"].(map[string]any)["k"], "v")
	is.Equal(m.Kind(), KindMapping)
	is.Equal(List{}.Kind().String(), "list")
}

func TestDate(t *testing.T) {
	is := is.New(t)

	d, err := ParseDate("2023-12-31")
	is.NoErr(err)
	is.Equal(d, Date{Year: 2023, Month: time.December, Day: 31})
	is.Equal(d.String(), "2023-12-31")

	var got Date
	is.NoErr(got.UnmarshalJSON([]byte(`"2023-12-31"`)))
	is.Equal(got, d)
	is.True(got.UnmarshalJSON([]byte(`20231231`)) != nil)
}
