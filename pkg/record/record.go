// Copyright © 2022 Meroxa, Inc.
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
	"reflect"
	"sort"

	"github.com/conduitio/conduit-link/pkg/foundation/cerrors"
	"github.com/goccy/go-json"
)

const (
	KindRecord Kind = iota + 1
	KindMapping
	KindList
)

// Kind defines which variant of Item a value is.
type Kind int

func (k Kind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindMapping:
		return "mapping"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Item is a single unit of data flowing through a chain of links that can be
// bridged over a broker. It is a closed set: Record, Mapping and List are the
// only implementations.
type Item interface {
	Kind() Kind
	// Clone returns a copy of the item that can be changed without affecting
	// the original.
	Clone() Item

	item()
}

// Record is a structured record backed by a Go struct. On the wire it is
// serialized field by field into a plain object.
type Record struct {
	value any
}

// NewRecord wraps v into a Record. The value needs to be a struct or a
// non-nil pointer to a struct.
func NewRecord(v any) (Record, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return Record{}, cerrors.New("record value can't be nil")
	}
	if t.Kind() == reflect.Ptr {
		if reflect.ValueOf(v).IsNil() {
			return Record{}, cerrors.New("record value can't be a nil pointer")
		}
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return Record{}, cerrors.Errorf("record value needs to be a struct, got %s", t.Kind())
	}
	return Record{value: v}, nil
}

// Value returns the struct wrapped by the record.
func (r Record) Value() any { return r.value }

func (r Record) Kind() Kind { return KindRecord }

// Clone returns the record itself, struct values are copied on assignment.
// Records wrapping a pointer share the pointed-to value.
func (r Record) Clone() Item { return r }

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.value)
}

func (Record) item() {}

// Mapping is a generic key-ordered mapping. Keys are always visited and
// serialized in ascending order.
type Mapping map[string]any

func (m Mapping) Kind() Kind { return KindMapping }

// Keys returns the keys of the mapping in ascending order.
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m Mapping) Clone() Item {
	if m == nil {
		return Mapping(nil)
	}
	cloned := make(Mapping, len(m))
	for k, v := range m {
		cloned[k] = cloneValue(v)
	}
	return cloned
}

func (Mapping) item() {}

// List is an ordered list of values.
type List []any

func (l List) Kind() Kind { return KindList }

func (l List) Clone() Item {
	if l == nil {
		return List(nil)
	}
	cloned := make(List, len(l))
	for i, v := range l {
		cloned[i] = cloneValue(v)
	}
	return cloned
}

func (List) item() {}

func cloneValue(v any) any {
	switch v := v.(type) {
	case Item:
		return v.Clone()
	case map[string]any:
		return map[string]any(Mapping(v).Clone().(Mapping))
	case []any:
		return []any(List(v).Clone().(List))
	default:
		return v
	}
}
