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

package link

import (
	"iter"
)

// Binder creates a Transform bound to the upstream link.
type Binder[I, O any] func(up Stream[I]) (*Transform[I, O], error)

// SourceFunc turns a parameterized producer function into a constructor of
// sources. Every call of the returned function creates a new Source producing
// the sequence returned by fn for the supplied parameters.
//
//	numbers := link.SourceFunc(func(n int) iter.Seq2[int, error] { ... })
//	src, err := numbers(12)
func SourceFunc[P, D any](fn func(P) iter.Seq2[D, error], opts ...Option) func(P) (*Source[D], error) {
	return func(p P) (*Source[D], error) {
		return NewSource[D](fn(p), opts...)
	}
}

// TransformFunc turns a parameterized transform function into a constructor
// of transforms. Calling the returned function with parameters returns a
// Binder, which creates the Transform once it is bound to an upstream link.
//
//	power := link.TransformFunc(func(in iter.Seq2[int, error], y int) iter.Seq2[int, error] { ... })
//	t, err := power(3)(src)
func TransformFunc[P, I, O any](fn func(in iter.Seq2[I, error], p P) iter.Seq2[O, error], opts ...Option) func(P) Binder[I, O] {
	return func(p P) Binder[I, O] {
		return func(up Stream[I]) (*Transform[I, O], error) {
			return NewTransform[I, O](up, func(in iter.Seq2[I, error]) iter.Seq2[O, error] {
				return fn(in, p)
			}, opts...)
		}
	}
}
