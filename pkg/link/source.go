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
	"context"
	"iter"

	"github.com/conduitio/conduit-link/pkg/foundation/cchan"
	"github.com/conduitio/conduit-link/pkg/foundation/cerrors"
)

// Source is the first link of every chain. It produces the items of a
// producer sequence and can't have an upstream.
type Source[D any] struct {
	base[D]
}

// NewSource creates a Source producing the items of seq and starts its
// background task. The following types are accepted as seq:
//   - iter.Seq2[D, error] (or func(func(D, error) bool)), iteration stops at
//     the first error which becomes the failure of the link
//   - iter.Seq[D] (or func(func(D) bool))
//   - func(context.Context) iter.Seq2[D, error], the context is canceled when
//     the link is closed
//   - <-chan D or chan D, the link is exhausted when the channel is closed
//   - []D
//
// Any other value, including nil, returns ErrTypeViolation and no task is
// started.
func NewSource[D any](seq any, opts ...Option) (*Source[D], error) {
	seqFn, err := toSeq[D](seq)
	if err != nil {
		return nil, err
	}

	s := &Source[D]{}
	s.init("Source", newOptions(plainName(""), opts))
	s.start(func(ctx context.Context, push func(D)) error {
		for item, err := range seqFn(ctx) {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			push(item)
		}
		return nil
	})
	return s, nil
}

// toSeq converts the supported producer types into a sequence factory.
func toSeq[D any](seq any) (func(context.Context) iter.Seq2[D, error], error) {
	if seq == nil {
		return nil, cerrors.Errorf("can't create source from nil: %w", ErrTypeViolation)
	}

	var seqFn func(context.Context) iter.Seq2[D, error]
	switch s := seq.(type) {
	case iter.Seq2[D, error]:
		if s != nil {
			seqFn = func(context.Context) iter.Seq2[D, error] { return s }
		}
	case func(func(D, error) bool):
		if s != nil {
			seqFn = func(context.Context) iter.Seq2[D, error] { return s }
		}
	case iter.Seq[D]:
		if s != nil {
			seqFn = func(context.Context) iter.Seq2[D, error] { return withNilErrors(s) }
		}
	case func(func(D) bool):
		if s != nil {
			seqFn = func(context.Context) iter.Seq2[D, error] { return withNilErrors(s) }
		}
	case func(context.Context) iter.Seq2[D, error]:
		if s != nil {
			seqFn = func(ctx context.Context) iter.Seq2[D, error] {
				inner := s(ctx)
				if inner == nil {
					return func(yield func(D, error) bool) {
						var zero D
						yield(zero, cerrors.Errorf("producer returned nil: %w", ErrTypeViolation))
					}
				}
				return inner
			}
		}
	case <-chan D:
		if s != nil {
			seqFn = func(ctx context.Context) iter.Seq2[D, error] { return fromChan(ctx, s) }
		}
	case chan D:
		if s != nil {
			seqFn = func(ctx context.Context) iter.Seq2[D, error] { return fromChan(ctx, s) }
		}
	case []D:
		seqFn = func(context.Context) iter.Seq2[D, error] { return fromSlice(s) }
	}

	if seqFn == nil {
		return nil, cerrors.Errorf("can't create source from %T: %w", seq, ErrTypeViolation)
	}
	return seqFn, nil
}

func withNilErrors[D any](seq iter.Seq[D]) iter.Seq2[D, error] {
	return func(yield func(D, error) bool) {
		for item := range seq {
			if !yield(item, nil) {
				return
			}
		}
	}
}

func fromChan[D any](ctx context.Context, ch <-chan D) iter.Seq2[D, error] {
	return withNilErrors(cchan.Chan[D](ch).Seq(ctx))
}

func fromSlice[D any](items []D) iter.Seq2[D, error] {
	return func(yield func(D, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
	}
}
