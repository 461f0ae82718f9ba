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

	"github.com/conduitio/conduit-link/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-link/pkg/foundation/log"
)

// TransformFn turns the sequence of upstream items into a new sequence. It can
// change the number of items (filter, batch, reduce) as well as their type.
// The incoming sequence yields an error if the upstream link failed or was
// closed. The transform fails with that error even if the function ignores
// it, and items the function yields after it are dropped.
type TransformFn[I, O any] func(in iter.Seq2[I, error]) iter.Seq2[O, error]

// Transform is a link driven by a TransformFn. Its upstream is set at
// construction and can't be changed. When a Transform stops, no matter if it
// was exhausted, closed or failed, it closes its upstream.
type Transform[I, O any] struct {
	base[O]
	fn TransformFn[I, O]
}

// NewTransform creates a Transform that applies fn on the items of up and
// starts its background task. By default the name of the transform is the
// name of its upstream. If fn returns a nil sequence, the first call to Next
// returns a FailureError wrapping ErrTypeViolation.
func NewTransform[I, O any](up Stream[I], fn TransformFn[I, O], opts ...Option) (*Transform[I, O], error) {
	if up == nil {
		return nil, cerrors.Errorf("transform needs an upstream: %w", ErrConfig)
	}
	if fn == nil {
		return nil, cerrors.Errorf("transform needs a transform function: %w", ErrConfig)
	}

	t := &Transform[I, O]{fn: fn}
	t.init("Transform", newOptions(suffixName(""), opts))
	t.setUpstream(up)
	t.start(t.produce)
	return t, nil
}

func (t *Transform[I, O]) produce(ctx context.Context, push func(O)) error {
	up := t.Upstream().(Stream[I])
	defer func() {
		if err := up.Close(); err != nil {
			t.logger.Warn(ctx).
				Err(err).
				Str(log.LinkNameField, t.Name()).
				Msg("could not close upstream of transform")
		}
	}()

	// upErr holds the first error the upstream sequence yielded. It is
	// returned even if fn swallows it, items yielded after it are dropped.
	var upErr error
	in := func(yield func(I, error) bool) {
		for item, err := range All(ctx, up) {
			if err != nil && upErr == nil {
				upErr = err
			}
			if !yield(item, err) {
				return
			}
		}
	}

	seq := t.fn(in)
	if seq == nil {
		return cerrors.Errorf("transform function returned nil: %w", ErrTypeViolation)
	}
	for item, err := range seq {
		if upErr != nil {
			return upErr
		}
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		push(item)
	}
	return upErr
}

// All returns a sequence of all items of s. The sequence stops after the
// last item, or after yielding the error if Next fails with anything other
// than ErrExhausted.
func All[D any](ctx context.Context, s Stream[D]) iter.Seq2[D, error] {
	return func(yield func(D, error) bool) {
		for {
			item, err := s.Next(ctx)
			if cerrors.Is(err, ErrExhausted) {
				return
			}
			if !yield(item, err) || err != nil {
				return
			}
		}
	}
}

// Collect consumes s and returns all its items. It returns the items read so
// far and an error if s failed or ctx was canceled.
func Collect[D any](ctx context.Context, s Stream[D]) ([]D, error) {
	var items []D
	for item, err := range All(ctx, s) {
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}
