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

	"github.com/conduitio/conduit-link/pkg/foundation/ctxutil"
	"github.com/conduitio/conduit-link/pkg/foundation/log"
)

// Step is applied by a Destination on every item it pulls from its upstream.
// It returns the item to enqueue and false if the destination should stop
// producing items, in which case the returned item is ignored.
type Step[D any] func(D) (D, bool)

// Destination is a link that can be attached to an upstream link once. By
// default it passes the items of its upstream through unchanged, a Step can
// be supplied to transform or filter items one at a time.
type Destination[D any] struct {
	base[D]
	step Step[D]
}

// NewDestination creates a pass-through Destination. Its background task
// starts pulling items as soon as it is attached to an upstream with Attach.
// By default the name of the destination is the name of its upstream.
func NewDestination[D any](opts ...Option) *Destination[D] {
	return NewStepDestination[D](nil, opts...)
}

// NewStepDestination creates a Destination that applies step on every item
// pulled from its upstream. A nil step passes items through unchanged.
//
// When step returns false the destination enqueues the terminal marker and
// stops pulling from its upstream. The upstream is not closed, closing the
// destination closes it.
func NewStepDestination[D any](step Step[D], opts ...Option) *Destination[D] {
	d := &Destination[D]{step: step}
	d.init("Destination", newOptions(suffixName(""), opts))
	d.attachable = true
	d.start(d.produce)
	return d
}

func (d *Destination[D]) produce(ctx context.Context, push func(D)) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-d.attached:
	}

	up := d.Upstream().(Stream[D])
	d.logger.Trace(ctx).Str(log.LinkNameField, d.Name()).Msg("destination attached, pulling items")
	// the name is only known once the destination is attached
	ctx = ctxutil.ContextWithLinkName(ctx, d.Name())
	for {
		item, err := up.Next(ctx)
		if err != nil {
			return err
		}
		if d.step != nil {
			var ok bool
			if item, ok = d.step(item); !ok {
				return nil
			}
		}
		push(item)
	}
}
