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
	"runtime/debug"
	"sync"

	"github.com/conduitio/conduit-link/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-link/pkg/foundation/ctxutil"
	"github.com/conduitio/conduit-link/pkg/foundation/log"
	"github.com/conduitio/conduit-link/pkg/foundation/metrics/measure"
	"github.com/gammazero/deque"
	"github.com/sourcegraph/conc/pool"
	"gopkg.in/tomb.v2"
)

// Link is the part of a link that doesn't depend on the item type. It is
// used to walk and close chains of links.
type Link interface {
	// Name returns the name of the link.
	Name() string
	// Upstream returns the link this link pulls items from, or nil if the link
	// has no upstream.
	Upstream() Link
	// Close closes the upstream link and then stops the background task of
	// this link and discards all queued items. Close can be called multiple
	// times, only the first call has an effect. The returned error is the
	// error returned by closing the upstream link, the link itself is always
	// closed.
	Close() error
	// Closed returns true if the background task stopped and all items in the
	// queue were consumed.
	Closed() bool
	// Wait blocks until the background task stopped and the queue is drained,
	// for this link and all its upstream links. A queue holding only the
	// terminal marker counts as drained. Wait returns early with the context
	// error if ctx is canceled.
	Wait(ctx context.Context) error
}

// Stream is a Link producing items of type D.
type Stream[D any] interface {
	Link
	// Next returns the next item of the link. It blocks until an item is
	// available, the link is exhausted or ctx is canceled. When the link has
	// no more items ErrExhausted is returned, if the task producing items
	// failed the FailureError is returned once. A canceled ctx doesn't close
	// the link, Next can be called again afterwards.
	Next(ctx context.Context) (D, error)
}

// producer is run in the background task of a link. It pushes items until it
// has no more items, ctx is canceled or it fails.
type producer[D any] func(ctx context.Context, push func(D)) error

// entry is a single element in the queue of a link.
type entry[D any] struct {
	item D
	// terminal is true for the last entry a task enqueues. A terminal entry
	// without an error is the terminal marker.
	terminal bool
	err      error
}

// base contains the queue and task management shared by all links.
type base[D any] struct {
	kind   string
	naming naming
	logger log.CtxLogger

	// attachable is true if the upstream can be set after creation.
	attachable bool
	// attached is closed once the upstream is set.
	attached chan struct{}
	upstream Link

	// silent links don't enqueue a terminal entry, a failure is returned by
	// Wait instead.
	silent bool

	t *tomb.Tomb

	// m guards the fields below and the upstream.
	m        sync.Mutex
	queue    deque.Deque[entry[D]]
	notify   chan struct{}
	finished bool
	closing  bool
}

func (b *base[D]) init(kind string, o options) {
	b.kind = kind
	b.naming = o.naming
	b.logger = o.logger.WithComponent("link." + kind)
	b.attached = make(chan struct{})
	b.notify = make(chan struct{})
	b.t = &tomb.Tomb{}
}

func (b *base[D]) Name() string {
	return b.naming.resolve(b.Upstream())
}

func (b *base[D]) Upstream() Link {
	b.m.Lock()
	defer b.m.Unlock()
	return b.upstream
}

// setUpstream sets the upstream of a link during construction.
func (b *base[D]) setUpstream(up Link) {
	b.upstream = up
	close(b.attached)
}

// attach sets the upstream of an attachable link. The upstream can only be
// set once.
func (b *base[D]) attach(up Stream[D]) error {
	if !b.attachable {
		return cerrors.Errorf("%s can't be attached to an upstream: %w", b.kind, ErrConfig)
	}

	b.m.Lock()
	defer b.m.Unlock()
	if b.upstream != nil {
		return cerrors.Errorf("%s already has upstream %q: %w", b.kind, b.upstream.Name(), ErrConfig)
	}
	b.upstream = up
	close(b.attached)
	return nil
}

// start runs the producer in the background task and enqueues the terminal
// entry once it returns.
func (b *base[D]) start(produce producer[D]) {
	measure.LinksGauge.WithValues(b.kind).Inc()
	b.t.Go(func() error {
		defer measure.LinksGauge.WithValues(b.kind).Dec()

		ctx := b.t.Context(nil)
		err := b.run(ctx, produce)
		switch {
		case !b.t.Alive():
			b.logger.Debug(ctx).Str(log.LinkNameField, b.Name()).Msg("link closed, stopping task")
			b.finish(nil)
		case err == nil || cerrors.Is(err, ErrExhausted):
			b.logger.Debug(ctx).Str(log.LinkNameField, b.Name()).Msg("link exhausted, stopping task")
			b.finish(nil)
		default:
			var failure *FailureError
			if !cerrors.As(err, &failure) {
				err = &FailureError{Link: b.Name(), Err: err}
			}
			b.logger.Err(ctx, err).Str(log.LinkNameField, b.Name()).Msg("link task failed")
			measure.LinkFailuresCounter.WithValues(b.kind).Inc()
			b.finish(err)
			if b.silent {
				// nothing is enqueued, the failure is returned by Wait
				return err
			}
		}
		return nil
	})
}

// run calls produce and converts a panic into a PanicError.
func (b *base[D]) run(ctx context.Context, produce producer[D]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()
	// code running in the task can log the link name through the context
	return produce(ctxutil.ContextWithLinkName(ctx, b.Name()), b.push)
}

func (b *base[D]) push(item D) {
	b.m.Lock()
	defer b.m.Unlock()
	if b.closing {
		// the queue was discarded, no one is interested in new items
		return
	}
	b.queue.PushBack(entry[D]{item: item})
	b.broadcast()

	name := b.naming.resolve(b.upstream)
	measure.LinkItemsCounter.WithValues(b.kind, name).Inc()
	measure.LinkQueueDepthGauge.WithValues(b.kind, name).Set(float64(b.queue.Len()))
}

// finish marks the task as finished and enqueues the terminal entry, a nil
// error enqueues the terminal marker.
func (b *base[D]) finish(err error) {
	b.m.Lock()
	defer b.m.Unlock()
	if b.finished {
		return
	}
	b.finished = true
	if !b.silent {
		b.queue.PushBack(entry[D]{terminal: true, err: err})
	}
	b.broadcast()
}

// broadcast wakes up all goroutines waiting for a change of the queue. Needs
// to be called with the lock held.
func (b *base[D]) broadcast() {
	close(b.notify)
	b.notify = make(chan struct{})
}

func (b *base[D]) Next(ctx context.Context) (D, error) {
	var zero D
	for {
		b.m.Lock()
		if b.queue.Len() > 0 {
			e := b.queue.PopFront()
			b.broadcast()
			measure.LinkQueueDepthGauge.WithValues(b.kind, b.naming.resolve(b.upstream)).Set(float64(b.queue.Len()))
			b.m.Unlock()

			switch {
			case !e.terminal:
				return e.item, nil
			case e.err != nil:
				return zero, e.err
			default:
				return zero, ErrExhausted
			}
		}
		if b.finished {
			b.m.Unlock()
			return zero, ErrExhausted
		}
		notify := b.notify
		b.m.Unlock()

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-notify:
		}
	}
}

func (b *base[D]) Close() error {
	var err error
	if up := b.Upstream(); up != nil {
		err = up.Close()
		if err != nil {
			b.logger.Warn(context.Background()).
				Err(err).
				Str(log.LinkNameField, b.Name()).
				Str(log.UpstreamNameField, up.Name()).
				Msg("could not close upstream link")
		}
	}

	b.m.Lock()
	if !b.closing && !(b.finished && b.queue.Len() == 0) {
		b.logger.Trace(context.Background()).
			Str(log.LinkNameField, b.naming.resolve(b.upstream)).
			Int(log.QueueDepthField, b.queue.Len()).
			Msg("closing link")
		b.queue.Clear()
		b.broadcast()
	}
	b.closing = true
	b.m.Unlock()

	b.t.Kill(nil)
	return err
}

func (b *base[D]) Closed() bool {
	b.m.Lock()
	defer b.m.Unlock()
	return b.finished && b.queue.Len() == 0
}

func (b *base[D]) Wait(ctx context.Context) error {
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(b.waitDrained)
	if up := b.Upstream(); up != nil {
		p.Go(up.Wait)
	}
	return p.Wait()
}

// waitDrained waits for the task to stop and the queue to be drained. A queue
// holding only the terminal marker, or only the terminal entry of a closed
// link, is discarded.
func (b *base[D]) waitDrained(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.t.Dead():
	}
	if err := b.t.Err(); err != nil {
		return err
	}

	for {
		b.m.Lock()
		if b.queue.Len() == 1 {
			if e := b.queue.Front(); e.terminal && (e.err == nil || b.closing) {
				b.queue.Clear()
				b.broadcast()
			}
		}
		if b.queue.Len() == 0 {
			b.m.Unlock()
			return nil
		}
		notify := b.notify
		b.m.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-notify:
		}
	}
}
