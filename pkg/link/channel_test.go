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
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/conduitio/conduit-link/pkg/broker"
	"github.com/conduitio/conduit-link/pkg/broker/memory"
	"github.com/conduitio/conduit-link/pkg/broker/mock"
	natsbroker "github.com/conduitio/conduit-link/pkg/broker/nats"
	redisbroker "github.com/conduitio/conduit-link/pkg/broker/redis"
	"github.com/conduitio/conduit-link/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-link/pkg/foundation/log"
	"github.com/conduitio/conduit-link/pkg/record"
	"github.com/matryer/is"
	natsserver "github.com/nats-io/nats-server/v2/test"
	"go.uber.org/mock/gomock"
)

func TestChannel_PubSub(t *testing.T) {
	testCases := []struct {
		name      string
		newBroker func(t *testing.T) broker.Broker
	}{{
		name: "memory",
		newBroker: func(t *testing.T) broker.Broker {
			return memory.New()
		},
	}, {
		name: "redis",
		newBroker: func(t *testing.T) broker.Broker {
			mr := miniredis.RunT(t)
			b, err := redisbroker.New(context.Background(), redisbroker.Config{Address: mr.Addr()}, log.Test(t))
			is.New(t).NoErr(err)
			return b
		},
	}, {
		name: "nats",
		newBroker: func(t *testing.T) broker.Broker {
			opts := natsserver.DefaultTestOptions
			opts.Port = -1
			s := natsserver.RunServer(&opts)
			t.Cleanup(s.Shutdown)
			b, err := natsbroker.New(context.Background(), natsbroker.Config{URL: s.ClientURL()}, log.Test(t))
			is.New(t).NoErr(err)
			return b
		},
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := tc.newBroker(t)
			t.Cleanup(func() { _ = b.Close() })
			testPubSub(t, b)
		})
	}
}

func testPubSub(t *testing.T, b broker.Broker) {
	is := is.New(t)
	ctx := waitCtx(t)
	const topic = "test-pubsub"

	src, err := NewSource[[]int](source5(0), WithName("src5"))
	is.NoErr(err)
	pub, err := NewChannel[[]int](topic, b, src, WithLogger(log.Test(t)))
	is.NoErr(err)
	is.True(pub.Publisher())
	is.Equal(pub.Name(), topic)

	time.Sleep(time.Duration(1+rand.IntN(50)) * time.Millisecond)

	sub, err := NewChannel[[]int](topic, b, nil, WithPollTimeout(10*time.Millisecond))
	is.NoErr(err)
	is.True(!sub.Publisher())
	dest, err := Attach(NewDestination[[]int](), sub)
	is.NoErr(err)
	is.Equal(dest.Name(), topic)

	full := []int{0, 1, 2, 3, 4}
	var (
		prev   []int
		before int // partial batches received before the first full one
		seen   int // full batches received
	)
	for seen < 5 {
		batch, err := dest.Next(ctx)
		is.NoErr(err)
		if seen == 0 && !slices.Equal(batch, full) {
			before++
		}
		if seen > 0 {
			// batches keep cycling through ascending lengths
			is.Equal(len(batch), len(prev)%5+1)
		}
		if slices.Equal(batch, full) {
			seen++
		}
		prev = batch
	}
	is.True(before <= 4)
	is.Equal(seen, 5)

	is.NoErr(dest.Close())
	is.NoErr(dest.Wait(ctx))
	is.True(sub.Closed())

	is.NoErr(pub.Close())
	is.NoErr(pub.Wait(ctx))
	is.True(pub.Closed())
	is.True(src.Closed())
}

func TestChannel_Items(t *testing.T) {
	is := is.New(t)
	ctx := waitCtx(t)
	const topic = "items"
	b := memory.New()
	defer b.Close()

	sub, err := NewChannel[record.Item](topic, b, nil, WithPollTimeout(10*time.Millisecond))
	is.NoErr(err)
	for b.Subscribers(topic) == 0 {
		select {
		case <-ctx.Done():
			t.Fatal("subscriber did not subscribe in time")
		case <-time.After(time.Millisecond):
		}
	}

	src, err := NewSource[record.Item]([]record.Item{
		record.Mapping{"name": "widget", "qty": 2.0},
		record.List{"a", "b"},
	})
	is.NoErr(err)
	pub, err := NewChannel[record.Item](topic, b, src)
	is.NoErr(err)
	is.NoErr(pub.Wait(ctx))
	is.True(pub.Closed())

	var got []record.Item
	for len(got) < 2 {
		it, err := sub.Next(ctx)
		is.NoErr(err)
		got = append(got, it)
	}
	is.Equal(got[0], record.Mapping{"name": "widget", "qty": 2.0})
	is.Equal(got[1], record.List{"a", "b"})

	is.NoErr(sub.Close())
	is.NoErr(sub.Wait(ctx))
}

func TestChannel_CloseSubscriber(t *testing.T) {
	is := is.New(t)
	ctx := waitCtx(t)
	b := memory.New()
	defer b.Close()

	sub, err := NewChannel[[]int]("nothing", b, nil, WithPollTimeout(10*time.Millisecond))
	is.NoErr(err)
	is.NoErr(sub.Close())

	_, err = sub.Next(ctx)
	is.True(cerrors.Is(err, ErrExhausted))
	is.True(sub.Closed())
	is.NoErr(sub.Wait(ctx))
	is.Equal(b.Subscribers("nothing"), 0)
}

func TestChannel_ClosePublisher(t *testing.T) {
	is := is.New(t)
	ctx := waitCtx(t)
	b := memory.New()
	defer b.Close()

	src, err := NewSource[[]int](source5(0))
	is.NoErr(err)
	pub, err := NewChannel[[]int]("numbers", b, src)
	is.NoErr(err)

	time.Sleep(10 * time.Millisecond)
	is.NoErr(pub.Close())
	is.NoErr(pub.Wait(ctx))
	is.True(pub.Closed())
	is.True(src.Closed())

	_, err = pub.Next(ctx)
	is.True(cerrors.Is(err, ErrExhausted))
}

func TestChannel_PublishFails(t *testing.T) {
	is := is.New(t)
	ctx := waitCtx(t)
	ctrl := gomock.NewController(t)
	b := mock.NewBroker(ctrl)

	wantErr := cerrors.New("connection lost")
	b.EXPECT().Publish(gomock.Any(), "numbers", []byte("[1]")).Return(wantErr)

	src, err := NewSource[[]int]([][]int{{1}})
	is.NoErr(err)
	pub, err := NewChannel[[]int]("numbers", b, src)
	is.NoErr(err)

	err = pub.Wait(ctx)
	is.True(cerrors.Is(err, wantErr))
	var failure *FailureError
	is.True(cerrors.As(err, &failure))
	is.Equal(failure.Link, "numbers")

	// the failure is only reported by Wait, nothing is enqueued
	is.True(pub.Closed())
	_, err = pub.Next(ctx)
	is.True(cerrors.Is(err, ErrExhausted))
}

func TestChannel_SubscribeFails(t *testing.T) {
	is := is.New(t)
	ctx := waitCtx(t)
	ctrl := gomock.NewController(t)
	b := mock.NewBroker(ctrl)

	wantErr := cerrors.New("not authorized")
	b.EXPECT().Subscribe(gomock.Any(), "numbers").Return(nil, wantErr)

	sub, err := NewChannel[[]int]("numbers", b, nil)
	is.NoErr(err)

	_, err = sub.Next(ctx)
	is.True(cerrors.Is(err, wantErr))
	var failure *FailureError
	is.True(cerrors.As(err, &failure))
	is.Equal(failure.Link, "numbers")
	is.True(sub.Closed())
}

func TestChannel_Polling(t *testing.T) {
	is := is.New(t)
	ctx := waitCtx(t)
	ctrl := gomock.NewController(t)
	b := mock.NewBroker(ctrl)
	s := mock.NewSubscription(ctrl)
	const pollTimeout = 5 * time.Millisecond

	b.EXPECT().Subscribe(gomock.Any(), "numbers").Return(s, nil)
	gomock.InOrder(
		s.EXPECT().Next(gomock.Any(), pollTimeout).Return(nil, nil).Times(3),
		s.EXPECT().Next(gomock.Any(), pollTimeout).Return([]byte("[1,2]"), nil),
		s.EXPECT().Next(gomock.Any(), pollTimeout).
			DoAndReturn(func(ctx context.Context, _ time.Duration) ([]byte, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			}).
			AnyTimes(),
	)
	s.EXPECT().Close().Return(nil)

	sub, err := NewChannel[[]int]("numbers", b, nil, WithPollTimeout(pollTimeout))
	is.NoErr(err)

	got, err := sub.Next(ctx)
	is.NoErr(err)
	is.Equal(got, []int{1, 2})

	is.NoErr(sub.Close())
	is.NoErr(sub.Wait(ctx))
	is.True(sub.Closed())
}

func TestChannel_DecodeFails(t *testing.T) {
	is := is.New(t)
	ctx := waitCtx(t)
	ctrl := gomock.NewController(t)
	b := mock.NewBroker(ctrl)
	s := mock.NewSubscription(ctrl)

	b.EXPECT().Subscribe(gomock.Any(), "numbers").Return(s, nil)
	s.EXPECT().Next(gomock.Any(), DefaultPollTimeout).Return([]byte("not json"), nil)
	s.EXPECT().Close().Return(nil)

	sub, err := NewChannel[[]int]("numbers", b, nil)
	is.NoErr(err)

	_, err = sub.Next(ctx)
	var failure *FailureError
	is.True(cerrors.As(err, &failure))
	is.Equal(failure.Link, "numbers")
}

func TestChannel_EmptyPayloadFails(t *testing.T) {
	is := is.New(t)
	ctx := waitCtx(t)
	b := memory.New()

	sub, err := NewChannel[[]int]("numbers", b, nil, WithPollTimeout(5*time.Millisecond))
	is.NoErr(err)
	for b.Subscribers("numbers") == 0 {
		time.Sleep(time.Millisecond)
	}

	is.NoErr(b.Publish(ctx, "numbers", []byte{}))

	_, err = sub.Next(ctx)
	var failure *FailureError
	is.True(cerrors.As(err, &failure))
	is.Equal(failure.Link, "numbers")
}

func TestNewChannel_Config(t *testing.T) {
	b := memory.New()
	defer b.Close()

	testCases := []struct {
		name string
		new  func() (*Channel[[]int], error)
	}{{
		name: "empty name",
		new: func() (*Channel[[]int], error) {
			return NewChannel[[]int]("", b, nil)
		},
	}, {
		name: "nil broker",
		new: func() (*Channel[[]int], error) {
			return NewChannel[[]int]("numbers", nil, nil)
		},
	}, {
		name: "codec mismatch",
		new: func() (*Channel[[]int], error) {
			return NewChannel[[]int]("numbers", b, nil, WithCodec[record.Item](record.ItemCodec{}))
		},
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			c, err := tc.new()
			is.True(cerrors.Is(err, ErrConfig))
			is.Equal(c, nil)
		})
	}
}

func TestNewChannel_IgnoresNaming(t *testing.T) {
	is := is.New(t)
	b := memory.New()
	defer b.Close()

	src, err := NewSource[[]int]([][]int{{1}}, WithName("numbers"))
	is.NoErr(err)
	pub, err := NewChannel[[]int]("topic", b, src, WithSuffix("+x"))
	is.NoErr(err)
	is.Equal(pub.Name(), "topic")
	is.NoErr(pub.Wait(waitCtx(t)))
}
