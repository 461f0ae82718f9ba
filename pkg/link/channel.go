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
	"time"

	"github.com/conduitio/conduit-link/pkg/broker"
	"github.com/conduitio/conduit-link/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-link/pkg/foundation/log"
	"github.com/conduitio/conduit-link/pkg/foundation/metrics/measure"
	"github.com/conduitio/conduit-link/pkg/record"
)

const (
	directionPublish   = "publish"
	directionSubscribe = "subscribe"
)

// Channel bridges a chain of links over a broker topic. The topic is the
// name of the channel. The mode of a channel is fixed when it is created:
//   - With an upstream the channel is a publisher. It encodes the items of
//     its upstream and publishes them to the topic. A publisher produces no
//     items and enqueues no terminal entry, it is closed as soon as its task
//     stops. If publishing fails, the error is returned by Wait.
//   - Without an upstream the channel is a subscriber. It subscribes to the
//     topic and produces the decoded payloads it receives.
type Channel[D any] struct {
	base[D]

	broker      broker.Broker
	codec       record.Codec[D]
	publisher   bool
	pollTimeout time.Duration
}

// NewChannel creates a Channel bridging topic name over broker b. If up is
// not nil the channel publishes the items of up, otherwise it subscribes to
// the topic.
func NewChannel[D any](name string, b broker.Broker, up Stream[D], opts ...Option) (*Channel[D], error) {
	if name == "" {
		return nil, cerrors.Errorf("channel needs a name: %w", ErrConfig)
	}
	if b == nil {
		return nil, cerrors.Errorf("channel %q needs a broker: %w", name, ErrConfig)
	}

	o := newOptions(plainName(name), opts)
	// the topic is always the channel name
	o.naming = plainName(name)

	codec, err := channelCodec[D](o.codec)
	if err != nil {
		return nil, err
	}

	c := &Channel[D]{
		broker:      b,
		codec:       codec,
		publisher:   up != nil,
		pollTimeout: o.pollTimeout,
	}
	c.init("Channel", o)
	c.logger.Logger = c.logger.With().Str(log.TopicField, name).Logger()
	if c.publisher {
		c.silent = true
		c.setUpstream(up)
		c.start(c.publish)
	} else {
		c.start(c.subscribe)
	}
	return c, nil
}

// channelCodec returns the configured codec, or the default codec for D.
func channelCodec[D any](configured any) (record.Codec[D], error) {
	if configured == nil {
		if codec, ok := any(record.ItemCodec{}).(record.Codec[D]); ok {
			return codec, nil
		}
		return record.JSONCodec[D]{}, nil
	}
	codec, ok := configured.(record.Codec[D])
	if !ok {
		var zero D
		return nil, cerrors.Errorf("codec %T can't be used for items of type %T: %w", configured, zero, ErrConfig)
	}
	return codec, nil
}

// Publisher returns true if the channel publishes the items of its upstream.
func (c *Channel[D]) Publisher() bool {
	return c.publisher
}

func (c *Channel[D]) publish(ctx context.Context, _ func(D)) error {
	up := c.Upstream().(Stream[D])
	topic := c.Name()
	messages := measure.ChannelMessagesCounter.WithValues(topic, directionPublish)
	payloadBytes := measure.ChannelPayloadBytesHistogram.WithValues(directionPublish)

	c.logger.Debug(ctx).Msg("publishing items")
	for {
		item, err := up.Next(ctx)
		if err != nil {
			return err
		}
		payload, err := c.codec.Encode(item)
		if err != nil {
			return err
		}
		if err := c.broker.Publish(ctx, topic, payload); err != nil {
			return cerrors.Errorf("could not publish to topic %q: %w", topic, err)
		}
		messages.Inc()
		payloadBytes.Observe(float64(len(payload)))
	}
}

func (c *Channel[D]) subscribe(ctx context.Context, push func(D)) (err error) {
	topic := c.Name()
	sub, err := c.broker.Subscribe(ctx, topic)
	if err != nil {
		return cerrors.Errorf("could not subscribe to topic %q: %w", topic, err)
	}
	defer func() {
		closeErr := sub.Close()
		err = cerrors.LogOrReplace(err, closeErr, func() {
			c.logger.Err(ctx, closeErr).Msg("could not close subscription")
		})
	}()

	messages := measure.ChannelMessagesCounter.WithValues(topic, directionSubscribe)
	payloadBytes := measure.ChannelPayloadBytesHistogram.WithValues(directionSubscribe)

	c.logger.Debug(ctx).Dur(log.DurationField, c.pollTimeout).Msg("subscribed to topic")
	for {
		payload, err := sub.Next(ctx, c.pollTimeout)
		if err != nil {
			return err
		}
		if payload == nil {
			// poll timed out, check if the channel was closed in the meantime
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		messages.Inc()
		payloadBytes.Observe(float64(len(payload)))

		item, err := c.codec.Decode(payload)
		if err != nil {
			return err
		}
		push(item)
	}
}
