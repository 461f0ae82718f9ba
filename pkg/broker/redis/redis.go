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

// Package redis provides a broker backed by Redis pub/sub.
package redis

import (
	"context"
	"net"
	"time"

	"github.com/conduitio/conduit-link/pkg/broker"
	"github.com/conduitio/conduit-link/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-link/pkg/foundation/log"
	goredis "github.com/redis/go-redis/v9"
)

type Config struct {
	// Address is the address of the Redis server (host:port).
	Address  string
	Password string
	DB       int
}

// Broker publishes payloads with PUBLISH and receives them with SUBSCRIBE.
type Broker struct {
	client *goredis.Client
	logger log.CtxLogger
	// owned is true if the client was created by the broker and should be
	// closed by it.
	owned bool
}

var _ broker.Broker = (*Broker)(nil)

// New connects to Redis and verifies the connection with PING.
func New(ctx context.Context, cfg Config, logger log.CtxLogger) (*Broker, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, cerrors.Errorf("could not connect to redis at %s: %w", cfg.Address, err)
	}

	b := NewWithClient(client, logger)
	b.owned = true
	b.logger.Info(ctx).Str(log.ServerAddressField, cfg.Address).Msg("connected to redis")
	return b, nil
}

// NewWithClient creates a broker using an existing client. The client is not
// closed when the broker is closed.
func NewWithClient(client *goredis.Client, logger log.CtxLogger) *Broker {
	return &Broker{
		client: client,
		logger: logger.WithComponentFromType(Broker{}),
	}
}

func (b *Broker) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := b.client.Publish(ctx, topic, payload).Err(); err != nil {
		return cerrors.Errorf("could not publish to redis channel %q: %w", topic, err)
	}
	return nil
}

func (b *Broker) Subscribe(ctx context.Context, topic string) (broker.Subscription, error) {
	ps := b.client.Subscribe(ctx, topic)
	// wait for the subscription to be confirmed, otherwise payloads published
	// right after Subscribe returns could be missed
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, cerrors.Errorf("could not subscribe to redis channel %q: %w", topic, err)
	}
	b.logger.Debug(ctx).Str(log.TopicField, topic).Msg("subscribed to redis channel")
	return &subscription{ps: ps}, nil
}

func (b *Broker) Close() error {
	if !b.owned {
		return nil
	}
	return b.client.Close()
}

type subscription struct {
	ps *goredis.PubSub
}

func (s *subscription) Next(ctx context.Context, timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, nil
		}

		msg, err := s.ps.ReceiveTimeout(ctx, remaining)
		if err != nil {
			var netErr net.Error
			if cerrors.As(err, &netErr) && netErr.Timeout() {
				return nil, nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if cerrors.Is(err, goredis.ErrClosed) {
				return nil, broker.ErrClosed
			}
			return nil, cerrors.Errorf("could not receive from redis: %w", err)
		}

		switch m := msg.(type) {
		case *goredis.Message:
			return broker.Payload([]byte(m.Payload)), nil
		default:
			// *goredis.Subscription and *goredis.Pong are control messages
			continue
		}
	}
}

func (s *subscription) Close() error {
	return s.ps.Close()
}
