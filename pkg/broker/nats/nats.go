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

// Package nats provides a broker backed by NATS core pub/sub. Topics are used
// as NATS subjects.
package nats

import (
	"context"
	"time"

	"github.com/conduitio/conduit-link/pkg/broker"
	"github.com/conduitio/conduit-link/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-link/pkg/foundation/log"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

type Config struct {
	// URL is the NATS server URL (e.g. nats://127.0.0.1:4222).
	URL string
	// Name is the client name reported to the server. Defaults to a random
	// name prefixed with "conduit-link-".
	Name string
	// ConnectTimeout is the timeout for establishing the connection.
	ConnectTimeout time.Duration
	// DrainTimeout is the maximum time Close waits for pending messages to
	// be flushed. Defaults to 5 seconds.
	DrainTimeout time.Duration
}

const defaultDrainTimeout = 5 * time.Second

type Broker struct {
	conn   *nats.Conn
	logger log.CtxLogger

	// closed is closed by the nats client once the connection is closed.
	closed       chan struct{}
	drainTimeout time.Duration
}

var _ broker.Broker = (*Broker)(nil)

func New(ctx context.Context, cfg Config, logger log.CtxLogger) (*Broker, error) {
	logger = logger.WithComponentFromType(Broker{})
	name := cfg.Name
	if name == "" {
		name = "conduit-link-" + uuid.NewString()
	}
	drainTimeout := cfg.DrainTimeout
	if drainTimeout <= 0 {
		drainTimeout = defaultDrainTimeout
	}
	closed := make(chan struct{})
	opts := []nats.Option{
		nats.Name(name),
		nats.DrainTimeout(drainTimeout),
		nats.ClosedHandler(func(*nats.Conn) {
			close(closed)
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn(ctx).Err(err).Str(log.ServerAddressField, cfg.URL).Msg("disconnected from nats")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info(ctx).Str(log.ServerAddressField, c.ConnectedUrl()).Msg("reconnected to nats")
		}),
	}
	if cfg.ConnectTimeout > 0 {
		opts = append(opts, nats.Timeout(cfg.ConnectTimeout))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, cerrors.Errorf("could not connect to nats at %s: %w", cfg.URL, err)
	}
	logger.Info(ctx).Str(log.ServerAddressField, conn.ConnectedUrl()).Msg("connected to nats")
	return &Broker{
		conn:         conn,
		logger:       logger,
		closed:       closed,
		drainTimeout: drainTimeout,
	}, nil
}

func (b *Broker) Publish(_ context.Context, topic string, payload []byte) error {
	if err := b.conn.Publish(topic, payload); err != nil {
		if cerrors.Is(err, nats.ErrBadSubject) {
			return cerrors.Errorf("%q: %w", topic, broker.ErrInvalidTopic)
		}
		if cerrors.Is(err, nats.ErrConnectionClosed) {
			return broker.ErrClosed
		}
		return cerrors.Errorf("could not publish to nats subject %q: %w", topic, err)
	}
	return nil
}

func (b *Broker) Subscribe(ctx context.Context, topic string) (broker.Subscription, error) {
	sub, err := b.conn.SubscribeSync(topic)
	if err != nil {
		if cerrors.Is(err, nats.ErrBadSubject) {
			return nil, cerrors.Errorf("%q: %w", topic, broker.ErrInvalidTopic)
		}
		return nil, cerrors.Errorf("could not subscribe to nats subject %q: %w", topic, err)
	}
	// make sure the server processed the subscription before returning
	if err := b.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return nil, cerrors.Errorf("could not flush nats subscription: %w", err)
	}
	b.logger.Debug(ctx).Str(log.TopicField, topic).Msg("subscribed to nats subject")
	return &subscription{sub: sub}, nil
}

// Close drains the connection, letting in-flight publishes reach the server,
// and waits until the connection is closed. Connection callbacks are not
// invoked after Close returns.
func (b *Broker) Close() error {
	err := b.conn.Drain()
	if err != nil && !cerrors.Is(err, nats.ErrConnectionClosed) && !cerrors.Is(err, nats.ErrConnectionDraining) {
		b.conn.Close()
		return cerrors.Errorf("could not drain nats connection: %w", err)
	}

	timer := time.NewTimer(b.drainTimeout + time.Second)
	defer timer.Stop()
	select {
	case <-b.closed:
		return nil
	case <-timer.C:
		b.conn.Close()
		return cerrors.Errorf("nats connection still open %v after draining started", b.drainTimeout)
	}
}

type subscription struct {
	sub *nats.Subscription
}

func (s *subscription) Next(ctx context.Context, timeout time.Duration) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	msg, err := s.sub.NextMsg(timeout)
	switch {
	case err == nil:
		return broker.Payload(msg.Data), nil
	case cerrors.Is(err, nats.ErrTimeout):
		return nil, nil
	case cerrors.Is(err, nats.ErrBadSubscription), cerrors.Is(err, nats.ErrConnectionClosed):
		return nil, broker.ErrClosed
	default:
		return nil, cerrors.Errorf("could not receive from nats: %w", err)
	}
}

func (s *subscription) Close() error {
	err := s.sub.Unsubscribe()
	if cerrors.Is(err, nats.ErrBadSubscription) || cerrors.Is(err, nats.ErrConnectionClosed) {
		return nil
	}
	return err
}
