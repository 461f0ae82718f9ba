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

package bridge

import (
	"context"
	"strings"
	"time"

	"github.com/conduitio/conduit-link/pkg/broker"
	"github.com/conduitio/conduit-link/pkg/broker/kafka"
	"github.com/conduitio/conduit-link/pkg/broker/memory"
	"github.com/conduitio/conduit-link/pkg/broker/nats"
	"github.com/conduitio/conduit-link/pkg/broker/rabbitmq"
	"github.com/conduitio/conduit-link/pkg/broker/redis"
	"github.com/conduitio/conduit-link/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-link/pkg/foundation/log"
	"github.com/jpillora/backoff"
)

// DialFunc creates a broker connection from the config.
type DialFunc func(ctx context.Context, cfg Config, logger log.CtxLogger) (broker.Broker, error)

// DefaultDialers contains a dial function for every supported broker type.
var DefaultDialers = map[string]DialFunc{
	BrokerTypeMemory: func(context.Context, Config, log.CtxLogger) (broker.Broker, error) {
		return memory.New(), nil
	},
	BrokerTypeRedis: func(ctx context.Context, cfg Config, logger log.CtxLogger) (broker.Broker, error) {
		return redis.New(ctx, redis.Config{
			Address:  cfg.Broker.Redis.Address,
			Password: cfg.Broker.Redis.Password,
			DB:       cfg.Broker.Redis.DB,
		}, logger)
	},
	BrokerTypeNATS: func(ctx context.Context, cfg Config, logger log.CtxLogger) (broker.Broker, error) {
		return nats.New(ctx, nats.Config{
			URL:  cfg.Broker.NATS.URL,
			Name: cfg.Broker.NATS.Name,
		}, logger)
	},
	BrokerTypeKafka: func(ctx context.Context, cfg Config, logger log.CtxLogger) (broker.Broker, error) {
		return kafka.New(ctx, kafka.Config{Brokers: cfg.kafkaBrokers()}, logger)
	},
	BrokerTypeRabbitMQ: func(ctx context.Context, cfg Config, logger log.CtxLogger) (broker.Broker, error) {
		return rabbitmq.New(ctx, rabbitmq.Config{URL: cfg.Broker.RabbitMQ.URL}, logger)
	},
}

// Connect creates the broker configured in cfg. Failed connection attempts
// are retried with an exponential backoff until Broker.Connect.MaxRetries is
// exceeded.
func Connect(ctx context.Context, cfg Config, logger log.CtxLogger) (broker.Broker, error) {
	return connect(ctx, cfg, DefaultDialers, logger)
}

func connect(ctx context.Context, cfg Config, dialers map[string]DialFunc, logger log.CtxLogger) (broker.Broker, error) {
	dial, ok := dialers[cfg.Broker.Type]
	if !ok {
		return nil, cerrors.Errorf("unknown broker type %q", cfg.Broker.Type)
	}

	b := &backoff.Backoff{
		Factor: 2,
		Min:    cfg.Broker.Connect.MinDelay,
		Max:    cfg.Broker.Connect.MaxDelay,
		Jitter: true,
	}

	for attempt := 1; ; attempt++ {
		brk, err := dial(ctx, cfg, logger)
		if err == nil {
			if attempt > 1 {
				logger.Info(ctx).
					Int(log.AttemptField, attempt).
					Str(log.BrokerTypeField, cfg.Broker.Type).
					Msg("connected to broker after retrying")
			}
			return brk, nil
		}
		if attempt > cfg.Broker.Connect.MaxRetries {
			return nil, cerrors.Errorf("could not connect to %s broker after %d attempts: %w", cfg.Broker.Type, attempt, err)
		}

		delay := b.Duration()
		logger.Warn(ctx).
			Err(err).
			Int(log.AttemptField, attempt).
			Dur(log.DurationField, delay).
			Str(log.BrokerTypeField, cfg.Broker.Type).
			Msg("could not connect to broker, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (c Config) kafkaBrokers() []string {
	var brokers []string
	for _, addr := range strings.Split(c.Broker.Kafka.Brokers, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			brokers = append(brokers, addr)
		}
	}
	return brokers
}
