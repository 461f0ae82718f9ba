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
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/conduitio/conduit-link/pkg/broker"
	"github.com/conduitio/conduit-link/pkg/broker/memory"
	"github.com/conduitio/conduit-link/pkg/broker/redis"
	"github.com/conduitio/conduit-link/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-link/pkg/foundation/log"
	"github.com/matryer/is"
)

func testConfig(brokerType string) Config {
	cfg := DefaultConfig()
	cfg.Broker.Type = brokerType
	cfg.Broker.Connect.MinDelay = time.Millisecond
	cfg.Broker.Connect.MaxDelay = 5 * time.Millisecond
	cfg.Broker.Connect.MaxRetries = 2
	cfg.Channel.PollTimeout = 10 * time.Millisecond
	return cfg
}

func TestConnect_Memory(t *testing.T) {
	is := is.New(t)
	b, err := Connect(context.Background(), testConfig(BrokerTypeMemory), log.Test(t))
	is.NoErr(err)
	_, ok := b.(*memory.Broker)
	is.True(ok)
	is.NoErr(b.Close())
}

func TestConnect_Redis(t *testing.T) {
	is := is.New(t)
	mr := miniredis.RunT(t)
	cfg := testConfig(BrokerTypeRedis)
	cfg.Broker.Redis.Address = mr.Addr()

	b, err := Connect(context.Background(), cfg, log.Test(t))
	is.NoErr(err)
	_, ok := b.(*redis.Broker)
	is.True(ok)
	is.NoErr(b.Close())
}

func TestConnect_Retry(t *testing.T) {
	is := is.New(t)
	var attempts int
	dialers := map[string]DialFunc{
		BrokerTypeMemory: func(context.Context, Config, log.CtxLogger) (broker.Broker, error) {
			attempts++
			if attempts < 3 {
				return nil, cerrors.New("connection refused")
			}
			return memory.New(), nil
		},
	}

	b, err := connect(context.Background(), testConfig(BrokerTypeMemory), dialers, log.Test(t))
	is.NoErr(err)
	is.True(b != nil)
	is.Equal(attempts, 3)
}

func TestConnect_RetriesExceeded(t *testing.T) {
	is := is.New(t)
	wantErr := cerrors.New("connection refused")
	var attempts int
	dialers := map[string]DialFunc{
		BrokerTypeMemory: func(context.Context, Config, log.CtxLogger) (broker.Broker, error) {
			attempts++
			return nil, wantErr
		},
	}

	_, err := connect(context.Background(), testConfig(BrokerTypeMemory), dialers, log.Test(t))
	is.True(cerrors.Is(err, wantErr))
	is.Equal(attempts, 3) // first attempt + 2 retries
}

func TestConnect_ContextCanceled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	dialers := map[string]DialFunc{
		BrokerTypeMemory: func(context.Context, Config, log.CtxLogger) (broker.Broker, error) {
			cancel()
			return nil, cerrors.New("connection refused")
		},
	}
	cfg := testConfig(BrokerTypeMemory)
	cfg.Broker.Connect.MinDelay = time.Minute
	cfg.Broker.Connect.MaxDelay = time.Minute

	_, err := connect(ctx, cfg, dialers, log.Test(t))
	is.True(cerrors.Is(err, context.Canceled))
}

func TestConnect_UnknownType(t *testing.T) {
	is := is.New(t)
	_, err := Connect(context.Background(), testConfig("carrier-pigeon"), log.Test(t))
	is.True(err != nil)
}
