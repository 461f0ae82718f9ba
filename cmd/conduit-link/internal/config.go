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

package internal

import (
	"github.com/conduitio/conduit-link/pkg/bridge"
	"github.com/conduitio/ecdysis"
)

const (
	EnvPrefix         = "CONDUIT_LINK"
	DefaultConfigPath = "./conduit-link.yaml"
)

// BridgeFlags are the flags shared by all commands that connect to a broker.
type BridgeFlags struct {
	ConfigPath string `long:"config.path" usage:"conduit-link configuration file"`

	bridge.Config
}

// BridgeConfig returns the ecdysis config that merges the defaults, the
// config file, the environment and the flags into parsed.
func BridgeConfig(flags BridgeFlags, parsed *bridge.Config) ecdysis.Config {
	path := flags.ConfigPath
	if path == "" {
		path = DefaultConfigPath
	}
	return ecdysis.Config{
		EnvPrefix:     EnvPrefix,
		Parsed:        parsed,
		Path:          path,
		DefaultValues: bridge.DefaultConfig(),
	}
}

// SetBridgeDefaults sets the defaults of the flags built from BridgeFlags.
func SetBridgeDefaults(flags ecdysis.Flags) ecdysis.Flags {
	cfg := bridge.DefaultConfig()
	flags.SetDefault("config.path", DefaultConfigPath)
	flags.SetDefault("log.level", cfg.Log.Level)
	flags.SetDefault("log.format", cfg.Log.Format)
	flags.SetDefault("broker.type", cfg.Broker.Type)
	flags.SetDefault("broker.redis.address", cfg.Broker.Redis.Address)
	flags.SetDefault("broker.redis.db", cfg.Broker.Redis.DB)
	flags.SetDefault("broker.nats.url", cfg.Broker.NATS.URL)
	flags.SetDefault("broker.kafka.brokers", cfg.Broker.Kafka.Brokers)
	flags.SetDefault("broker.rabbitmq.url", cfg.Broker.RabbitMQ.URL)
	flags.SetDefault("broker.connect.min-delay", cfg.Broker.Connect.MinDelay)
	flags.SetDefault("broker.connect.max-delay", cfg.Broker.Connect.MaxDelay)
	flags.SetDefault("broker.connect.max-retries", cfg.Broker.Connect.MaxRetries)
	flags.SetDefault("channel.poll-timeout", cfg.Channel.PollTimeout)
	return flags
}
