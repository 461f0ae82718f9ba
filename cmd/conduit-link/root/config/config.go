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

package config

import (
	"context"
	"fmt"
	"slices"

	"github.com/conduitio/conduit-link/cmd/conduit-link/internal"
	"github.com/conduitio/conduit-link/pkg/bridge"
	"github.com/conduitio/conduit-link/pkg/foundation/cerrors"
	"github.com/conduitio/ecdysis"
	"github.com/spf13/viper"
)

var (
	_ ecdysis.CommandWithExecute = (*ConfigCommand)(nil)
	_ ecdysis.CommandWithDocs    = (*ConfigCommand)(nil)
	_ ecdysis.CommandWithFlags   = (*ConfigCommand)(nil)
)

type ConfigCommand struct {
	flags internal.BridgeFlags
	cfg   bridge.Config
}

func (c *ConfigCommand) Flags() []ecdysis.Flag {
	flags := ecdysis.BuildFlags(&c.flags)
	return internal.SetBridgeDefaults(flags)
}

func (c *ConfigCommand) Docs() ecdysis.Docs {
	return ecdysis.Docs{
		Short: "Shows the configuration to be used when running conduit-link.",
		Long: `conduit-link runs based on the default configuration jointly with a provided configuration file (optional),
the set environment variables, and the flags used. This command shows the configuration that will be used.`,
	}
}

func (c *ConfigCommand) Usage() string { return "config" }

func (c *ConfigCommand) Execute(ctx context.Context) error {
	cmd := ecdysis.CobraCmdFromContext(ctx)

	v := viper.New()
	if err := ecdysis.ParseConfig(v, internal.BridgeConfig(c.flags, &c.cfg), cmd); err != nil {
		return cerrors.Errorf("error parsing config: %w", err)
	}

	keys := v.AllKeys()
	slices.Sort(keys)
	for _, key := range keys {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", key, v.Get(key))
		if err != nil {
			return cerrors.Errorf("failed writing config value to out: %w", err)
		}
	}
	return nil
}
