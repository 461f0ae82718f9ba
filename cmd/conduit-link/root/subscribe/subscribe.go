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

package subscribe

import (
	"context"

	"github.com/conduitio/conduit-link/cmd/conduit-link/cecdysis"
	"github.com/conduitio/conduit-link/cmd/conduit-link/internal"
	"github.com/conduitio/conduit-link/pkg/bridge"
	"github.com/conduitio/conduit-link/pkg/foundation/cerrors"
	"github.com/conduitio/ecdysis"
)

var (
	_ ecdysis.CommandWithFlags               = (*SubscribeCommand)(nil)
	_ cecdysis.CommandWithExecuteWithRuntime = (*SubscribeCommand)(nil)
	_ ecdysis.CommandWithDocs                = (*SubscribeCommand)(nil)
	_ ecdysis.CommandWithConfig              = (*SubscribeCommand)(nil)
)

type SubscribeFlags struct {
	Topic string `long:"topic" short:"t" usage:"topic to subscribe to" required:"true"`
	Limit int    `long:"limit" short:"n" usage:"stop after receiving this many items, 0 means no limit"`

	internal.BridgeFlags
}

type SubscribeCommand struct {
	flags SubscribeFlags
	Cfg   bridge.Config
}

func (c *SubscribeCommand) Usage() string { return "subscribe" }

func (c *SubscribeCommand) Flags() []ecdysis.Flag {
	flags := ecdysis.BuildFlags(&c.flags)
	return internal.SetBridgeDefaults(flags)
}

func (c *SubscribeCommand) Config() ecdysis.Config {
	return internal.BridgeConfig(c.flags.BridgeFlags, &c.Cfg)
}

func (c *SubscribeCommand) Docs() ecdysis.Docs {
	return ecdysis.Docs{
		Short: "Print items published to a topic",
		Long: `Subscribes to the topic and prints every received item as one JSON line.
Only items published after subscribing are received. The command stops after
--limit items or when it is interrupted.`,
		Example: "conduit-link subscribe --topic orders --limit 10 --broker.type redis --broker.redis.address localhost:6379",
	}
}

func (c *SubscribeCommand) ExecuteWithRuntime(ctx context.Context, rt *bridge.Runtime) error {
	if c.flags.Limit < 0 {
		return cerrors.Errorf("--limit needs to be 0 or greater, got %d", c.flags.Limit)
	}
	cmd := ecdysis.CobraCmdFromContext(ctx)

	_, err := rt.Subscribe(ctx, c.flags.Topic, c.flags.Limit, cmd.OutOrStdout())
	if err != nil && !cerrors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
