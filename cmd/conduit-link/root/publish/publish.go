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

package publish

import (
	"context"
	"fmt"

	"github.com/conduitio/conduit-link/cmd/conduit-link/cecdysis"
	"github.com/conduitio/conduit-link/cmd/conduit-link/internal"
	"github.com/conduitio/conduit-link/pkg/bridge"
	"github.com/conduitio/conduit-link/pkg/foundation/cerrors"
	"github.com/conduitio/ecdysis"
)

var (
	_ ecdysis.CommandWithFlags               = (*PublishCommand)(nil)
	_ cecdysis.CommandWithExecuteWithRuntime = (*PublishCommand)(nil)
	_ ecdysis.CommandWithDocs                = (*PublishCommand)(nil)
	_ ecdysis.CommandWithConfig              = (*PublishCommand)(nil)
)

type PublishFlags struct {
	Topic string `long:"topic" short:"t" usage:"topic to publish to" required:"true"`

	internal.BridgeFlags
}

type PublishCommand struct {
	flags PublishFlags
	Cfg   bridge.Config
}

func (c *PublishCommand) Usage() string { return "publish" }

func (c *PublishCommand) Flags() []ecdysis.Flag {
	flags := ecdysis.BuildFlags(&c.flags)
	return internal.SetBridgeDefaults(flags)
}

func (c *PublishCommand) Config() ecdysis.Config {
	return internal.BridgeConfig(c.flags.BridgeFlags, &c.Cfg)
}

func (c *PublishCommand) Docs() ecdysis.Docs {
	return ecdysis.Docs{
		Short: "Publish JSON items from stdin to a topic",
		Long: `Reads JSON objects or arrays from stdin, one per line, and publishes each
of them to the topic. Empty lines are skipped. The command stops once stdin
is exhausted or when it is interrupted.`,
		Example: `echo '{"id":1,"name":"widget"}' | conduit-link publish --topic orders --broker.type nats`,
	}
}

func (c *PublishCommand) ExecuteWithRuntime(ctx context.Context, rt *bridge.Runtime) error {
	cmd := ecdysis.CobraCmdFromContext(ctx)

	count, err := rt.Publish(ctx, c.flags.Topic, cmd.InOrStdin())
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "published %d items to %q\n", count, c.flags.Topic)
	if err != nil && !cerrors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
