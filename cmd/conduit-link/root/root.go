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

package root

import (
	"context"
	"fmt"

	"github.com/conduitio/conduit-link/cmd/conduit-link/root/config"
	"github.com/conduitio/conduit-link/cmd/conduit-link/root/publish"
	"github.com/conduitio/conduit-link/cmd/conduit-link/root/subscribe"
	"github.com/conduitio/conduit-link/cmd/conduit-link/root/version"
	"github.com/conduitio/conduit-link/pkg/bridge"
	"github.com/conduitio/ecdysis"
)

var (
	_ ecdysis.CommandWithFlags       = (*RootCommand)(nil)
	_ ecdysis.CommandWithExecute     = (*RootCommand)(nil)
	_ ecdysis.CommandWithDocs        = (*RootCommand)(nil)
	_ ecdysis.CommandWithSubCommands = (*RootCommand)(nil)
)

type RootFlags struct {
	Version bool `long:"version" short:"v" usage:"show current conduit-link version" persistent:"true"`
}

type RootCommand struct {
	flags RootFlags
}

func (c *RootCommand) Execute(ctx context.Context) error {
	if c.flags.Version {
		cmd := ecdysis.CobraCmdFromContext(ctx)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", bridge.Version(true))
		return nil
	}
	return ecdysis.CobraCmdFromContext(ctx).Help()
}

func (c *RootCommand) Usage() string { return "conduit-link" }

func (c *RootCommand) Flags() []ecdysis.Flag {
	return ecdysis.BuildFlags(&c.flags)
}

func (c *RootCommand) Docs() ecdysis.Docs {
	return ecdysis.Docs{
		Short: "conduit-link bridges streams of JSON items over pub/sub brokers",
		Long: `conduit-link publishes JSON items read from stdin to a broker topic and
subscribes to topics, printing every received item as one JSON line.
Supported brokers are redis, nats, kafka, rabbitmq and an in-process memory broker.`,
	}
}

func (c *RootCommand) SubCommands() []ecdysis.Command {
	return []ecdysis.Command{
		&publish.PublishCommand{},
		&subscribe.SubscribeCommand{},
		&config.ConfigCommand{},
		&version.VersionCommand{},
	}
}
