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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/conduitio/conduit-link/cmd/conduit-link/cecdysis"
	"github.com/conduitio/ecdysis"
	"github.com/matryer/is"
	"github.com/spf13/cobra"
)

func newCommand(c *SubscribeCommand) *cobra.Command {
	e := ecdysis.New(ecdysis.WithDecorators(cecdysis.CommandWithExecuteWithRuntimeDecorator{}))
	return e.MustBuildCobraCommand(c)
}

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "conduit-link.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSubscribeCommandFlags(t *testing.T) {
	is := is.New(t)

	cmd := newCommand(&SubscribeCommand{})

	topic := cmd.Flags().Lookup("topic")
	is.True(topic != nil)
	is.Equal(topic.Shorthand, "t")

	limit := cmd.Flags().Lookup("limit")
	is.True(limit != nil)
	is.Equal(limit.Shorthand, "n")
	is.Equal(limit.DefValue, "0")

	pollTimeout := cmd.Flags().Lookup("channel.poll-timeout")
	is.True(pollTimeout != nil)
	is.Equal(pollTimeout.DefValue, "100ms")
}

func TestSubscribeCommand_NegativeLimit(t *testing.T) {
	is := is.New(t)

	configPath := writeConfig(t, "broker:\n  type: memory\n")

	cmd := newCommand(&SubscribeCommand{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--topic", "orders", "--limit", "-1", "--config.path", configPath})

	is.True(cmd.ExecuteContext(context.Background()) != nil)
}

func TestSubscribeCommand_Interrupted(t *testing.T) {
	is := is.New(t)

	configPath := writeConfig(t, "broker:\n  type: memory\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(100*time.Millisecond, cancel)

	cmd := newCommand(&SubscribeCommand{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--topic", "orders", "--config.path", configPath})

	// nothing is published, an interrupt is not an error
	is.NoErr(cmd.ExecuteContext(ctx))
	is.Equal(out.Len(), 0)
}
