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

package cecdysis

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/conduitio/conduit-link/cmd/conduit-link/internal"
	"github.com/conduitio/conduit-link/pkg/bridge"
	"github.com/conduitio/conduit-link/pkg/foundation/cerrors"
	"github.com/conduitio/ecdysis"
	"github.com/matryer/is"
)

type testCommand struct {
	flags internal.BridgeFlags
	cfg   bridge.Config

	executed bool
	runtime  *bridge.Runtime
	parsed   any
}

func (c *testCommand) Usage() string { return "test" }

func (c *testCommand) Flags() []ecdysis.Flag {
	return internal.SetBridgeDefaults(ecdysis.BuildFlags(&c.flags))
}

func (c *testCommand) Config() ecdysis.Config {
	cfg := internal.BridgeConfig(c.flags, &c.cfg)
	if c.parsed != nil {
		cfg.Parsed = c.parsed
	}
	return cfg
}

func (c *testCommand) ExecuteWithRuntime(ctx context.Context, rt *bridge.Runtime) error {
	c.executed = true
	c.runtime = rt
	if ecdysis.CobraCmdFromContext(ctx) == nil {
		return cerrors.New("cobra command missing from context")
	}
	return nil
}

func memoryConfig(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "conduit-link.yaml")
	if err := os.WriteFile(path, []byte("broker:\n  type: memory\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCommandWithExecuteWithRuntimeDecorator(t *testing.T) {
	is := is.New(t)

	c := &testCommand{}
	e := ecdysis.New(ecdysis.WithDecorators(CommandWithExecuteWithRuntimeDecorator{}))
	cmd := e.MustBuildCobraCommand(c)
	cmd.SetArgs([]string{"--config.path", memoryConfig(t)})

	is.NoErr(cmd.ExecuteContext(context.Background()))
	is.True(c.executed)
	is.True(c.runtime != nil)
	is.Equal(c.runtime.Config.Broker.Type, "memory")
}

func TestCommandWithExecuteWithRuntimeDecorator_RuntimeError(t *testing.T) {
	is := is.New(t)
	wantErr := cerrors.New("broker unavailable")

	c := &testCommand{}
	e := ecdysis.New(ecdysis.WithDecorators(CommandWithExecuteWithRuntimeDecorator{
		NewRuntime: func(context.Context, bridge.Config) (*bridge.Runtime, error) {
			return nil, wantErr
		},
	}))
	cmd := e.MustBuildCobraCommand(c)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config.path", memoryConfig(t)})

	err := cmd.ExecuteContext(context.Background())
	is.True(cerrors.Is(err, wantErr))
	is.True(!c.executed)
}

func TestCommandWithExecuteWithRuntimeDecorator_UnexpectedConfigType(t *testing.T) {
	is := is.New(t)

	c := &testCommand{parsed: &struct{ Broker struct{ Type string } }{}}
	e := ecdysis.New(ecdysis.WithDecorators(CommandWithExecuteWithRuntimeDecorator{}))
	cmd := e.MustBuildCobraCommand(c)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config.path", memoryConfig(t)})

	is.True(cmd.ExecuteContext(context.Background()) != nil)
	is.True(!c.executed)
}
