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
	"context"

	"github.com/conduitio/conduit-link/pkg/bridge"
	"github.com/conduitio/conduit-link/pkg/foundation/cerrors"
	"github.com/conduitio/ecdysis"
	"github.com/spf13/cobra"
)

// ------------------- CommandWithRuntime

// CommandWithExecuteWithRuntime can be implemented by a command that needs a
// broker connection during the execution. The runtime is created from the
// parsed config of the command and closed after the execution.
type CommandWithExecuteWithRuntime interface {
	ecdysis.CommandWithConfig

	// ExecuteWithRuntime is the actual work function.
	ExecuteWithRuntime(context.Context, *bridge.Runtime) error
}

// CommandWithExecuteWithRuntimeDecorator is a decorator that adds a
// conduit-link runtime to the command execution.
type CommandWithExecuteWithRuntimeDecorator struct {
	// NewRuntime creates the runtime, defaults to bridge.NewRuntime.
	NewRuntime func(context.Context, bridge.Config) (*bridge.Runtime, error)
}

func (d CommandWithExecuteWithRuntimeDecorator) Decorate(_ *ecdysis.Ecdysis, cmd *cobra.Command, c ecdysis.Command) error {
	v, ok := c.(CommandWithExecuteWithRuntime)
	if !ok {
		return nil
	}
	newRuntime := d.NewRuntime
	if newRuntime == nil {
		newRuntime = bridge.NewRuntime
	}

	old := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if old != nil {
			err := old(cmd, args)
			if err != nil {
				return err
			}
		}

		cfg, ok := v.Config().Parsed.(*bridge.Config)
		if !ok {
			return cerrors.Errorf("command %q needs to parse its config into *bridge.Config, got %T", cmd.Name(), v.Config().Parsed)
		}

		rt, err := newRuntime(cmd.Context(), *cfg)
		if err != nil {
			return cerrors.Errorf("failed to set up conduit-link runtime: %w", err)
		}
		defer rt.Close()

		ctx := ecdysis.ContextWithCobraCommand(cmd.Context(), cmd)
		return v.ExecuteWithRuntime(ctx, rt)
	}

	return nil
}
