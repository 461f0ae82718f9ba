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

package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/conduitio/conduit-link/cmd/conduit-link/cecdysis"
	"github.com/conduitio/conduit-link/cmd/conduit-link/root"
	"github.com/conduitio/ecdysis"
)

const (
	exitCodeErr       = 1
	exitCodeInterrupt = 2
)

func Run() {
	e := ecdysis.New(ecdysis.WithDecorators(cecdysis.CommandWithExecuteWithRuntimeDecorator{}))

	cmd := e.MustBuildCobraCommand(&root.RootCommand{})
	cmd.CompletionOptions.DisableDefaultCmd = true

	// Don't want to show usage when there's some unexpected error executing the command
	// Help will still be shown via --help
	cmd.SilenceUsage = true

	// As per the docs, the signals SIGKILL and SIGSTOP may not be caught by a program
	ctx := cancelOnInterrupt(context.Background())
	if err := cmd.ExecuteContext(ctx); err != nil {
		// error is already printed out
		os.Exit(exitCodeErr)
	}
	os.Exit(0)
}

// cancelOnInterrupt returns a context that is canceled when the interrupt
// signal is received.
// * After the first signal the function will continue to listen
// * On the second signal executes a hard exit, without waiting for a graceful
// shutdown.
func cancelOnInterrupt(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt)
	go func() {
		select {
		case <-signalChan: // first interrupt signal
			cancel()
		case <-ctx.Done():
		}
		<-signalChan // second interrupt signal
		os.Exit(exitCodeInterrupt)
	}()

	return ctx
}
