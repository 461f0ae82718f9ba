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
	"bytes"
	"strings"
	"testing"

	"github.com/conduitio/conduit-link/pkg/bridge"
	"github.com/conduitio/ecdysis"
	"github.com/matryer/is"
)

func TestRootCommandFlags(t *testing.T) {
	is := is.New(t)

	c := &RootCommand{}
	flags := c.Flags()

	is.Equal(len(flags), 1)
	is.Equal(flags[0].Long, "version")
	is.Equal(flags[0].Short, "v")
	is.True(flags[0].Persistent)
}

func TestRootCommand_SubCommands(t *testing.T) {
	is := is.New(t)

	var got []string
	for _, sub := range (&RootCommand{}).SubCommands() {
		got = append(got, sub.Usage())
	}
	is.Equal(got, []string{"publish", "subscribe", "config", "version"})
}

func TestRootCommand_Version(t *testing.T) {
	is := is.New(t)

	cmd := ecdysis.New().MustBuildCobraCommand(&RootCommand{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})

	is.NoErr(cmd.Execute())
	is.Equal(strings.TrimSpace(out.String()), bridge.Version(true))
}
