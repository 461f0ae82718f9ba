// Copyright © 2022 Meroxa, Inc.
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
// Package ctxutil stores values in a context and attaches them to log
// output through zerolog hooks.
package ctxutil

import (
	"context"

	"github.com/conduitio/conduit-link/pkg/foundation/log"
	"github.com/rs/zerolog"
)

// linkNameCtxKey is used as the key when saving the link name in a context.
type linkNameCtxKey struct{}

// ContextWithLinkName wraps ctx and returns a context that contains the name
// of the link running the current task.
func ContextWithLinkName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, linkNameCtxKey{}, name)
}

// LinkNameFromContext fetches the link name from the context. If the context
// does not contain a link name it returns an empty string.
func LinkNameFromContext(ctx context.Context) string {
	name := ctx.Value(linkNameCtxKey{})
	if name != nil {
		return name.(string)
	}
	return ""
}

// LinkNameLogCtxHook fetches the link name from the context and if it exists
// it adds the link name to the log output.
type LinkNameLogCtxHook struct{}

// Run executes the log hook.
func (h LinkNameLogCtxHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil {
		return
	}
	if name := LinkNameFromContext(ctx); name != "" {
		e.Str(log.LinkNameField, name)
	}
}
