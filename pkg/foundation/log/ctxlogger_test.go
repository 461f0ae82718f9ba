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

package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/conduitio/conduit-link/pkg/foundation/cerrors"
	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

type testComponent struct{}

func TestCtxLogger_Levels(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name    string
		logfunc func(CtxLogger)
		want    string
	}{{
		name: "log empty",
		logfunc: func(logger CtxLogger) {
			logger.Log(ctx).Msg("")
		},
		want: `{}` + "\n",
	}, {
		name: "trace one-field",
		logfunc: func(logger CtxLogger) {
			logger.Trace(ctx).Str("foo", "bar").Msg("")
		},
		want: `{"level":"trace","foo":"bar"}` + "\n",
	}, {
		name: "debug two-field",
		logfunc: func(logger CtxLogger) {
			logger.Debug(ctx).
				Str("foo", "bar").
				Int("n", 123).
				Msg("")
		},
		want: `{"level":"debug","foo":"bar","n":123}` + "\n",
	}, {
		name: "info with component",
		logfunc: func(logger CtxLogger) {
			logger.WithComponent("link.Source").Info(ctx).Msg("")
		},
		want: `{"level":"info","component":"link.Source"}` + "\n",
	}, {
		name: "warn",
		logfunc: func(logger CtxLogger) {
			logger.Warn(ctx).Msg("careful")
		},
		want: `{"level":"warn","message":"careful"}` + "\n",
	}, {
		name: "error",
		logfunc: func(logger CtxLogger) {
			logger.Error(ctx).Msg("")
		},
		want: `{"level":"error"}` + "\n",
	}, {
		name: "err with nil error",
		logfunc: func(logger CtxLogger) {
			logger.Err(ctx, nil).Msg("")
		},
		want: `{"level":"info"}` + "\n",
	}, {
		name: "err with error",
		logfunc: func(logger CtxLogger) {
			logger.Err(ctx, cerrors.New("boom")).Msg("")
		},
		want: `{"level":"error","error":"boom"}` + "\n",
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)

			var out bytes.Buffer
			logger := New(zerolog.New(&out))
			tc.logfunc(logger)
			is.Equal(tc.want, out.String())
		})
	}
}

func TestCtxLogger_WithComponentFromType(t *testing.T) {
	is := is.New(t)

	logger := Nop().WithComponentFromType(&testComponent{})
	is.Equal(logger.Component(), "foundation.log.testComponent")
}

func TestCtxLogger_ZerologWithComponent(t *testing.T) {
	is := is.New(t)

	var out bytes.Buffer
	logger := New(zerolog.New(&out)).WithComponent("test")
	zl := logger.ZerologWithComponent()
	zl.Info().Msg("")
	is.Equal(`{"level":"info","component":"test"}`+"\n", out.String())
}

func TestParseFormat(t *testing.T) {
	is := is.New(t)

	f, err := ParseFormat("json")
	is.NoErr(err)
	is.Equal(f, FormatJSON)

	f, err = ParseFormat("cli")
	is.NoErr(err)
	is.Equal(f, FormatCLI)

	_, err = ParseFormat("xml")
	is.True(err != nil)
}
