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

package link

import (
	"time"

	"github.com/conduitio/conduit-link/pkg/foundation/log"
	"github.com/conduitio/conduit-link/pkg/record"
)

const DefaultPollTimeout = 100 * time.Millisecond

// Option configures a link.
type Option func(*options)

type options struct {
	naming      naming
	logger      log.CtxLogger
	pollTimeout time.Duration
	codec       any
}

func newOptions(defaultNaming naming, opts []Option) options {
	o := options{
		naming:      defaultNaming,
		logger:      log.Nop(),
		pollTimeout: DefaultPollTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithName gives the link its own name.
func WithName(name string) Option {
	return func(o *options) {
		o.naming = plainName(name)
	}
}

// WithSuffix derives the name of the link from the name of its upstream link
// and the suffix. The suffix is joined with a colon if it starts with a letter
// or digit (e.g. "orders" + "clean" = "orders:clean"), otherwise it is
// appended directly (e.g. "orders" + "-v2" = "orders-v2").
func WithSuffix(suffix string) Option {
	return func(o *options) {
		o.naming = suffixName(suffix)
	}
}

// WithLogger sets the logger used by the link. Links don't log by default.
func WithLogger(logger log.CtxLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPollTimeout sets how long a subscribing Channel waits for a message
// before checking if it was closed. Defaults to DefaultPollTimeout.
func WithPollTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollTimeout = d
		}
	}
}

// WithCodec sets the codec a Channel uses to encode and decode items. It
// defaults to record.ItemCodec for channels of record.Item and to
// record.JSONCodec for anything else.
func WithCodec[D any](c record.Codec[D]) Option {
	return func(o *options) {
		o.codec = c
	}
}
