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

package measure

import (
	"github.com/conduitio/conduit-link/pkg/foundation/metrics"
	"github.com/conduitio/conduit-link/pkg/foundation/metrics/prometheus"
)

// Any changes in metrics defined below should also be reflected in the metrics documentation.
var (
	LinksGauge = metrics.NewLabeledGauge("conduit_link_running",
		"Number of links with a running background task by link type.",
		[]string{"link_type"})
	LinkItemsCounter = metrics.NewLabeledCounter("conduit_link_items_total",
		"Number of items enqueued by a link's background task by link type and name.",
		[]string{"link_type", "link_name"})
	LinkQueueDepthGauge = metrics.NewLabeledGauge("conduit_link_queue_depth",
		"Number of entries waiting in a link's queue by link type and name.",
		[]string{"link_type", "link_name"})
	LinkFailuresCounter = metrics.NewLabeledCounter("conduit_link_failures_total",
		"Number of links that terminated with a wrapped failure by link type.",
		[]string{"link_type"})

	ChannelMessagesCounter = metrics.NewLabeledCounter("conduit_channel_messages_total",
		"Number of messages a channel published or received by topic and direction (publish, subscribe).",
		[]string{"topic", "direction"})
	ChannelPayloadBytesHistogram = metrics.NewLabeledHistogram("conduit_channel_payload_bytes",
		"Size of channel payloads in bytes by direction (publish, subscribe).",
		[]string{"direction"},
		// buckets from 64B to 1MiB
		prometheus.HistogramOpts{Buckets: []float64{64, 256, 1024, 1024 << 2, 1024 << 4, 1024 << 6, 1024 << 8, 1024 << 10}},
	)
)
