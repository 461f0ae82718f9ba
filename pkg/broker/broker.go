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

//go:generate mockgen -destination=mock/broker.go -package=mock -mock_names=Broker=Broker,Subscription=Subscription . Broker,Subscription

// Package broker defines the contract of a publish/subscribe broker used to
// bridge chains of links across processes. Implementations live in the
// subpackages.
package broker

import (
	"context"
	"time"

	"github.com/conduitio/conduit-link/pkg/foundation/cerrors"
)

var (
	// ErrClosed is returned when a broker or subscription is used after it was
	// closed.
	ErrClosed = cerrors.New("broker closed")
	// ErrInvalidTopic is returned when a topic name is not supported by the
	// broker.
	ErrInvalidTopic = cerrors.New("invalid topic")
)

// Broker publishes payloads to topics and creates subscriptions to topics.
// Topics don't need to be created upfront. Payloads published to a topic are
// delivered to all subscriptions of the topic that exist at the time of
// publishing, there is no persistence or replay.
type Broker interface {
	// Publish publishes the payload to the topic.
	Publish(ctx context.Context, topic string, payload []byte) error
	// Subscribe subscribes to the topic. The subscription is confirmed by the
	// broker when Subscribe returns.
	Subscribe(ctx context.Context, topic string) (Subscription, error)
	// Close releases the connection to the broker.
	Close() error
}

// Payload returns p as received payload, a nil p is replaced by an empty
// slice so it can't be confused with a poll timeout.
func Payload(p []byte) []byte {
	if p == nil {
		return []byte{}
	}
	return p
}

// Subscription receives payloads published to a topic.
type Subscription interface {
	// Next waits at most timeout for the next payload. It returns nil and no
	// error if no payload arrived in time, an empty payload is returned as a
	// non-nil empty slice. Control messages of the broker (e.g. subscribe
	// confirmations) are never returned.
	Next(ctx context.Context, timeout time.Duration) ([]byte, error)
	// Close stops the subscription.
	Close() error
}
