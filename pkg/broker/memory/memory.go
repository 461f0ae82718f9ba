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

// Package memory provides an in-process broker. It is used in tests and when
// publisher and subscriber run in the same process.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/conduitio/conduit-link/pkg/broker"
	"github.com/gammazero/deque"
)

// Broker is an in-memory broker. Every subscription buffers the payloads
// published after it was created until they are retrieved with Next.
type Broker struct {
	m      sync.Mutex
	topics map[string]map[*subscription]struct{}
	closed bool
}

var _ broker.Broker = (*Broker)(nil)

func New() *Broker {
	return &Broker{topics: make(map[string]map[*subscription]struct{})}
}

func (b *Broker) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.m.Lock()
	defer b.m.Unlock()
	if b.closed {
		return broker.ErrClosed
	}
	for sub := range b.topics[topic] {
		// copy the payload so subscribers can't change each other's data
		p := make([]byte, len(payload))
		copy(p, payload)
		sub.push(p)
	}
	return nil
}

func (b *Broker) Subscribe(ctx context.Context, topic string) (broker.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.m.Lock()
	defer b.m.Unlock()
	if b.closed {
		return nil, broker.ErrClosed
	}
	sub := &subscription{
		broker: b,
		topic:  topic,
		notify: make(chan struct{}),
	}
	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[*subscription]struct{})
		b.topics[topic] = subs
	}
	subs[sub] = struct{}{}
	return sub, nil
}

// Subscribers returns the number of open subscriptions of the topic.
func (b *Broker) Subscribers(topic string) int {
	b.m.Lock()
	defer b.m.Unlock()
	return len(b.topics[topic])
}

// Close closes the broker and all its subscriptions.
func (b *Broker) Close() error {
	b.m.Lock()
	defer b.m.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, subs := range b.topics {
		for sub := range subs {
			sub.m.Lock()
			sub.close()
			sub.m.Unlock()
		}
	}
	b.topics = nil
	return nil
}

func (b *Broker) unsubscribe(sub *subscription) {
	b.m.Lock()
	defer b.m.Unlock()
	if subs, ok := b.topics[sub.topic]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(b.topics, sub.topic)
		}
	}
}

type subscription struct {
	broker *Broker
	topic  string

	m      sync.Mutex
	buffer deque.Deque[[]byte]
	notify chan struct{}
	closed bool
}

func (s *subscription) push(payload []byte) {
	s.m.Lock()
	defer s.m.Unlock()
	if s.closed {
		return
	}
	s.buffer.PushBack(payload)
	close(s.notify)
	s.notify = make(chan struct{})
}

func (s *subscription) Next(ctx context.Context, timeout time.Duration) ([]byte, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		s.m.Lock()
		if s.closed {
			s.m.Unlock()
			return nil, broker.ErrClosed
		}
		if s.buffer.Len() > 0 {
			payload := s.buffer.PopFront()
			s.m.Unlock()
			return payload, nil
		}
		notify := s.notify
		s.m.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return nil, nil
		case <-notify:
		}
	}
}

func (s *subscription) Close() error {
	s.broker.unsubscribe(s)
	s.m.Lock()
	defer s.m.Unlock()
	s.close()
	return nil
}

// close needs to be called with the lock held.
func (s *subscription) close() {
	if s.closed {
		return
	}
	s.closed = true
	s.buffer.Clear()
	close(s.notify)
}
