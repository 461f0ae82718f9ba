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

// Package kafka provides a broker backed by Kafka. Every topic is created with
// a single partition and subscriptions read the partition starting at the
// offset that was last at the time of subscribing, so only payloads published
// after subscribing are received.
package kafka

import (
	"context"
	"io"
	"net"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/conduitio/conduit-link/pkg/broker"
	"github.com/conduitio/conduit-link/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-link/pkg/foundation/log"
	"github.com/segmentio/kafka-go"
)

var topicRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,249}$`)

type Config struct {
	// Brokers is the list of Kafka bootstrap servers (host:port).
	Brokers []string
	// WriteTimeout limits how long publishing a payload can take. Defaults
	// to 10 seconds.
	WriteTimeout time.Duration
}

type Broker struct {
	cfg    Config
	writer *kafka.Writer
	logger log.CtxLogger

	m      sync.Mutex
	topics map[string]bool
}

var _ broker.Broker = (*Broker)(nil)

// New creates a Kafka broker and verifies that the first bootstrap server is
// reachable.
func New(ctx context.Context, cfg Config, logger log.CtxLogger) (*Broker, error) {
	if len(cfg.Brokers) == 0 {
		return nil, cerrors.New("kafka broker needs at least one bootstrap server")
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}

	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers[0])
	if err != nil {
		return nil, cerrors.Errorf("could not connect to kafka at %s: %w", cfg.Brokers[0], err)
	}
	_ = conn.Close()

	b := &Broker{
		cfg: cfg,
		writer: newWriter(cfg),
		logger: logger.WithComponentFromType(Broker{}),
		topics: make(map[string]bool),
	}
	b.logger.Info(ctx).Strs(log.ServerAddressField, cfg.Brokers).Msg("connected to kafka")
	return b, nil
}

// newWriter creates the writer used for publishing. Publish writes one
// message at a time and waits for the ack, so batches hold a single message
// and are flushed right away instead of waiting for BatchTimeout.
func newWriter(cfg Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafka.RequireOne,
	}
}

func (b *Broker) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := b.ensureTopic(ctx, topic); err != nil {
		return err
	}
	err := b.writer.WriteMessages(ctx, kafka.Message{Topic: topic, Value: payload})
	if err != nil {
		if cerrors.Is(err, io.ErrClosedPipe) {
			return broker.ErrClosed
		}
		return cerrors.Errorf("could not publish to kafka topic %q: %w", topic, err)
	}
	return nil
}

func (b *Broker) Subscribe(ctx context.Context, topic string) (broker.Subscription, error) {
	if err := b.ensureTopic(ctx, topic); err != nil {
		return nil, err
	}

	// resolve the offset now, so everything published after Subscribe
	// returns is received
	conn, err := kafka.DialLeader(ctx, "tcp", b.cfg.Brokers[0], topic, 0)
	if err != nil {
		return nil, cerrors.Errorf("could not connect to leader of kafka topic %q: %w", topic, err)
	}
	offset, err := conn.ReadLastOffset()
	_ = conn.Close()
	if err != nil {
		return nil, cerrors.Errorf("could not read last offset of kafka topic %q: %w", topic, err)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   b.cfg.Brokers,
		Topic:     topic,
		Partition: 0,
		MaxWait:   100 * time.Millisecond,
	})
	if err := reader.SetOffset(offset); err != nil {
		_ = reader.Close()
		return nil, cerrors.Errorf("could not set offset of kafka reader: %w", err)
	}
	b.logger.Debug(ctx).
		Str(log.TopicField, topic).
		Int64("offset", offset).
		Msg("subscribed to kafka topic")
	return &subscription{reader: reader}, nil
}

// ensureTopic creates the topic with a single partition if it wasn't created
// by this broker yet.
func (b *Broker) ensureTopic(ctx context.Context, topic string) error {
	if !topicRegex.MatchString(topic) {
		return cerrors.Errorf("%q: %w", topic, broker.ErrInvalidTopic)
	}

	b.m.Lock()
	defer b.m.Unlock()
	if b.topics[topic] {
		return nil
	}

	conn, err := kafka.DialContext(ctx, "tcp", b.cfg.Brokers[0])
	if err != nil {
		return cerrors.Errorf("could not connect to kafka: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return cerrors.Errorf("could not get kafka controller: %w", err)
	}
	controllerConn, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return cerrors.Errorf("could not connect to kafka controller: %w", err)
	}
	defer controllerConn.Close()

	err = controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil && !cerrors.Is(err, kafka.TopicAlreadyExists) {
		return cerrors.Errorf("could not create kafka topic %q: %w", topic, err)
	}
	b.topics[topic] = true
	return nil
}

func (b *Broker) Close() error {
	return b.writer.Close()
}

type subscription struct {
	reader *kafka.Reader
}

func (s *subscription) Next(ctx context.Context, timeout time.Duration) ([]byte, error) {
	readCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg, err := s.reader.ReadMessage(readCtx)
	switch {
	case err == nil:
		return broker.Payload(msg.Value), nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case cerrors.Is(err, context.DeadlineExceeded):
		return nil, nil
	case cerrors.Is(err, io.EOF):
		return nil, broker.ErrClosed
	default:
		return nil, cerrors.Errorf("could not read from kafka: %w", err)
	}
}

func (s *subscription) Close() error {
	return s.reader.Close()
}
