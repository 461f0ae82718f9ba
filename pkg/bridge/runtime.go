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

// Package bridge wires links and brokers into the publish and subscribe
// pipelines run by the conduit-link CLI.
package bridge

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"iter"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/conduitio/conduit-link/pkg/broker"
	"github.com/conduitio/conduit-link/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-link/pkg/foundation/ctxutil"
	"github.com/conduitio/conduit-link/pkg/foundation/log"
	"github.com/conduitio/conduit-link/pkg/foundation/metrics"
	"github.com/conduitio/conduit-link/pkg/foundation/metrics/prometheus"
	"github.com/conduitio/conduit-link/pkg/link"
	"github.com/conduitio/conduit-link/pkg/record"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gopkg.in/tomb.v2"
)

const exitTimeout = 10 * time.Second

var (
	registerMetricsOnce sync.Once
	metricsGatherer     *promclient.Registry
)

// Runtime sets up the broker connection and runs publish and subscribe
// pipelines over it.
type Runtime struct {
	Config Config

	broker broker.Broker
	logger log.CtxLogger
}

// NewRuntime validates the config and connects to the configured broker.
func NewRuntime(ctx context.Context, cfg Config) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, cerrors.Errorf("invalid config: %w", err)
	}
	logger := newLogger(cfg.Log.Level, cfg.Log.Format)
	return newRuntime(ctx, cfg, logger)
}

func newRuntime(ctx context.Context, cfg Config, logger log.CtxLogger) (*Runtime, error) {
	brk, err := Connect(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Runtime{
		Config: cfg,
		broker: brk,
		logger: logger.WithComponentFromType(Runtime{}),
	}, nil
}

func newLogger(level string, format string) log.CtxLogger {
	l, _ := zerolog.ParseLevel(level)
	f, _ := log.ParseFormat(format)
	logger := log.InitLogger(l, f)
	logger.Logger = logger.Hook(ctxutil.LinkNameLogCtxHook{})
	zerolog.DefaultContextLogger = &logger.Logger
	return logger
}

func configurePrometheus() *promclient.Registry {
	registerMetricsOnce.Do(func() {
		registry := prometheus.NewRegistry(nil)
		metricsGatherer = promclient.NewRegistry()
		metricsGatherer.MustRegister(registry)
		metrics.Register(registry)
	})
	return metricsGatherer
}

// Close closes the broker connection.
func (r *Runtime) Close() error {
	return r.broker.Close()
}

// Publish reads JSON documents from in, one per line, and publishes them to
// topic. It returns the number of items read from in once in is exhausted or
// ctx is canceled.
func (r *Runtime) Publish(ctx context.Context, topic string, in io.Reader) (int, error) {
	return r.run(ctx, func(ctx context.Context) (int, error) {
		var count atomic.Int64
		src, err := link.NewSource[record.Item](
			readItems(in, &count),
			link.WithName("stdin"),
			link.WithLogger(r.logger),
		)
		if err != nil {
			return 0, err
		}
		pub, err := link.NewChannel[record.Item](topic, r.broker, src, link.WithLogger(r.logger))
		if err != nil {
			_ = src.Close()
			return 0, err
		}
		err = r.wait(ctx, pub)
		return int(count.Load()), err
	})
}

// Subscribe receives items published to topic and writes them to out as
// JSON documents, one per line. It stops after limit items, or runs until
// ctx is canceled if limit is 0.
func (r *Runtime) Subscribe(ctx context.Context, topic string, limit int, out io.Writer) (int, error) {
	return r.run(ctx, func(ctx context.Context) (int, error) {
		sub, err := link.NewChannel[record.Item](
			topic, r.broker, nil,
			link.WithPollTimeout(r.Config.Channel.PollTimeout),
			link.WithLogger(r.logger),
		)
		if err != nil {
			return 0, err
		}
		dest, err := link.Attach(link.NewDestination[record.Item](link.WithSuffix("+out"), link.WithLogger(r.logger)), sub)
		if err != nil {
			_ = sub.Close()
			return 0, err
		}

		codec := record.ItemCodec{}
		var count int
		for limit == 0 || count < limit {
			it, err := dest.Next(ctx)
			if err != nil {
				if cerrors.Is(err, link.ErrExhausted) {
					break
				}
				return count, cerrors.Join(err, r.stop(dest))
			}
			b, err := codec.Encode(it)
			if err != nil {
				return count, cerrors.Join(err, r.stop(dest))
			}
			if _, err := out.Write(append(b, '\n')); err != nil {
				return count, cerrors.Join(err, r.stop(dest))
			}
			count++
		}
		return count, r.stop(dest)
	})
}

// run serves metrics while fn is running, if enabled.
func (r *Runtime) run(ctx context.Context, fn func(context.Context) (int, error)) (int, error) {
	if r.Config.Metrics.Address == "" {
		return fn(ctx)
	}

	t, ctx := tomb.WithContext(ctx)
	if _, err := r.serveMetrics(ctx, t); err != nil {
		return 0, err
	}

	count, err := fn(ctx)
	t.Kill(nil)
	if waitErr := t.Wait(); waitErr != nil {
		err = cerrors.Join(err, waitErr)
	}
	return count, err
}

// wait blocks until l is done. If ctx is canceled first the link is closed.
func (r *Runtime) wait(ctx context.Context, l link.Link) error {
	err := l.Wait(ctx)
	if ctx.Err() == nil {
		return err
	}
	r.logger.Debug(ctx).Str(log.LinkNameField, l.Name()).Msg("stopping link")
	return cerrors.Join(ctx.Err(), r.stop(l))
}

// stop closes l and waits for the whole chain to shut down.
func (r *Runtime) stop(l link.Link) error {
	closeErr := l.Close()
	ctx, cancel := context.WithTimeout(context.Background(), exitTimeout)
	defer cancel()
	return cerrors.Join(closeErr, l.Wait(ctx))
}

func (r *Runtime) serveMetrics(ctx context.Context, t *tomb.Tomb) (net.Addr, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(configurePrometheus(), promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              r.Config.Metrics.Address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, cerrors.Errorf("failed to listen on address %q: %w", srv.Addr, err)
	}

	t.Go(func() error {
		err := srv.Serve(ln)
		if err != nil && !cerrors.Is(err, http.ErrServerClosed) {
			return cerrors.Errorf("metrics server listening on %q stopped with error: %w", ln.Addr(), err)
		}
		return nil
	})
	t.Go(func() error {
		<-t.Dying()
		// start server shutdown with a timeout, use fresh context
		ctx, cancel := context.WithTimeout(context.Background(), exitTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	})

	r.logger.Info(ctx).Str(log.ServerAddressField, ln.Addr().String()).Msg("metrics server started")
	return ln.Addr(), nil
}

// readItems decodes one item per non-empty line of in. count is incremented
// for every decoded item.
func readItems(in io.Reader, count *atomic.Int64) iter.Seq2[record.Item, error] {
	codec := record.ItemCodec{UseDecimal: true}
	return func(yield func(record.Item, error) bool) {
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
		line := 0
		for scanner.Scan() {
			line++
			if len(bytes.TrimSpace(scanner.Bytes())) == 0 {
				continue
			}
			it, err := codec.Decode(scanner.Bytes())
			if err != nil {
				yield(nil, cerrors.Errorf("line %d: %w", line, err))
				return
			}
			count.Add(1)
			if !yield(it, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(nil, cerrors.Errorf("could not read input: %w", err))
		}
	}
}
