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
// Package cchan contains context aware helpers for receiving from channels.
package cchan

import (
	"context"
	"iter"
	"time"
)

// Chan is a receive-only channel with utility methods.
type Chan[T any] <-chan T

// Recv will try to receive a value from the channel, same as <-c. If the
// context is canceled before a value is received, it will return the context
// error.
func (c Chan[T]) Recv(ctx context.Context) (T, bool, error) {
	select {
	case val, ok := <-c:
		return val, ok, nil
	case <-ctx.Done():
		var empty T
		return empty, false, ctx.Err()
	}
}

// RecvTimeout will try to receive a value from the channel, same as <-c. If
// the timeout is reached first it returns context.DeadlineExceeded, if ctx is
// canceled first it returns the error of ctx.
func (c Chan[T]) RecvTimeout(ctx context.Context, timeout time.Duration) (T, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.Recv(ctx)
}

// Seq returns a sequence of the values received from the channel. The
// sequence stops when the channel is closed or ctx is canceled.
func (c Chan[T]) Seq(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			val, ok, err := c.Recv(ctx)
			if err != nil || !ok || !yield(val) {
				return
			}
		}
	}
}
