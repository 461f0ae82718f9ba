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
package cchan

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestChan_Recv(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	c := make(chan string, 2)
	c <- "orders"
	c <- "users"
	close(c)

	for _, want := range []string{"orders", "users"} {
		got, ok, err := Chan[string](c).Recv(ctx)
		is.NoErr(err)
		is.True(ok)
		is.Equal(got, want)
	}

	// closed channel
	got, ok, err := Chan[string](c).Recv(ctx)
	is.NoErr(err)
	is.True(!ok)
	is.Equal(got, "")
}

func TestChan_Recv_Canceled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, ok, err := Chan[int](make(chan int)).Recv(ctx)
	is.Equal(err, context.Canceled)
	is.True(!ok)
	is.Equal(got, 0)
}

func TestChan_RecvTimeout(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	start := time.Now()
	_, ok, err := Chan[int](make(chan int)).RecvTimeout(ctx, 50*time.Millisecond)
	is.Equal(err, context.DeadlineExceeded)
	is.True(!ok)
	is.True(time.Since(start) >= 50*time.Millisecond)
}

func TestChan_Seq(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	c := make(chan int, 3)
	c <- 1
	c <- 2
	c <- 3
	close(c)

	is.Equal(slices.Collect(Chan[int](c).Seq(ctx)), []int{1, 2, 3})
}

func TestChan_Seq_Canceled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan int, 1)
	c <- 1
	var got []int
	for v := range Chan[int](c).Seq(ctx) {
		got = append(got, v)
		cancel() // the channel is never closed, the sequence stops on cancel
	}
	is.Equal(got, []int{1})
}
