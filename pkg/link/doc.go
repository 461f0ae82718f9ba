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

/*
Package link defines links that can be chained into a linear, asynchronous
data pipeline. Every link owns a background task that produces items and an
unbounded FIFO queue that decouples the task from whoever consumes the link
by calling Next.

We distinguish 4 link types: Source, Destination, Transform and Channel. A
Source is always at the start of a chain and wraps a producer sequence. A
Destination is attached to an upstream link and passes the items it pulls
through, optionally applying a step function on each item. A Transform is
bound to an upstream link at construction and drives a sequence-to-sequence
function that can change the number and type of items. A Channel bridges a
chain over a broker topic: it publishes the items of its upstream, or when it
has no upstream, it subscribes to the topic and produces the received items.

A background task ends in one of three ways:
  Exhausted   The producer has no more items. A terminal marker is enqueued
              and the consumer receives ErrExhausted after the last item.
  Cancelled   The link was closed. A terminal marker is enqueued and any
              items still in the queue are discarded.
  Failed      The producer returned an error or panicked. The error is
              wrapped into a FailureError and enqueued as the last entry, the
              consumer receives it verbatim from Next.

Exactly one terminal entry is enqueued per task. The only exception is a
Channel in publisher mode, which enqueues nothing since nobody reads from it,
its failure is reported by Wait instead.

Closing a link closes its upstream first, so closing the last link of a chain
shuts down the whole chain. Wait can be used afterwards to make sure all tasks
in the chain have stopped.

The queue has no capacity limit. A slow consumer causes the queue to grow, the
producing task is never blocked.
*/
package link
