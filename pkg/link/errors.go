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
	"fmt"

	"github.com/conduitio/conduit-link/pkg/foundation/cerrors"
)

var (
	// ErrExhausted is returned by Next when the link has no more items.
	ErrExhausted = cerrors.New("link exhausted")
	// ErrConfig is returned when a link is wired up incorrectly, e.g. when
	// attaching an upstream to a link that already has one.
	ErrConfig = cerrors.New("invalid link configuration")
	// ErrTypeViolation is returned when a supplied producer or the result of a
	// transform function is not a sequence.
	ErrTypeViolation = cerrors.New("not a sequence")
)

// FailureError is the terminal entry of a link whose producer failed. It is
// created by the first link in the chain that observed the error, links
// downstream relay it unchanged.
type FailureError struct {
	// Link is the name of the link whose task failed.
	Link string
	Err  error
}

func (e *FailureError) Error() string {
	if e.Link == "" {
		return fmt.Sprintf("link failed: %v", e.Err)
	}
	return fmt.Sprintf("link %q failed: %v", e.Link, e.Err)
}

func (e *FailureError) Unwrap() error {
	return e.Err
}

// PanicError is the error produced when a producer, transform or step
// function panics.
type PanicError struct {
	// Value is the value passed to panic.
	Value any
	// Stack contains the stack trace of the goroutine at the point of panic.
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic recovered: %v", e.Value)
}
