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
	"github.com/conduitio/conduit-link/pkg/foundation/cerrors"
)

type attacher[D any] interface {
	attach(up Stream[D]) error
}

// Attach sets up as the upstream of down and returns down, so chains can be
// built left to right:
//
//	d1, err := link.Attach(link.NewDestination[int](), src)
//	d2, err := link.Attach(link.NewStepDestination(square), d1)
//
// A configuration error is returned if up is nil, if down already has an
// upstream, if down can't be attached (e.g. a Source) or if attaching would
// create a cycle.
func Attach[D any, L Stream[D]](down L, up Stream[D]) (L, error) {
	if up == nil {
		return down, cerrors.Errorf("can't attach to nil upstream: %w", ErrConfig)
	}
	a, ok := any(down).(attacher[D])
	if !ok {
		return down, cerrors.Errorf("%T can't be attached to an upstream: %w", down, ErrConfig)
	}
	if err := checkAcyclic(down, up); err != nil {
		return down, err
	}
	if err := a.attach(up); err != nil {
		return down, err
	}
	return down, nil
}

// checkAcyclic returns an error if down is up or one of its upstream links.
func checkAcyclic(down Link, up Link) error {
	for l := up; l != nil; l = l.Upstream() {
		if l == down {
			return cerrors.Errorf("attaching %q would create a cycle: %w", up.Name(), ErrConfig)
		}
	}
	return nil
}
