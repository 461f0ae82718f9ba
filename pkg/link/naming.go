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
	"unicode"
	"unicode/utf8"
)

// naming resolves the name of a link. Links hold a naming strategy instead of
// a fixed string so that names can be derived from the upstream link, which
// may only be known after the link is created.
type naming interface {
	resolve(up Link) string
}

// plainName is a name owned by the link.
type plainName string

func (n plainName) resolve(Link) string { return string(n) }

// suffixName derives the name from the name of the upstream link. The suffix
// is joined with a colon if it starts with a letter or digit, otherwise it is
// appended directly. A link without an upstream or with an unnamed upstream
// has no name.
type suffixName string

func (s suffixName) resolve(up Link) string {
	if up == nil {
		return ""
	}
	name := up.Name()
	if name == "" || s == "" {
		return name
	}
	r, _ := utf8.DecodeRuneInString(string(s))
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return name + ":" + string(s)
	}
	return name + string(s)
}
