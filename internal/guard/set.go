// Copyright 2025 go-highway Authors
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

package guard

import (
	"slices"
	"strings"
)

// Set is a stack of guards. Opening directives come out in push order and
// closing directives in pop order, so any number of guards nests correctly.
// The zero value is an empty set.
type Set struct {
	stack []Guard
}

// Push adds g as the innermost guard. A guard whose ID is already on the
// stack is ignored.
func (s *Set) Push(g Guard) {
	if slices.ContainsFunc(s.stack, func(h Guard) bool { return h.ID == g.ID }) {
		return
	}
	s.stack = append(s.stack, g)
}

// Len returns the number of guards.
func (s Set) Len() int { return len(s.stack) }

// IDs returns the guard IDs from outermost to innermost.
func (s Set) IDs() []string {
	ids := make([]string, len(s.stack))
	for i, g := range s.stack {
		ids[i] = g.ID
	}
	return ids
}

// Opens returns the opening directives, outermost first.
func (s Set) Opens() []string {
	out := make([]string, len(s.stack))
	for i, g := range s.stack {
		out[i] = g.Open()
	}
	return out
}

// Closes returns the closing directives, innermost first.
func (s Set) Closes() []string {
	out := make([]string, 0, len(s.stack))
	for i := len(s.stack) - 1; i >= 0; i-- {
		out = append(out, s.stack[i].Close())
	}
	return out
}

// Wrap surrounds body with the directives. An empty set returns body
// unchanged; otherwise each directive block is preceded by a blank line:
//
//	"\n" + opens + body + "\n" + closes
//
// with one directive per line.
func (s Set) Wrap(body string) string {
	if len(s.stack) == 0 {
		return body
	}
	var b strings.Builder
	b.WriteString("\n")
	for _, o := range s.Opens() {
		b.WriteString(o)
		b.WriteString("\n")
	}
	b.WriteString(body)
	b.WriteString("\n")
	for _, c := range s.Closes() {
		b.WriteString(c)
		b.WriteString("\n")
	}
	return b.String()
}
