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

// Package guard derives the conditional-compilation guards of a tuple and
// renders them as properly nested preprocessor directive pairs.
package guard

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/ajroetker/specgen/internal/space"
)

// Kind orders guards from outermost to innermost.
type Kind int

const (
	// Restriction gates every specialized unit of a space, e.g.
	// CERES_RESTRICT_SCHUR_SPECIALIZATION.
	Restriction Kind = iota
	// Feature gates an optional backend, e.g. CERES_NO_SUITESPARSE.
	Feature
	// Threading gates threaded configurations, e.g. CERES_NO_THREADS.
	Threading
)

// ParseKind maps a catalog keyword to a Kind. The empty string is Feature.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "restriction":
		return Restriction, nil
	case "", "feature":
		return Feature, nil
	case "threading":
		return Threading, nil
	}
	return 0, fmt.Errorf("unknown guard kind %q (want restriction, feature or threading)", s)
}

func (k Kind) String() string {
	switch k {
	case Restriction:
		return "restriction"
	case Threading:
		return "threading"
	default:
		return "feature"
	}
}

// Guard is one #ifdef/#ifndef ... #endif pair.
type Guard struct {
	ID      string
	Macro   string
	Defined bool // true opens with #ifdef, false with #ifndef
	Kind    Kind
}

// Open returns the opening directive.
func (g Guard) Open() string {
	if g.Defined {
		return "#ifdef " + g.Macro
	}
	return "#ifndef " + g.Macro
}

// Close returns the closing directive.
func (g Guard) Close() string {
	return "#endif  // " + g.Macro
}

// Registry holds the guards a space may reference, keyed by ID.
type Registry map[string]Guard

// Validate checks that every guard is well formed and that every guard ID
// referenced by s (and restrict, when non-empty) is registered.
func (r Registry) Validate(s *space.Space, restrict string) error {
	for _, id := range slices.Sorted(maps.Keys(r)) {
		if r[id].Macro == "" {
			return space.Errorf(s.Name, "guard %q has no macro", id)
		}
	}
	if restrict != "" {
		if _, ok := r[restrict]; !ok {
			return space.Errorf(s.Name, "restrict references unknown guard %q", restrict)
		}
	}
	for _, a := range s.Axes {
		for i, v := range a.Values {
			if v.Guard == "" {
				continue
			}
			if _, ok := r[v.Guard]; !ok {
				return space.Errorf(s.Name, "axis %q value %d references unknown guard %q", a.Name, i, v.Guard)
			}
		}
	}
	return nil
}

// Resolve returns the guard set of t. The restriction guard (when restrict is
// non-empty) and the guard of each choice are ordered by Kind, then by axis
// order. The dynamic tuple always resolves to an empty set.
func Resolve(r Registry, restrict string, t space.Tuple) (Set, error) {
	var s Set
	if t.IsDynamic() {
		return s, nil
	}

	type ranked struct {
		g    Guard
		axis int
	}
	var found []ranked
	if restrict != "" {
		g, ok := r[restrict]
		if !ok {
			return s, space.Errorf("", "unknown restriction guard %q", restrict)
		}
		found = append(found, ranked{g: g, axis: -1})
	}
	for _, c := range t.Choices() {
		if c.Guard == "" {
			continue
		}
		g, ok := r[c.Guard]
		if !ok {
			return s, space.Errorf("", "tuple %s references unknown guard %q", t, c.Guard)
		}
		found = append(found, ranked{g: g, axis: c.Axis})
	}

	slices.SortStableFunc(found, func(a, b ranked) int {
		return cmp.Or(cmp.Compare(a.g.Kind, b.g.Kind), cmp.Compare(a.axis, b.axis))
	})
	for _, f := range found {
		s.Push(f.g)
	}
	return s, nil
}
