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

// Package catalog declares specialization matrices: a configuration space,
// the guards its values reference, and the templates its units and dispatcher
// are rendered from. Matrices are loaded from HCL; the builtin ones are
// embedded in the binary.
package catalog

import (
	"maps"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/ajroetker/specgen/internal/guard"
	"github.com/ajroetker/specgen/internal/space"
	"github.com/ajroetker/specgen/internal/tmpl"
)

// VarPath is the template variable holding a unit's artifact path.
const VarPath = "path"

// Layout is the template set of one generated unit. The unit text is
// Header + Prologue + guards wrapped around Body.
type Layout struct {
	Prologue *tmpl.Template
	Body     *tmpl.Template
}

// DispatchLayout is the template set of the runtime selector.
type DispatchLayout struct {
	Path     string
	Prologue *tmpl.Template
	Branch   *tmpl.Template // rendered once per specialized tuple
	Fallback *tmpl.Template // rendered once with the dynamic tuple
	Epilogue *tmpl.Template
}

// Matrix is one catalog entry.
type Matrix struct {
	Space       *space.Space
	Description string
	Source      string // catalog file the matrix was declared in

	Guards   guard.Registry
	Restrict string // ID of the guard wrapping every specialized unit and the dispatch branches

	Header      *tmpl.Template // shared by every artifact of the matrix
	Unit        Layout
	DynamicUnit *Layout // optional layout for the dynamic tuple
	Dispatch    *DispatchLayout
}

// Name returns the space name.
func (m *Matrix) Name() string { return m.Space.Name }

// UnitLayout returns the layout used for t.
func (m *Matrix) UnitLayout(t space.Tuple) Layout {
	if m.DynamicUnit != nil && t.IsDynamic() {
		return *m.DynamicUnit
	}
	return m.Unit
}

// RestrictGuard returns the restriction guard, if declared.
func (m *Matrix) RestrictGuard() (guard.Guard, bool) {
	if m.Restrict == "" {
		return guard.Guard{}, false
	}
	g, ok := m.Guards[m.Restrict]
	return g, ok
}

// Validate checks the matrix before anything is enumerated: the space
// structure, guard references and the variables every template uses.
func (m *Matrix) Validate() error {
	if m.Space == nil {
		return space.Errorf("", "matrix has no space")
	}
	if err := m.Space.Validate(); err != nil {
		return err
	}
	if slices.Contains(m.Space.FieldNames(), VarPath) {
		return space.Errorf(m.Name(), "field name %q is reserved", VarPath)
	}
	if err := m.Guards.Validate(m.Space, m.Restrict); err != nil {
		return err
	}
	if m.Unit.Body == nil {
		return space.Errorf(m.Name(), "unit layout has no body")
	}
	if m.Dispatch != nil {
		if !m.Space.Exhaustive {
			return space.Errorf(m.Name(), "dispatch requires an exhaustive space")
		}
		if m.Dispatch.Path == "" {
			return space.Errorf(m.Name(), "dispatch has no path")
		}
		if m.Dispatch.Branch == nil {
			return space.Errorf(m.Name(), "dispatch has no branch template")
		}
	}

	allowed := append(m.Space.FieldNames(), space.VarName, space.VarCode, VarPath)
	templates := m.templates()
	for _, name := range slices.Sorted(maps.Keys(templates)) {
		if unknown := templates[name].Unknown(allowed); len(unknown) > 0 {
			return space.Errorf(m.Name(), "template %s references unknown variables %s (known: %s)",
				name, strings.Join(unknown, ", "), strings.Join(allowed, ", "))
		}
	}
	return nil
}

func (m *Matrix) templates() map[string]*tmpl.Template {
	out := map[string]*tmpl.Template{
		"header":        m.Header,
		"unit.prologue": m.Unit.Prologue,
		"unit.body":     m.Unit.Body,
	}
	if m.DynamicUnit != nil {
		out["dynamic_unit.prologue"] = m.DynamicUnit.Prologue
		out["dynamic_unit.body"] = m.DynamicUnit.Body
	}
	if m.Dispatch != nil {
		out["dispatch.prologue"] = m.Dispatch.Prologue
		out["dispatch.branch"] = m.Dispatch.Branch
		out["dispatch.fallback"] = m.Dispatch.Fallback
		out["dispatch.epilogue"] = m.Dispatch.Epilogue
	}
	return lo.PickBy(out, func(_ string, t *tmpl.Template) bool { return t != nil })
}

// CheckDisjoint reports a *space.ConfigurationError when two matrices could
// claim the same artifact: their file patterns overlap, or one matrix's
// dispatcher path matches another's file pattern or dispatcher path. Pruning
// relies on every artifact having exactly one owner.
func CheckDisjoint(ms []*Matrix) error {
	for i, a := range ms {
		for _, b := range ms[i+1:] {
			if a.Space.Overlaps(b.Space) {
				return space.Errorf(a.Name(), "file pattern %q overlaps %q of matrix %q",
					a.Space.FilePattern(), b.Space.FilePattern(), b.Name())
			}
			for _, pair := range [][2]*Matrix{{a, b}, {b, a}} {
				m, other := pair[0], pair[1]
				if m.Dispatch == nil {
					continue
				}
				if other.Space.MatchesArtifact(m.Dispatch.Path) ||
					other.Dispatch != nil && other.Dispatch.Path == m.Dispatch.Path {
					return space.Errorf(m.Name(), "dispatch path %q is also claimed by matrix %q",
						m.Dispatch.Path, other.Name())
				}
			}
		}
	}
	return nil
}

// Select returns the matrices named in names, in catalog order. An empty
// names selects every matrix.
func Select(all []*Matrix, names []string) ([]*Matrix, error) {
	if len(names) == 0 {
		return all, nil
	}
	byName := lo.KeyBy(all, (*Matrix).Name)
	for _, n := range names {
		if _, ok := byName[n]; !ok {
			return nil, space.Errorf("", "unknown matrix %q (available: %s)", n,
				strings.Join(lo.Map(all, func(m *Matrix, _ int) string { return m.Name() }), ", "))
		}
	}
	return lo.Filter(all, func(m *Matrix, _ int) bool { return lo.Contains(names, m.Name()) }), nil
}
