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

// Package unit renders the translation unit of each tuple of a matrix.
package unit

import (
	"fmt"
	"strings"

	"github.com/ajroetker/specgen/internal/catalog"
	"github.com/ajroetker/specgen/internal/guard"
	"github.com/ajroetker/specgen/internal/space"
	"github.com/ajroetker/specgen/internal/tmpl"
)

// Unit is the rendered artifact of one tuple.
type Unit struct {
	Tuple  space.Tuple
	Path   string // relative to the output root
	Guards guard.Set
	Text   []byte
}

// Vars returns the template variables of t within m: the tuple variables
// plus its artifact path.
func Vars(m *catalog.Matrix, t space.Tuple) tmpl.Vars {
	vars := tmpl.Vars(t.Vars())
	vars[catalog.VarPath] = m.Space.Filename(t)
	return vars
}

// Build renders the unit of t. The text is
//
//	header + prologue + guards wrapped around body
//
// and depends on nothing but m and t.
func Build(m *catalog.Matrix, t space.Tuple) (Unit, error) {
	guards, err := guard.Resolve(m.Guards, m.Restrict, t)
	if err != nil {
		return Unit{}, err
	}
	vars := Vars(m, t)
	layout := m.UnitLayout(t)

	var b strings.Builder
	for _, part := range []struct {
		name string
		t    *tmpl.Template
	}{
		{"header", m.Header},
		{"prologue", layout.Prologue},
	} {
		s, err := part.t.Render(vars)
		if err != nil {
			return Unit{}, fmt.Errorf("%s %s: %w", t, part.name, err)
		}
		b.WriteString(s)
	}
	body, err := layout.Body.Render(vars)
	if err != nil {
		return Unit{}, fmt.Errorf("%s body: %w", t, err)
	}
	b.WriteString(guards.Wrap(body))

	return Unit{
		Tuple:  t,
		Path:   vars[catalog.VarPath],
		Guards: guards,
		Text:   []byte(b.String()),
	}, nil
}

// BuildAll validates m, enumerates its space and renders every unit in tuple
// order.
func BuildAll(m *catalog.Matrix) ([]Unit, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	tuples, err := m.Space.Enumerate()
	if err != nil {
		return nil, err
	}
	units := make([]Unit, 0, len(tuples))
	for _, t := range tuples {
		u, err := Build(m, t)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}
