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

package dispatch

import (
	"fmt"
	"strings"

	"github.com/ajroetker/specgen/internal/catalog"
	"github.com/ajroetker/specgen/internal/space"
	"github.com/ajroetker/specgen/internal/tmpl"
	"github.com/ajroetker/specgen/internal/unit"
)

// Render emits the dispatcher source of m from t:
//
//	header + prologue
//	restriction open
//	one branch per specialized entry
//	restriction close
//	fallback
//	epilogue
//
// Branches and the fallback see the variables of their own unit. The header,
// prologue and epilogue see the fallback's variables with path set to the
// dispatcher path.
func Render(m *catalog.Matrix, t *Table) ([]byte, error) {
	d := m.Dispatch
	if d == nil {
		return nil, space.Errorf(m.Name(), "matrix declares no dispatch")
	}
	fb := t.Fallback()
	outer := unit.Vars(m, fb.Tuple)
	outer[catalog.VarPath] = d.Path

	var b strings.Builder
	render := func(name string, tp *tmpl.Template, vars tmpl.Vars) error {
		s, err := tp.Render(vars)
		if err != nil {
			return fmt.Errorf("dispatch %s: %w", name, err)
		}
		b.WriteString(s)
		return nil
	}

	if err := render("header", m.Header, outer); err != nil {
		return nil, err
	}
	if err := render("prologue", d.Prologue, outer); err != nil {
		return nil, err
	}
	restrict, hasRestrict := m.RestrictGuard()
	if hasRestrict {
		b.WriteString(restrict.Open() + "\n")
	}
	for _, e := range t.Branches() {
		if err := render("branch "+e.Tuple.String(), d.Branch, unit.Vars(m, e.Tuple)); err != nil {
			return nil, err
		}
	}
	if hasRestrict {
		b.WriteString(restrict.Close() + "\n")
	}
	if err := render("fallback", d.Fallback, unit.Vars(m, fb.Tuple)); err != nil {
		return nil, err
	}
	if err := render("epilogue", d.Epilogue, outer); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}
