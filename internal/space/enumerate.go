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

package space

import "slices"

// resolve binds every value of every axis to its fields and derives its name
// and code.
func (s *Space) resolve() [][]Choice {
	sep := s.separator()
	out := make([][]Choice, len(s.Axes))
	for ai, a := range s.Axes {
		out[ai] = make([]Choice, len(a.Values))
		for vi, v := range a.Values {
			fields := make([]Field, len(a.Fields))
			for fi, name := range a.Fields {
				lit := v.Literals[fi]
				fields[fi] = Field{Name: name, Literal: lit, Dynamic: s.Dynamic != "" && lit == s.Dynamic}
			}
			out[ai][vi] = Choice{
				Axis:   ai,
				Index:  vi,
				Fields: fields,
				Name:   ValueName(v, fields, a, sep),
				Code:   ValueCode(v, fields, a, sep, s.dynamicCode()),
				Guard:  v.Guard,
			}
		}
	}
	return out
}

// Enumerate returns the full cross product of the axes, ordered by Compare.
// Nothing is filtered: every combination of declared values is valid by
// construction. It fails with a *ConfigurationError when the space is
// malformed, when two tuples would share a filename, or when an exhaustive
// space does not contain exactly one dynamic tuple.
func (s *Space) Enumerate() ([]Tuple, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	choices := s.resolve()
	sep := s.separator()

	tuples := make([]Tuple, 0, s.Size())
	idx := make([]int, len(choices))
	for {
		t := Tuple{choices: make([]Choice, len(choices)), sep: sep}
		for ai, vi := range idx {
			t.choices[ai] = choices[ai][vi]
		}
		tuples = append(tuples, t)

		// Advance the odometer, last axis fastest.
		ai := len(idx) - 1
		for ; ai >= 0; ai-- {
			idx[ai]++
			if idx[ai] < len(choices[ai]) {
				break
			}
			idx[ai] = 0
		}
		if ai < 0 {
			break
		}
	}
	slices.SortStableFunc(tuples, Compare)

	paths := make(map[string]Tuple, len(tuples))
	dynamic := 0
	for _, t := range tuples {
		p := s.Filename(t)
		if prev, ok := paths[p]; ok {
			return nil, Errorf(s.Name, "tuples %s and %s both map to %q", prev, t, p)
		}
		paths[p] = t
		if t.IsDynamic() {
			dynamic++
		}
	}
	if s.Exhaustive && dynamic != 1 {
		return nil, Errorf(s.Name, "exhaustive space has %d all-dynamic tuples, want exactly 1", dynamic)
	}
	return tuples, nil
}
