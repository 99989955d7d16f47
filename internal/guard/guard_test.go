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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/specgen/internal/space"
)

// backendSpace is Backend x Threaded: backend X needs G_X, threaded needs G_T.
func backendSpace() *space.Space {
	return &space.Space{
		Name: "bt",
		Axes: []space.Axis{
			{Name: "backend", Fields: []string{"backend"}, Values: []space.Value{
				{Literals: []string{"X"}, Guard: "x"},
				{Literals: []string{"Y"}},
			}},
			{Name: "threaded", Fields: []string{"threaded"}, Values: []space.Value{
				{Literals: []string{"false"}},
				{Literals: []string{"true"}, Guard: "t"},
			}},
		},
	}
}

func registry() Registry {
	return Registry{
		"x": {ID: "x", Macro: "G_X", Kind: Feature},
		"t": {ID: "t", Macro: "G_T", Kind: Threading},
		"r": {ID: "r", Macro: "G_R", Defined: true, Kind: Restriction},
	}
}

func tuple(t *testing.T, s *space.Space, key ...int) space.Tuple {
	t.Helper()
	tuples, err := s.Enumerate()
	require.NoError(t, err)
	for _, tp := range tuples {
		if assert.ObjectsAreEqual(key, tp.Key()) {
			return tp
		}
	}
	t.Fatalf("no tuple with key %v", key)
	return space.Tuple{}
}

func TestDirectives(t *testing.T) {
	g := Guard{Macro: "CERES_NO_SUITESPARSE"}
	assert.Equal(t, "#ifndef CERES_NO_SUITESPARSE", g.Open())
	assert.Equal(t, "#endif  // CERES_NO_SUITESPARSE", g.Close())
	g.Defined = true
	assert.Equal(t, "#ifdef CERES_NO_SUITESPARSE", g.Open())
}

func TestResolveNesting(t *testing.T) {
	s := backendSpace()
	r := registry()

	set, err := Resolve(r, "", tuple(t, s, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "t"}, set.IDs())
	assert.Equal(t, []string{"#ifndef G_X", "#ifndef G_T"}, set.Opens())
	assert.Equal(t, []string{"#endif  // G_T", "#endif  // G_X"}, set.Closes())

	set, err = Resolve(r, "", tuple(t, s, 1, 0))
	require.NoError(t, err)
	assert.Zero(t, set.Len())
	assert.Equal(t, "body", set.Wrap("body"))
}

func TestResolveOrdersByKind(t *testing.T) {
	s := backendSpace()
	// Declare the threaded axis first; the threading guard still nests inside.
	s.Axes[0], s.Axes[1] = s.Axes[1], s.Axes[0]

	set, err := Resolve(registry(), "r", tuple(t, s, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{"r", "x", "t"}, set.IDs())
	assert.Equal(t, []string{"#ifdef G_R", "#ifndef G_X", "#ifndef G_T"}, set.Opens())
}

func TestResolveDynamicTupleIsUnguarded(t *testing.T) {
	s := &space.Space{
		Name:       "d",
		Dynamic:    "D",
		Exhaustive: true,
		Axes: []space.Axis{{Name: "n", Fields: []string{"n"}, Values: []space.Value{
			{Literals: []string{"1"}, Guard: "x"},
			{Literals: []string{"D"}, Guard: "x"},
		}}},
	}
	set, err := Resolve(registry(), "r", tuple(t, s, 1))
	require.NoError(t, err)
	assert.Zero(t, set.Len())

	set, err = Resolve(registry(), "r", tuple(t, s, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{"r", "x"}, set.IDs())
}

func TestSetPushIgnoresDuplicates(t *testing.T) {
	var s Set
	s.Push(Guard{ID: "a", Macro: "A"})
	s.Push(Guard{ID: "b", Macro: "B"})
	s.Push(Guard{ID: "a", Macro: "A"})
	assert.Equal(t, []string{"a", "b"}, s.IDs())
}

func TestWrap(t *testing.T) {
	var s Set
	s.Push(Guard{ID: "x", Macro: "G_X"})
	s.Push(Guard{ID: "t", Macro: "G_T"})
	want := "\n#ifndef G_X\n#ifndef G_T\n\nbody\n\n#endif  // G_T\n#endif  // G_X\n"
	assert.Equal(t, want, s.Wrap("\nbody\n"))
}

func TestValidate(t *testing.T) {
	s := backendSpace()
	require.NoError(t, registry().Validate(s, "r"))

	tests := []struct {
		name     string
		reg      Registry
		restrict string
	}{
		{"unknown restrict", registry(), "missing"},
		{"unknown value guard", Registry{"t": {ID: "t", Macro: "G_T"}}, ""},
		{"guard without macro", Registry{"x": {ID: "x"}, "t": {ID: "t", Macro: "G_T"}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reg.Validate(s, tt.restrict)
			require.Error(t, err)
			assert.True(t, space.IsConfigurationError(err))
		})
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"": Feature, "feature": Feature, "threading": Threading, "Restriction": Restriction} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
		if in != "" {
			assert.Equal(t, want.String(), got.String())
		}
	}
	_, err := ParseKind("platform")
	assert.Error(t, err)
}
