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

// Package space describes the discrete configuration space a generator
// expands: named axes with ordered value sets, the cross product of those
// axes, and the naming rules for each point of the product.
package space

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// DefaultDynamicCode is the filename code used for a dynamic field when the
// space does not declare one.
const DefaultDynamicCode = "d"

// DefaultSeparator joins name components and filename codes.
const DefaultSeparator = "_"

// Naming selects how an axis turns a field literal into a name component.
type Naming int

const (
	// NamingCamel converts SUITE_SPARSE into SuiteSparse.
	NamingCamel Naming = iota
	// NamingVerbatim uses the literal as written (after TrimPrefix).
	NamingVerbatim
)

// ParseNaming maps a catalog naming keyword to a Naming.
func ParseNaming(s string) (Naming, error) {
	switch strings.ToLower(s) {
	case "", "camel":
		return NamingCamel, nil
	case "verbatim":
		return NamingVerbatim, nil
	}
	return 0, fmt.Errorf("unknown naming %q (want camel or verbatim)", s)
}

func (n Naming) String() string {
	if n == NamingVerbatim {
		return "verbatim"
	}
	return "camel"
}

// Value is one legal point of an Axis. It carries one literal per axis field.
type Value struct {
	Literals []string
	Name     string // explicit name component, derived when empty
	Code     string // explicit filename code, derived when empty
	Guard    string // optional guard ID
}

// Axis is a named dimension with an ordered, finite set of legal values.
// Several fields may be bound by one axis, e.g. a block-size triple.
type Axis struct {
	Name       string
	Fields     []string
	Values     []Value
	Naming     Naming
	TrimPrefix string
}

// Space is the declarative description of the axes being combined.
type Space struct {
	Name        string
	Axes        []Axis
	Dynamic     string // sentinel literal for "known only at runtime", e.g. Eigen::Dynamic
	DynamicCode string // filename code for Dynamic, defaults to DefaultDynamicCode
	Exhaustive  bool   // requires exactly one all-dynamic tuple
	FilePrefix  string
	FileSuffix  string
	Separator   string // defaults to DefaultSeparator
}

func (s *Space) separator() string {
	if s.Separator == "" {
		return DefaultSeparator
	}
	return s.Separator
}

func (s *Space) dynamicCode() string {
	if s.DynamicCode == "" {
		return DefaultDynamicCode
	}
	return s.DynamicCode
}

// Size returns the number of tuples in the cross product.
func (s *Space) Size() int {
	if len(s.Axes) == 0 {
		return 0
	}
	n := 1
	for _, a := range s.Axes {
		n *= len(a.Values)
	}
	return n
}

// FieldNames returns every field name in axis order.
func (s *Space) FieldNames() []string {
	return lo.FlatMap(s.Axes, func(a Axis, _ int) []string { return a.Fields })
}

// Validate checks the structural rules that do not need the cross product.
// Enumerate performs the remaining checks.
func (s *Space) Validate() error {
	if s.Name == "" {
		return Errorf("", "space has no name")
	}
	if len(s.Axes) == 0 {
		return Errorf(s.Name, "no axes declared")
	}
	seenFields := make(map[string]string)
	for _, a := range s.Axes {
		if len(a.Fields) == 0 {
			return Errorf(s.Name, "axis %q has no fields", a.Name)
		}
		if len(a.Values) == 0 {
			return Errorf(s.Name, "axis %q has no values", a.Name)
		}
		for _, f := range a.Fields {
			if f == VarName || f == VarCode {
				return Errorf(s.Name, "axis %q: field name %q is reserved", a.Name, f)
			}
			if owner, ok := seenFields[f]; ok {
				return Errorf(s.Name, "field %q declared by both axis %q and axis %q", f, owner, a.Name)
			}
			seenFields[f] = a.Name
		}
		seenValues := make(map[string]bool)
		for i, v := range a.Values {
			if len(v.Literals) != len(a.Fields) {
				return Errorf(s.Name, "axis %q value %d has %d literals, want %d",
					a.Name, i, len(v.Literals), len(a.Fields))
			}
			key := strings.Join(v.Literals, "\x00")
			if seenValues[key] {
				return Errorf(s.Name, "axis %q declares value (%s) twice",
					a.Name, strings.Join(v.Literals, ", "))
			}
			seenValues[key] = true
		}
	}
	if s.Exhaustive && s.Dynamic == "" {
		return Errorf(s.Name, "exhaustive space declares no dynamic literal")
	}
	return nil
}
