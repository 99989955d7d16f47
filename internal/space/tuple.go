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

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Template variables every tuple provides in addition to its field names.
const (
	VarName = "name"
	VarCode = "code"
)

// Field is one named, substituted slot of a tuple.
type Field struct {
	Name    string // e.g. "row_block_size"
	Literal string // e.g. "2" or "Eigen::Dynamic"
	Dynamic bool
}

// Choice is an axis value resolved against its axis: fields bound, name and
// code derived.
type Choice struct {
	Axis   int // index into Space.Axes
	Index  int // index into Axis.Values
	Fields []Field
	Name   string
	Code   string
	Guard  string
}

// Dynamic reports whether every field of the choice is dynamic.
func (c Choice) Dynamic() bool {
	return len(c.Fields) > 0 && lo.EveryBy(c.Fields, func(f Field) bool { return f.Dynamic })
}

// Tuple is one point of the cross product. It is immutable: accessors return
// copies.
type Tuple struct {
	choices []Choice
	sep     string
}

// Choices returns the per-axis choices in axis order.
func (t Tuple) Choices() []Choice {
	out := make([]Choice, len(t.choices))
	for i, c := range t.choices {
		c.Fields = slices.Clone(c.Fields)
		out[i] = c
	}
	return out
}

// Key returns the per-axis value indices. Tuples sort by Key.
func (t Tuple) Key() []int {
	return lo.Map(t.choices, func(c Choice, _ int) int { return c.Index })
}

// Fields returns every field of the tuple in axis order.
func (t Tuple) Fields() []Field {
	return lo.FlatMap(t.choices, func(c Choice, _ int) []Field { return c.Fields })
}

// Literals returns the field literals in axis order.
func (t Tuple) Literals() []string {
	return lo.Map(t.Fields(), func(f Field, _ int) string { return f.Literal })
}

// Name returns the canonical name, e.g. "DenseSchur_NoSparse_Identity_UserOrdering_Threads".
func (t Tuple) Name() string {
	return strings.Join(lo.Map(t.choices, func(c Choice, _ int) string { return c.Name }), t.sep)
}

// Codes returns the per-axis filename codes.
func (t Tuple) Codes() []string {
	return lo.Map(t.choices, func(c Choice, _ int) string { return c.Code })
}

// Code returns the codes joined by the space separator.
func (t Tuple) Code() string {
	return strings.Join(t.Codes(), t.sep)
}

// IsDynamic reports whether every field of the tuple carries the dynamic
// sentinel.
func (t Tuple) IsDynamic() bool {
	return len(t.choices) > 0 && lo.EveryBy(t.choices, Choice.Dynamic)
}

// Vars returns the template variables of the tuple: every field name bound to
// its literal, plus VarName and VarCode.
func (t Tuple) Vars() map[string]string {
	vars := make(map[string]string)
	for _, f := range t.Fields() {
		vars[f.Name] = f.Literal
	}
	vars[VarName] = t.Name()
	vars[VarCode] = t.Code()
	return vars
}

// String formats the tuple as its literals, e.g. "(2, 2, Eigen::Dynamic)".
func (t Tuple) String() string {
	return "(" + strings.Join(t.Literals(), ", ") + ")"
}

// Compare orders tuples lexicographically by Key: axis declaration order
// first, then each axis's value order.
func Compare(a, b Tuple) int {
	return slices.Compare(a.Key(), b.Key())
}
