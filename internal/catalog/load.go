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

package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/ajroetker/specgen/internal/guard"
	"github.com/ajroetker/specgen/internal/space"
	"github.com/ajroetker/specgen/internal/tmpl"
)

//go:embed builtin/*.hcl
var builtinFS embed.FS

// dynamicMarker is what the catalog identifier `dynamic` evaluates to. It is
// replaced by the matrix's dynamic literal while building the space.
const dynamicMarker = "\x00dynamic"

func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"dynamic": cty.StringVal(dynamicMarker)},
	}
}

// Builtin returns the matrices embedded in the binary, ordered by file name
// and then by declaration order.
func Builtin() ([]*Matrix, error) {
	names, err := fs.Glob(builtinFS, "builtin/*.hcl")
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	var all []*Matrix
	for _, name := range names {
		src, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read builtin catalog: %w", err)
		}
		ms, err := Parse(src, path.Base(name))
		if err != nil {
			return nil, err
		}
		all = append(all, ms...)
	}
	if err := checkUniqueNames(all); err != nil {
		return nil, err
	}
	return all, CheckDisjoint(all)
}

// LoadFiles parses the catalog files at paths in order.
func LoadFiles(paths ...string) ([]*Matrix, error) {
	var all []*Matrix
	for _, p := range paths {
		src, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		ms, err := Parse(src, p)
		if err != nil {
			return nil, err
		}
		all = append(all, ms...)
	}
	if err := checkUniqueNames(all); err != nil {
		return nil, err
	}
	return all, CheckDisjoint(all)
}

func checkUniqueNames(ms []*Matrix) error {
	seen := make(map[string]string)
	for _, m := range ms {
		if prev, ok := seen[m.Name()]; ok {
			return space.Errorf(m.Name(), "declared in both %s and %s", prev, m.Source)
		}
		seen[m.Name()] = m.Source
	}
	return nil
}

// Parse decodes the matrices declared in src. Problems are reported as
// *space.ConfigurationError.
func Parse(src []byte, filename string) ([]*Matrix, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, space.Errorf("", "%s", diags.Error())
	}

	var schema fileSchema
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &schema); diags.HasErrors() {
		return nil, space.Errorf("", "%s", diags.Error())
	}

	matrices := make([]*Matrix, 0, len(schema.Matrices))
	for _, mb := range schema.Matrices {
		m, err := mb.build(filename)
		if err != nil {
			return nil, err
		}
		matrices = append(matrices, m)
	}
	return matrices, checkUniqueNames(matrices)
}

func (b *matrixBlock) build(source string) (*Matrix, error) {
	s := &space.Space{
		Name:        b.Name,
		Dynamic:     b.Dynamic,
		DynamicCode: b.DynamicCode,
		Exhaustive:  b.Exhaustive,
		FilePrefix:  b.FilePrefix,
		FileSuffix:  b.FileSuffix,
		Separator:   b.Separator,
	}
	for _, ab := range b.Axes {
		a, err := ab.build(b)
		if err != nil {
			return nil, err
		}
		s.Axes = append(s.Axes, a)
	}

	guards := make(guard.Registry, len(b.Guards))
	for _, gb := range b.Guards {
		if _, ok := guards[gb.ID]; ok {
			return nil, space.Errorf(b.Name, "guard %q declared twice", gb.ID)
		}
		kind, err := guard.ParseKind(gb.Kind)
		if err != nil {
			return nil, space.Errorf(b.Name, "guard %q: %v", gb.ID, err)
		}
		var defined bool
		switch gb.When {
		case "", "undefined":
		case "defined":
			defined = true
		default:
			return nil, space.Errorf(b.Name, "guard %q: unknown when %q (want defined or undefined)", gb.ID, gb.When)
		}
		guards[gb.ID] = guard.Guard{ID: gb.ID, Macro: gb.Macro, Defined: defined, Kind: kind}
	}

	m := &Matrix{
		Space:       s,
		Description: b.Description,
		Source:      source,
		Guards:      guards,
		Restrict:    b.Restrict,
		Header:      tmpl.FromExpression(b.Header),
		Unit:        b.Unit.layout(),
	}
	if b.DynamicUnit != nil {
		l := b.DynamicUnit.layout()
		m.DynamicUnit = &l
	}
	if d := b.Dispatch; d != nil {
		m.Dispatch = &DispatchLayout{
			Path:     d.Path,
			Prologue: tmpl.FromExpression(d.Prologue),
			Branch:   tmpl.FromExpression(d.Branch),
			Fallback: tmpl.FromExpression(d.Fallback),
			Epilogue: tmpl.FromExpression(d.Epilogue),
		}
	}
	return m, nil
}

func (b layoutBlock) layout() Layout {
	return Layout{Prologue: tmpl.FromExpression(b.Prologue), Body: tmpl.FromExpression(b.Body)}
}

func (b *axisBlock) build(mb *matrixBlock) (space.Axis, error) {
	naming, err := space.ParseNaming(b.Naming)
	if err != nil {
		return space.Axis{}, space.Errorf(mb.Name, "axis %q: %v", b.Name, err)
	}
	a := space.Axis{Name: b.Name, Fields: b.Fields, Naming: naming, TrimPrefix: b.TrimPrefix}

	hasShorthand := b.Values != nil && !b.Values.IsNull()
	if hasShorthand && len(b.Value) > 0 {
		return a, space.Errorf(mb.Name, "axis %q mixes `values` with `value` blocks", b.Name)
	}
	if hasShorthand {
		v := *b.Values
		if !v.CanIterateElements() {
			return a, space.Errorf(mb.Name, "axis %q: values must be a list, got %s", b.Name, v.Type().FriendlyName())
		}
		for it := v.ElementIterator(); it.Next(); {
			_, el := it.Element()
			lits, err := literals(el, mb.Dynamic)
			if err != nil {
				return a, space.Errorf(mb.Name, "axis %q: %v", b.Name, err)
			}
			a.Values = append(a.Values, space.Value{Literals: lits})
		}
	}
	for _, vb := range b.Value {
		lits, err := literals(vb.Literal, mb.Dynamic)
		if err != nil {
			return a, space.Errorf(mb.Name, "axis %q: %v", b.Name, err)
		}
		a.Values = append(a.Values, space.Value{Literals: lits, Name: vb.Name, Code: vb.Code, Guard: vb.Guard})
	}
	return a, nil
}

// literals flattens a catalog value, a scalar or a list of scalars, into
// field literals. The `dynamic` identifier becomes dynamicLit.
func literals(v cty.Value, dynamicLit string) ([]string, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, fmt.Errorf("value must not be null")
	}
	ty := v.Type()
	if !(ty.IsListType() || ty.IsTupleType()) {
		s, err := scalar(v, dynamicLit)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
	var out []string
	for it := v.ElementIterator(); it.Next(); {
		_, el := it.Element()
		s, err := scalar(el, dynamicLit)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func scalar(v cty.Value, dynamicLit string) (string, error) {
	if v.IsNull() || !v.IsKnown() {
		return "", fmt.Errorf("value must not be null")
	}
	sv, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", fmt.Errorf("want a string or number, got %s", v.Type().FriendlyName())
	}
	s := sv.AsString()
	if s == dynamicMarker {
		if dynamicLit == "" {
			return "", fmt.Errorf("`dynamic` used but the matrix declares no dynamic literal")
		}
		return dynamicLit, nil
	}
	if strings.ContainsRune(s, '\x00') {
		return "", fmt.Errorf("value %q contains a NUL byte", s)
	}
	return s, nil
}
