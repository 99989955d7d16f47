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

// Package tmpl holds fixed text templates with ${name} placeholders. A
// Template is an HCL template expression; rendering it is a pure function of
// the variables passed in.
package tmpl

import (
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Vars maps placeholder names to their substituted text.
type Vars map[string]string

// Template is an immutable template value. A nil *Template renders to "".
type Template struct {
	expr hcl.Expression
}

// parse parses src as an HCL template. filename is used in diagnostics only.
func parse(filename, src string) (*Template, error) {
	expr, diags := hclsyntax.ParseTemplate([]byte(src), filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse template %s: %w", filename, diags)
	}
	return &Template{expr: expr}, nil
}

// FromExpression wraps an already parsed expression, e.g. an attribute decoded
// by gohcl as hcl.Expression.
func FromExpression(expr hcl.Expression) *Template {
	if expr == nil {
		return nil
	}
	return &Template{expr: expr}
}

// Variables returns the sorted, de-duplicated names the template references.
func (t *Template) Variables() []string {
	if t == nil {
		return nil
	}
	var names []string
	for _, tr := range t.expr.Variables() {
		name := tr.RootName()
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Unknown returns the referenced names that allowed does not contain.
func (t *Template) Unknown(allowed []string) []string {
	var out []string
	for _, name := range t.Variables() {
		if !slices.Contains(allowed, name) {
			out = append(out, name)
		}
	}
	return out
}

// Render substitutes vars into the template. A null template, such as an
// omitted optional attribute, renders to "".
func (t *Template) Render(vars Vars) (string, error) {
	if t == nil {
		return "", nil
	}
	ctx := &hcl.EvalContext{Variables: make(map[string]cty.Value, len(vars))}
	for k, v := range vars {
		ctx.Variables[k] = cty.StringVal(v)
	}
	val, diags := t.expr.Value(ctx)
	if diags.HasErrors() {
		return "", fmt.Errorf("render template: %w", diags)
	}
	if val.IsNull() {
		return "", nil
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("render template: result is %s, not text", val.Type().FriendlyName())
	}
	if !str.IsKnown() {
		return "", fmt.Errorf("render template: result is unknown")
	}
	return str.AsString(), nil
}
