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
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// fileSchema is the top level of a catalog file.
type fileSchema struct {
	Matrices []*matrixBlock `hcl:"matrix,block"`
}

// matrixBlock is a `matrix "<name>" { ... }` block.
type matrixBlock struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	Dynamic     string         `hcl:"dynamic,optional"`
	DynamicCode string         `hcl:"dynamic_code,optional"`
	Exhaustive  bool           `hcl:"exhaustive,optional"`
	FilePrefix  string         `hcl:"file_prefix,optional"`
	FileSuffix  string         `hcl:"file_suffix,optional"`
	Separator   string         `hcl:"separator,optional"`
	Restrict    string         `hcl:"restrict,optional"`
	Header      hcl.Expression `hcl:"header,optional"`

	Guards      []*guardBlock  `hcl:"guard,block"`
	Axes        []*axisBlock   `hcl:"axis,block"`
	Unit        layoutBlock    `hcl:"unit,block"`
	DynamicUnit *layoutBlock   `hcl:"dynamic_unit,block"`
	Dispatch    *dispatchBlock `hcl:"dispatch,block"`
}

// guardBlock is a `guard "<id>" { ... }` block.
type guardBlock struct {
	ID    string `hcl:"id,label"`
	Macro string `hcl:"macro"`
	When  string `hcl:"when,optional"` // "undefined" (#ifndef, default) or "defined" (#ifdef)
	Kind  string `hcl:"kind,optional"`
}

// axisBlock is an `axis "<name>" { ... }` block. Values are given either with
// the `values` shorthand or with `value` blocks, not both.
type axisBlock struct {
	Name       string        `hcl:"name,label"`
	Fields     []string      `hcl:"fields"`
	Naming     string        `hcl:"naming,optional"`
	TrimPrefix string        `hcl:"trim_prefix,optional"`
	Values     *cty.Value    `hcl:"values,optional"`
	Value      []*valueBlock `hcl:"value,block"`
}

// valueBlock is the long form of one axis value.
type valueBlock struct {
	Literal cty.Value `hcl:"literal"`
	Name    string    `hcl:"name,optional"`
	Code    string    `hcl:"code,optional"`
	Guard   string    `hcl:"guard,optional"`
}

// layoutBlock is a `unit { ... }` or `dynamic_unit { ... }` block.
type layoutBlock struct {
	Prologue hcl.Expression `hcl:"prologue,optional"`
	Body     hcl.Expression `hcl:"body"`
}

// dispatchBlock is the `dispatch { ... }` block.
type dispatchBlock struct {
	Path     string         `hcl:"path"`
	Prologue hcl.Expression `hcl:"prologue,optional"`
	Branch   hcl.Expression `hcl:"branch"`
	Fallback hcl.Expression `hcl:"fallback"`
	Epilogue hcl.Expression `hcl:"epilogue,optional"`
}
