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

// Package dispatch synthesizes the runtime selector of an exhaustive matrix:
// one branch per specialized unit, tried in order, with an unconditional
// fallback to the generic unit.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/ajroetker/specgen/internal/ctxlog"
	"github.com/ajroetker/specgen/internal/space"
	"github.com/ajroetker/specgen/internal/unit"
)

// Comparison tests one runtime dimension for literal equality.
type Comparison struct {
	Field   string
	Literal string
}

// Entry is one branch of the selector.
type Entry struct {
	Tuple     space.Tuple
	Unit      unit.Unit
	Predicate []Comparison // nil for the fallback
	Fallback  bool
}

// Matches reports whether key satisfies every comparison of e. The fallback
// matches every key.
func (e Entry) Matches(key Key) bool {
	if e.Fallback {
		return true
	}
	if len(key) != len(e.Predicate) {
		return false
	}
	for i, c := range e.Predicate {
		if key[i] != c.Literal {
			return false
		}
	}
	return true
}

// Table is the ordered branch list of a matrix. The last entry is always the
// fallback.
type Table struct {
	Matrix  string
	Fields  []string
	Entries []Entry
}

// Selection is the outcome of Select.
type Selection struct {
	Entry    Entry
	Index    int // position in Table.Entries
	Fallback bool
}

// Build derives the table of a matrix from its units in tuple order. Every
// non-dynamic unit becomes a branch, in order, and the dynamic unit becomes
// the trailing fallback. It fails with a *space.ConfigurationError when there
// is not exactly one dynamic unit.
func Build(matrix string, units []unit.Unit) (*Table, error) {
	if n := lo.CountBy(units, func(u unit.Unit) bool { return u.Tuple.IsDynamic() }); n != 1 {
		return nil, space.Errorf(matrix, "dispatch needs exactly one generic specialization, found %d", n)
	}
	t := &Table{Matrix: matrix}
	var fallback Entry
	for _, u := range units {
		if u.Tuple.IsDynamic() {
			fallback = Entry{Tuple: u.Tuple, Unit: u, Fallback: true}
			continue
		}
		t.Entries = append(t.Entries, Entry{
			Tuple: u.Tuple,
			Unit:  u,
			Predicate: lo.Map(u.Tuple.Fields(), func(f space.Field, _ int) Comparison {
				return Comparison{Field: f.Name, Literal: f.Literal}
			}),
		})
	}
	t.Fields = lo.Map(fallback.Tuple.Fields(), func(f space.Field, _ int) string { return f.Name })
	t.Entries = append(t.Entries, fallback)
	return t, nil
}

// Branches returns the conditional entries in evaluation order.
func (t *Table) Branches() []Entry {
	return t.Entries[:len(t.Entries)-1]
}

// Fallback returns the unconditional entry.
func (t *Table) Fallback() Entry {
	return t.Entries[len(t.Entries)-1]
}

// Select evaluates the branches in order and returns the first match. When
// nothing matches it returns the fallback and logs one warning naming the
// runtime configuration. A key of the wrong length never matches a branch.
func (t *Table) Select(ctx context.Context, key Key) Selection {
	for i, e := range t.Branches() {
		if e.Matches(key) {
			return Selection{Entry: e, Index: i}
		}
	}
	attrs := []slog.Attr{slog.String("matrix", t.Matrix)}
	for i, v := range key {
		name := fmt.Sprintf("arg%d", i)
		if i < len(t.Fields) {
			name = t.Fields[i]
		}
		attrs = append(attrs, slog.String(name, v))
	}
	ctxlog.FromContext(ctx).LogAttrs(ctx, slog.LevelWarn, "specialization not found", attrs...)
	return Selection{Entry: t.Fallback(), Index: len(t.Entries) - 1, Fallback: true}
}

// Key is a runtime configuration: one literal per field, in field order.
type Key []string

func (k Key) String() string { return "(" + strings.Join(k, ", ") + ")" }

// ParseKey parses a runtime configuration given either positionally
// ("2,2,3") or by field ("row_block_size=2,e_block_size=2,f_block_size=3").
// Named keys must bind every field exactly once; positional keys are taken
// as given.
func ParseKey(fields []string, s string) (Key, error) {
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string { return strings.TrimSpace(p) })
	named := lo.CountBy(parts, func(p string) bool { return strings.Contains(p, "=") })
	switch {
	case named == 0:
		return Key(parts), nil
	case named != len(parts):
		return nil, fmt.Errorf("key %q mixes positional and named values", s)
	}

	key := make(Key, len(fields))
	bound := make([]bool, len(fields))
	for _, p := range parts {
		name, val, _ := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		i := lo.IndexOf(fields, name)
		if i < 0 {
			return nil, fmt.Errorf("key %q: unknown field %q (fields: %s)", s, name, strings.Join(fields, ", "))
		}
		if bound[i] {
			return nil, fmt.Errorf("key %q: field %q given twice", s, name)
		}
		key[i] = strings.TrimSpace(val)
		bound[i] = true
	}
	if i := lo.IndexOf(bound, false); i >= 0 {
		return nil, fmt.Errorf("key %q: missing field %q", s, fields[i])
	}
	return key, nil
}
