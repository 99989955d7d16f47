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
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DynamicName is the name component of a dynamic field.
const DynamicName = "Dynamic"

// CamelCase converts a capitalized underscore token to camel case.
// "SPARSE_NORMAL_CHOLESKY" -> "SparseNormalCholesky", "2" -> "2".
func CamelCase(token string) string {
	caser := cases.Title(language.English)
	parts := strings.Split(token, "_")
	for i, p := range parts {
		parts[i] = caser.String(strings.ToLower(p))
	}
	return strings.Join(parts, "")
}

// FieldName returns the name component for one field literal.
func FieldName(literal string, dynamic bool, naming Naming, trimPrefix string) string {
	if dynamic {
		return DynamicName
	}
	s := strings.TrimPrefix(literal, trimPrefix)
	if naming == NamingVerbatim {
		return s
	}
	return CamelCase(s)
}

// ValueName returns the name component for a whole value: the explicit name if
// given, otherwise the field names joined by sep.
func ValueName(v Value, fields []Field, a Axis, sep string) string {
	if v.Name != "" {
		return v.Name
	}
	names := lo.Map(fields, func(f Field, _ int) string {
		return FieldName(f.Literal, f.Dynamic, a.Naming, a.TrimPrefix)
	})
	return strings.Join(names, sep)
}

// ValueCode returns the filename code for a value. An explicit code wins, then
// the lowered explicit name, then the lowered field names with dynamic fields
// lowered to dynCode.
func ValueCode(v Value, fields []Field, a Axis, sep, dynCode string) string {
	if v.Code != "" {
		return v.Code
	}
	if v.Name != "" {
		return strings.ToLower(v.Name)
	}
	codes := lo.Map(fields, func(f Field, _ int) string {
		if f.Dynamic {
			return dynCode
		}
		return strings.ToLower(FieldName(f.Literal, false, a.Naming, a.TrimPrefix))
	})
	return strings.Join(codes, sep)
}

// JoinFilename builds prefix + sep + codes... + suffix. The leading separator
// is dropped when prefix is empty.
func JoinFilename(prefix string, codes []string, sep, suffix string) string {
	parts := codes
	if prefix != "" {
		parts = append([]string{prefix}, codes...)
	}
	return strings.Join(parts, sep) + suffix
}

// Filename returns the deterministic artifact path of t.
func (s *Space) Filename(t Tuple) string {
	return JoinFilename(s.FilePrefix, t.Codes(), s.separator(), s.FileSuffix)
}

// FilePattern returns a glob matching every artifact this space can produce.
func (s *Space) FilePattern() string {
	return JoinFilename(s.FilePrefix, []string{"*"}, s.separator(), s.FileSuffix)
}

// patternParts returns the fixed text before and after the wildcard of
// FilePattern.
func (s *Space) patternParts() (head, tail string) {
	if s.FilePrefix != "" {
		head = s.FilePrefix + s.separator()
	}
	return head, s.FileSuffix
}

// MatchesArtifact reports whether p matches FilePattern, i.e. whether a
// prune of s would consider p.
func (s *Space) MatchesArtifact(p string) bool {
	head, tail := s.patternParts()
	if len(p) < len(head)+len(tail) || !strings.HasPrefix(p, head) || !strings.HasSuffix(p, tail) {
		return false
	}
	return !strings.Contains(p[len(head):len(p)-len(tail)], "/")
}

// Overlaps reports whether some path matches the file patterns of both s and
// o. Overlapping spaces can claim each other's artifacts.
func (s *Space) Overlaps(o *Space) bool {
	h1, t1 := s.patternParts()
	h2, t2 := o.patternParts()
	head, tail := longer(h1, h2, strings.HasPrefix), longer(t1, t2, strings.HasSuffix)
	if head == "" && h1 != h2 || tail == "" && t1 != t2 {
		return false
	}
	witness := head + tail
	return s.MatchesArtifact(witness) && o.MatchesArtifact(witness)
}

// longer returns the longer of a and b when the shorter one is its prefix
// (or suffix, per has), or "" when they are incompatible.
func longer(a, b string, has func(s, affix string) bool) string {
	if len(a) < len(b) {
		a, b = b, a
	}
	if !has(a, b) {
		return ""
	}
	return a
}
