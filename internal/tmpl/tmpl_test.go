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

package tmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, name, src string) *Template {
	t.Helper()
	tp, err := parse(name, src)
	require.NoError(t, err)
	return tp
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		src  string
		vars Vars
		want string
	}{
		{"literal", "plain text\n", nil, "plain text\n"},
		{"placeholders", "PartitionedMatrixView<${a}, ${b}>;", Vars{"a": "2", "b": "Eigen::Dynamic"}, "PartitionedMatrixView<2, Eigen::Dynamic>;"},
		{"repeated", "${a}${a}", Vars{"a": "x"}, "xx"},
		{"extra vars ignored", "${a}", Vars{"a": "1", "b": "2"}, "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mustParse(t, tt.name, tt.src).Render(tt.vars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderMissingVariable(t *testing.T) {
	_, err := mustParse(t, "t", "${missing}").Render(Vars{})
	assert.Error(t, err)
}

func TestNilTemplate(t *testing.T) {
	var tp *Template
	got, err := tp.Render(Vars{"a": "1"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Nil(t, tp.Variables())
	assert.Nil(t, FromExpression(nil))
}

func TestVariables(t *testing.T) {
	tp := mustParse(t, "t", "${name} ${code} ${name} ${path}")
	assert.Equal(t, []string{"code", "name", "path"}, tp.Variables())
	assert.Equal(t, []string{"path"}, tp.Unknown([]string{"name", "code"}))
	assert.Empty(t, tp.Unknown([]string{"name", "code", "path"}))
}

func TestParseError(t *testing.T) {
	for _, src := range []string{"${unterminated", "${"} {
		_, err := parse("t", src)
		assert.Error(t, err, src)
	}
}
