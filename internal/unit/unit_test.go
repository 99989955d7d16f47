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

package unit

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/specgen/internal/catalog"
	"github.com/ajroetker/specgen/internal/space"
)

const small = `
matrix "u" {
  dynamic     = "D"
  exhaustive  = true
  file_prefix = "gen/u"
  file_suffix = ".cc"
  restrict    = "r"
  header      = "// ${name}\n"

  guard "r" {
    macro = "R"
    kind  = "restriction"
  }
  guard "x" {
    macro = "X"
  }

  axis "n" {
    fields = ["n"]
    value {
      literal = 2
      guard   = "x"
    }
    value {
      literal = dynamic
    }
  }

  unit {
    prologue = "#include <p>\n"
    body     = "\nT<${n}>;  // ${path}\n"
  }
  dynamic_unit {
    body = "\nT<${n}>;\n"
  }
}
`

func load(t *testing.T, src string) *catalog.Matrix {
	t.Helper()
	ms, err := catalog.Parse([]byte(src), "test.hcl")
	require.NoError(t, err)
	require.Len(t, ms, 1)
	return ms[0]
}

func builtin(t *testing.T, name string) *catalog.Matrix {
	t.Helper()
	ms, err := catalog.Builtin()
	require.NoError(t, err)
	sel, err := catalog.Select(ms, []string{name})
	require.NoError(t, err)
	return sel[0]
}

func TestBuildAll(t *testing.T) {
	units, err := BuildAll(load(t, small))
	require.NoError(t, err)
	require.Len(t, units, 2)

	want := "// 2\n" +
		"#include <p>\n" +
		"\n#ifndef R\n#ifndef X\n" +
		"\nT<2>;  // gen/u_2.cc\n" +
		"\n#endif  // X\n#endif  // R\n"
	if diff := cmp.Diff(want, string(units[0].Text)); diff != "" {
		t.Errorf("specialized unit (-want +got):\n%s", diff)
	}
	assert.Equal(t, "gen/u_2.cc", units[0].Path)
	assert.Equal(t, []string{"r", "x"}, units[0].Guards.IDs())

	assert.Equal(t, "// Dynamic\n\nT<D>;\n", string(units[1].Text))
	assert.Equal(t, "gen/u_d.cc", units[1].Path)
	assert.Zero(t, units[1].Guards.Len())
}

func TestBuildAllRejectsInvalidMatrix(t *testing.T) {
	m := load(t, small)
	m.Restrict = "missing"
	_, err := BuildAll(m)
	require.Error(t, err)
	assert.True(t, space.IsConfigurationError(err))
}

func TestBuildIsDeterministic(t *testing.T) {
	m := builtin(t, "bundle_adjustment_tests")
	a, err := BuildAll(m)
	require.NoError(t, err)
	b, err := BuildAll(m)
	require.NoError(t, err)
	require.Len(t, a, len(b))
	for i := range a {
		assert.Equal(t, a[i].Path, b[i].Path)
		assert.Equal(t, a[i].Text, b[i].Text)
	}
}

func TestPartitionedMatrixViewUnits(t *testing.T) {
	units, err := BuildAll(builtin(t, "partitioned_matrix_view"))
	require.NoError(t, err)
	require.Len(t, units, 19)

	first := string(units[0].Text)
	assert.Equal(t, "generated/partitioned_matrix_view_2_2_2.cc", units[0].Path)
	assert.Contains(t, first, "template class PartitionedMatrixView<2, 2, 2>;")
	assert.Contains(t, first, "#include \"ceres/internal/port.h\"\n\n#ifndef CERES_RESTRICT_SCHUR_SPECIALIZATION\n")
	assert.True(t, strings.HasSuffix(first, "#endif  // CERES_RESTRICT_SCHUR_SPECIALIZATION\n"))

	last := units[len(units)-1]
	assert.Equal(t, "generated/partitioned_matrix_view_d_d_d.cc", last.Path)
	assert.Contains(t, string(last.Text), "template class PartitionedMatrixView<Eigen::Dynamic, Eigen::Dynamic, Eigen::Dynamic>;")
	assert.NotContains(t, string(last.Text), "#ifndef")
	assert.NotContains(t, string(last.Text), "port.h")

	mixed := units[3]
	assert.Equal(t, "generated/partitioned_matrix_view_2_2_d.cc", mixed.Path)
	assert.Contains(t, string(mixed.Text), "PartitionedMatrixView<2, 2, Eigen::Dynamic>;")
}

func TestBundleAdjustmentGuardNesting(t *testing.T) {
	units, err := BuildAll(builtin(t, "bundle_adjustment_tests"))
	require.NoError(t, err)
	require.Len(t, units, 44)

	var u Unit
	for _, c := range units {
		if c.Path == "generated_bundle_adjustment_tests/ba_sparseschur_suitesparse_identity_userordering_threads_test.cc" {
			u = c
		}
	}
	require.NotEmpty(t, u.Path)
	text := string(u.Text)

	assert.Equal(t, []string{"suitesparse", "threads"}, u.Guards.IDs())
	assert.Less(t, strings.Index(text, "#ifndef CERES_NO_SUITESPARSE"), strings.Index(text, "#ifndef CERES_NO_THREADS"))
	assert.Less(t, strings.Index(text, "#endif  // CERES_NO_THREADS"), strings.Index(text, "#endif  // CERES_NO_SUITESPARSE"))
	assert.Contains(t, text, "TEST_F(BundleAdjustmentTest,\n       SparseSchur_SuiteSparse_Identity_UserOrdering_Threads) {  // NOLINT")
	assert.Contains(t, text, "ThreadedSolverConfig(\n          SPARSE_SCHUR,\n          SUITE_SPARSE,\n          kUserOrdering,\n          IDENTITY));")

	plain := units[0]
	assert.Equal(t, "generated_bundle_adjustment_tests/ba_denseschur_nosparse_identity_automaticordering_nothreads_test.cc", plain.Path)
	assert.Zero(t, plain.Guards.Len())
	assert.NotContains(t, string(plain.Text), "#if")

	eigen := units[6*4]
	assert.Equal(t, []string{"eigen_sparse"}, eigen.Guards.IDs())
	assert.Contains(t, string(eigen.Text), "#ifdef CERES_USE_EIGEN_SPARSE\n")
}
