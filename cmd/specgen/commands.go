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

package main

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ajroetker/specgen/internal/catalog"
	"github.com/ajroetker/specgen/internal/ctxlog"
	"github.com/ajroetker/specgen/internal/dispatch"
	"github.com/ajroetker/specgen/internal/generator"
	"github.com/ajroetker/specgen/internal/output"
)

type rootOptions struct {
	verbose  bool
	catalogs []string
}

type generateOptions struct {
	cfg    generator.Config
	only   []string
	dryRun bool
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	ro := &rootOptions{}
	gen := &generateOptions{cfg: generator.DefaultConfig()}

	root := &cobra.Command{
		Use:           "specgen",
		Short:         "Generate specialization translation units and their dispatcher",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if ro.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, out, ro, gen)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.BoolVarP(&ro.verbose, "verbose", "v", false, "log unchanged files and other detail")
	pf.StringArrayVar(&ro.catalogs, "catalog", nil, "HCL catalog `file` to load instead of the builtin matrices (repeatable)")

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Write every unit and dispatcher of the selected matrices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, out, ro, gen)
		},
	}
	addGenerateFlags(root.Flags(), gen)
	addGenerateFlags(generate.Flags(), gen)

	root.AddCommand(generate, newListCmd(out, ro), newSelectCmd(out, ro))
	return root
}

func addGenerateFlags(fs *pflag.FlagSet, o *generateOptions) {
	fs.StringVarP(&o.cfg.OutputDir, "output", "o", o.cfg.OutputDir, "output root `dir`")
	fs.StringSliceVar(&o.only, "only", nil, "generate only the named matrices")
	fs.BoolVar(&o.cfg.Prune, "prune", o.cfg.Prune, "remove stale artifacts the run did not produce")
	fs.BoolVar(&o.dryRun, "dry-run", false, "print the artifacts as a txtar archive instead of writing them")
	fs.IntVarP(&o.cfg.Jobs, "jobs", "j", o.cfg.Jobs, "concurrent unit writes")
}

func loadMatrices(ro *rootOptions, only []string) ([]*catalog.Matrix, error) {
	var (
		all []*catalog.Matrix
		err error
	)
	if len(ro.catalogs) > 0 {
		all, err = catalog.LoadFiles(ro.catalogs...)
	} else {
		all, err = catalog.Builtin()
	}
	if err != nil {
		return nil, err
	}
	return catalog.Select(all, only)
}

func runGenerate(cmd *cobra.Command, out io.Writer, ro *rootOptions, o *generateOptions) error {
	matrices, err := loadMatrices(ro, o.only)
	if err != nil {
		return err
	}
	var w output.Writer
	archive := &output.Archive{}
	if o.dryRun {
		w = archive
	}
	_, runErr := generator.New(o.cfg, w).Run(cmd.Context(), matrices)
	if o.dryRun {
		if _, err := out.Write(archive.Bytes()); err != nil {
			return err
		}
	}
	return runErr
}

func newListCmd(out io.Writer, ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the matrices with their tuple, branch and guard counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			matrices, err := loadMatrices(ro, nil)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MATRIX\tTUPLES\tBRANCHES\tGUARDS\tDESCRIPTION")
			for _, m := range matrices {
				p, err := generator.PlanMatrix(m)
				if err != nil {
					return err
				}
				branches := "-"
				if p.Table != nil {
					branches = strconv.Itoa(len(p.Table.Branches()))
				}
				macros := lo.Map(slices.Sorted(maps.Keys(m.Guards)), func(id string, _ int) string {
					return m.Guards[id].Macro
				})
				guards := "-"
				if len(macros) > 0 {
					guards = strings.Join(macros, ",")
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", m.Name(), len(p.Units), branches, guards, m.Description)
			}
			return tw.Flush()
		},
	}
}

func newSelectCmd(out io.Writer, ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "select MATRIX KEY",
		Short: "Show which specialization the dispatcher picks for a runtime configuration",
		Long: `Select runs the dispatcher of MATRIX against KEY, given positionally
("2,2,3") or by field ("row_block_size=2,e_block_size=2,f_block_size=3").
A configuration without a specialization selects the generic unit and logs
a warning.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			matrices, err := loadMatrices(ro, args[:1])
			if err != nil {
				return err
			}
			m := matrices[0]
			if m.Dispatch == nil {
				return fmt.Errorf("matrix %q has no dispatcher", m.Name())
			}
			p, err := generator.PlanMatrix(m)
			if err != nil {
				return err
			}
			key, err := dispatch.ParseKey(p.Table.Fields, args[1])
			if err != nil {
				return err
			}
			sel := p.Table.Select(cmd.Context(), key)
			if sel.Fallback {
				_, err = fmt.Fprintf(out, "fallback %s %s\n", sel.Entry.Tuple, sel.Entry.Unit.Path)
			} else {
				_, err = fmt.Fprintf(out, "branch %d %s %s\n", sel.Index, sel.Entry.Tuple, sel.Entry.Unit.Path)
			}
			return err
		},
	}
}
