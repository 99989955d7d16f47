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

// Package generator turns a set of matrices into artifacts. A run plans
// every matrix in memory first, so a configuration error leaves the output
// untouched, and then writes units concurrently.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/specgen/internal/catalog"
	"github.com/ajroetker/specgen/internal/ctxlog"
	"github.com/ajroetker/specgen/internal/dispatch"
	"github.com/ajroetker/specgen/internal/output"
	"github.com/ajroetker/specgen/internal/unit"
)

// Config holds the run options.
type Config struct {
	OutputDir string // root for artifact paths
	Prune     bool   // remove stale artifacts after writing
	Jobs      int    // concurrent unit writes; <= 0 means GOMAXPROCS
}

// DefaultConfig returns the options used when none are given.
func DefaultConfig() Config {
	return Config{OutputDir: ".", Prune: true, Jobs: runtime.GOMAXPROCS(0)}
}

// EmitError is the failure to store one artifact.
type EmitError struct {
	Matrix string
	Path   string
	Err    error
}

func (e *EmitError) Error() string {
	return fmt.Sprintf("%s: emit %s: %v", e.Matrix, e.Path, e.Err)
}

func (e *EmitError) Unwrap() error { return e.Err }

// Report summarizes what a run did to one matrix.
type Report struct {
	Matrix    string
	Written   []string
	Unchanged []string
	Pruned    []string
}

// Plan is the fully rendered output of one matrix.
type Plan struct {
	Matrix   *catalog.Matrix
	Units    []unit.Unit
	Table    *dispatch.Table // nil without dispatch
	Dispatch []byte
}

// Paths returns every artifact path of the plan, units first.
func (p *Plan) Paths() []string {
	paths := make([]string, 0, len(p.Units)+1)
	for _, u := range p.Units {
		paths = append(paths, u.Path)
	}
	if p.Table != nil {
		paths = append(paths, p.Matrix.Dispatch.Path)
	}
	return paths
}

// Generator writes plans through an output.Writer.
type Generator struct {
	cfg Config
	out output.Writer
}

// New returns a Generator writing through out. A nil out writes to
// cfg.OutputDir.
func New(cfg Config, out output.Writer) *Generator {
	if out == nil {
		out = output.Dir{Root: cfg.OutputDir}
	}
	if cfg.Jobs <= 0 {
		cfg.Jobs = runtime.GOMAXPROCS(0)
	}
	return &Generator{cfg: cfg, out: out}
}

// PlanMatrix validates, enumerates and renders m.
func PlanMatrix(m *catalog.Matrix) (*Plan, error) {
	units, err := unit.BuildAll(m)
	if err != nil {
		return nil, err
	}
	p := &Plan{Matrix: m, Units: units}
	if m.Dispatch == nil {
		return p, nil
	}
	if p.Table, err = dispatch.Build(m.Name(), units); err != nil {
		return nil, err
	}
	if p.Dispatch, err = dispatch.Render(m, p.Table); err != nil {
		return nil, err
	}
	return p, nil
}

// Run plans every matrix and then writes the plans in order. A planning error,
// including two matrices that could claim the same artifact, is returned
// before anything is written. Write failures do not stop the run; they are
// returned joined as *EmitError values alongside the reports.
func (g *Generator) Run(ctx context.Context, matrices []*catalog.Matrix) ([]Report, error) {
	if err := catalog.CheckDisjoint(matrices); err != nil {
		return nil, err
	}
	plans := make([]*Plan, 0, len(matrices))
	var keep []string
	for _, m := range matrices {
		p, err := PlanMatrix(m)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
		keep = append(keep, p.Paths()...)
	}

	reports := make([]Report, 0, len(plans))
	var errs []error
	for _, p := range plans {
		r, err := g.write(ctx, p, keep)
		reports = append(reports, r)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return reports, errors.Join(errs...)
}

// write stores p and prunes its stale artifacts. keep holds every path the
// run produces, across all matrices.
func (g *Generator) write(ctx context.Context, p *Plan, keep []string) (Report, error) {
	logger := ctxlog.FromContext(ctx).With("matrix", p.Matrix.Name())
	r := Report{Matrix: p.Matrix.Name()}

	statuses := make([]output.Status, len(p.Units))
	errs := make([]error, len(p.Units))
	var eg errgroup.Group
	eg.SetLimit(g.cfg.Jobs)
	for i, u := range p.Units {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = &EmitError{Matrix: r.Matrix, Path: u.Path, Err: err}
				return nil
			}
			st, err := g.out.Write(u.Path, u.Text)
			if err != nil {
				errs[i] = &EmitError{Matrix: r.Matrix, Path: u.Path, Err: err}
				return nil
			}
			statuses[i] = st
			return nil
		})
	}
	_ = eg.Wait() // goroutines report through errs

	for i, u := range p.Units {
		if errs[i] == nil {
			r.record(logger, u.Path, statuses[i])
		}
	}

	if p.Table != nil {
		path := p.Matrix.Dispatch.Path
		st, err := g.out.Write(path, p.Dispatch)
		if err != nil {
			errs = append(errs, &EmitError{Matrix: r.Matrix, Path: path, Err: err})
		} else {
			r.record(logger, path, st)
		}
	}

	if pr, ok := g.out.(output.Pruner); ok && g.cfg.Prune && p.Matrix.Space.FilePrefix != "" {
		pattern := p.Matrix.Space.FilePattern()
		removed, err := pr.Prune([]string{pattern}, keep)
		for _, path := range removed {
			logger.Info("pruned", "path", path)
		}
		r.Pruned = removed
		if err != nil {
			errs = append(errs, &EmitError{Matrix: r.Matrix, Path: pattern, Err: err})
		}
	}
	return r, errors.Join(errs...)
}

func (r *Report) record(logger *slog.Logger, path string, st output.Status) {
	if st == output.Unchanged {
		logger.Debug("unchanged", "path", path)
		r.Unchanged = append(r.Unchanged, path)
		return
	}
	logger.Info("generated", "path", path)
	r.Written = append(r.Written, path)
}
