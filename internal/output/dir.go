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

// Package output stores generated artifacts. Dir writes to the filesystem;
// Archive collects them in memory.
package output

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// Status reports what a Write did.
type Status int

const (
	// Written means the artifact was created or its content replaced.
	Written Status = iota
	// Unchanged means the artifact already held the bytes; nothing was touched.
	Unchanged
)

func (s Status) String() string {
	if s == Unchanged {
		return "unchanged"
	}
	return "written"
}

// Writer stores one artifact under a slash-separated relative path. Writing
// the bytes an artifact already holds is a no-op that reports Unchanged.
// Implementations must be safe for concurrent use on distinct paths.
type Writer interface {
	Write(path string, data []byte) (Status, error)
}

// Pruner removes artifacts matching any of patterns whose path is not in
// keep, and returns the removed paths in sorted order.
type Pruner interface {
	Prune(patterns, keep []string) ([]string, error)
}

// Dir writes artifacts below Root.
type Dir struct {
	Root string
}

var (
	_ Writer = Dir{}
	_ Pruner = Dir{}
)

// Write creates missing parent directories and writes data to path unless the
// file already holds exactly data.
func (d Dir) Write(path string, data []byte) (Status, error) {
	if !fs.ValidPath(path) {
		return 0, fmt.Errorf("invalid artifact path %q", path)
	}
	full := filepath.Join(d.Root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return 0, err
	}
	old, err := os.ReadFile(full)
	switch {
	case err == nil && bytes.Equal(old, data):
		return Unchanged, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return 0, err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return 0, err
	}
	return Written, nil
}

// Prune removes regular files below Root that match a pattern and are not in
// keep. Patterns use path.Match syntax relative to Root.
func (d Dir) Prune(patterns, keep []string) ([]string, error) {
	root := os.DirFS(d.Root)
	var removed []string
	for _, pattern := range patterns {
		matches, err := fs.Glob(root, pattern)
		if err != nil {
			return removed, fmt.Errorf("prune %q: %w", pattern, err)
		}
		for _, m := range matches {
			if slices.Contains(keep, m) || slices.Contains(removed, m) {
				continue
			}
			info, err := fs.Stat(root, m)
			if err != nil {
				return removed, err
			}
			if !info.Mode().IsRegular() {
				continue
			}
			if err := os.Remove(filepath.Join(d.Root, filepath.FromSlash(m))); err != nil {
				return removed, err
			}
			removed = append(removed, m)
		}
	}
	slices.Sort(removed)
	return removed, nil
}
