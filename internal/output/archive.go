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

package output

import (
	"bytes"
	"maps"
	"slices"
	"sync"

	"golang.org/x/tools/txtar"
)

// Archive is an in-memory Writer. The zero value is ready to use.
type Archive struct {
	mu    sync.Mutex
	files map[string][]byte
}

var _ Writer = (*Archive)(nil)

// Write stores a copy of data at path.
func (a *Archive) Write(path string, data []byte) (Status, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.files == nil {
		a.files = make(map[string][]byte)
	}
	if old, ok := a.files[path]; ok && bytes.Equal(old, data) {
		return Unchanged, nil
	}
	a.files[path] = bytes.Clone(data)
	return Written, nil
}

// Paths returns the stored paths in sorted order.
func (a *Archive) Paths() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Sorted(maps.Keys(a.files))
}

// File returns the bytes stored at path.
func (a *Archive) File(path string) ([]byte, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	data, ok := a.files[path]
	return bytes.Clone(data), ok
}

// Txtar returns the stored files as a txtar archive sorted by path.
func (a *Archive) Txtar() *txtar.Archive {
	ar := &txtar.Archive{}
	for _, p := range a.Paths() {
		data, _ := a.File(p)
		ar.Files = append(ar.Files, txtar.File{Name: p, Data: data})
	}
	return ar
}

// Bytes formats the archive.
func (a *Archive) Bytes() []byte {
	return txtar.Format(a.Txtar())
}
