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

// specgen generates explicit specializations of compile-time parameterized
// code, one translation unit per configuration, together with the runtime
// selector that picks among them.
//
// Usage:
//
//	specgen [generate] [-o DIR] [--catalog FILE]... [--only NAME,...] [--prune] [--dry-run] [-j N]
//	specgen list
//	specgen select MATRIX KEY
//
// Without a subcommand, specgen regenerates every builtin matrix into the
// current directory.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "specgen:", err)
		os.Exit(1)
	}
}

// run executes the command line args, writing results to out and log records
// to errOut.
func run(out, errOut io.Writer, args []string) error {
	root := newRootCmd(out, errOut)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}
