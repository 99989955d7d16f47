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
	"errors"
	"fmt"
)

// ConfigurationError reports a configuration space that cannot be expanded.
// It is fatal: generation stops before anything is written.
type ConfigurationError struct {
	Space  string // name of the offending space, may be empty
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Space == "" {
		return "configuration error: " + e.Reason
	}
	return fmt.Sprintf("configuration error in %q: %s", e.Space, e.Reason)
}

// Errorf returns a *ConfigurationError for the named space.
func Errorf(space, format string, args ...any) error {
	return &ConfigurationError{Space: space, Reason: fmt.Sprintf(format, args...)}
}

// IsConfigurationError reports whether err wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
