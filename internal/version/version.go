// Copyright 2025 Blink Labs Software
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

// Package version holds the build-time version string.
package version

import "fmt"

// Version and CommitHash are set via -ldflags at build time; the zero
// values below are only seen in a `go run`/test build.
var (
	Version    = "dev"
	CommitHash = ""
)

// GetVersionString returns the version, appending the commit hash when
// present.
func GetVersionString() string {
	if CommitHash == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, CommitHash)
}
