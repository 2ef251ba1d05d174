/*
 *
 * Copyright 2025 gRPC authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package shmlog

import "context"

// CompanionLauncher spawns and terminates a companion viewer process that
// reads the same log file. Per spec.md §1 this is OS integration, outside
// the core; it is specified only at its boundary (see DESIGN.md).
type CompanionLauncher interface {
	// Launch starts exePath with args and returns once the process has
	// been started (not once it exits).
	Launch(ctx context.Context, exePath string, args ...string) error
	// Kill sends an interrupt to every running process whose executable
	// path contains nameSubstring. If all is false, it stops after the
	// first match.
	Kill(nameSubstring string, all bool) error
}
