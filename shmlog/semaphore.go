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

// Semaphore is the cross-process synchronization primitive Valid blocks on.
// Per spec.md §1 this is an external collaborator: the core depends only on
// this interface, never on a concrete OS primitive. Lock blocks the caller
// until some other process calls Unlock on the semaphore of the same name;
// this models the original's double-lock wait as a single richer
// wait-on-signal, per spec.md §9's explicit allowance.
type Semaphore interface {
	Lock() error
	Unlock() error
	Close() error
}

// SemaphoreFactory constructs a named Semaphore. Production embedders may
// supply their own (POSIX sem_open, a Windows named semaphore, ...);
// DefaultSemaphoreFactory is this package's own best-effort implementation.
type SemaphoreFactory func(name string) (Semaphore, error)

// semaphorePath returns the companion file backing a named semaphore's
// futex word, in the current working directory, matching the original's
// convention of naming cross-process coordination files after the
// semaphore ("nabang-valid-<key>").
func semaphorePath(name string) string {
	return "./" + name + ".sem"
}
