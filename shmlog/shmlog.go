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

// Package shmlog provides a shared-memory telemetry transport: an in-process
// event emitter coupled with an out-of-process reader, both backed by a
// fixed-size, memory-mapped file acting as a single-writer / multi-reader
// circular log.
//
// A live program (the writer) records structured events — scope enter/leave,
// timed stamps, key/value updates, traces, validation checkpoints — into
// shared memory. A separately launched program (the reader) maps the same
// file concurrently and drains events in near-real time. Writer and reader
// coordinate through a published watermark in each page's header rather than
// a shared mutex, so the reader never blocks the writer and vice versa.
package shmlog
