//go:build linux

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

import (
	"syscall"
	"unsafe"
)

const msAsync = 1 // MS_ASYNC

// msync asks the kernel to start writing back mem's dirty pages
// asynchronously, matching the original's LOG_VIEW_FLUSH(buf, length).
// Within one host, MAP_SHARED already makes writes visible to every other
// mapper of the same pages through the shared page cache; msync only
// matters for eventual on-disk persistence, which spec.md's Non-goals
// explicitly exclude ("no durability on crash").
func msync(mem []byte) error {
	_, _, errno := syscall.Syscall(syscall.SYS_MSYNC,
		uintptr(unsafe.Pointer(&mem[0])), uintptr(len(mem)), uintptr(msAsync))
	if errno != 0 {
		return errno
	}
	return nil
}
