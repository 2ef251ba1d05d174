//go:build darwin

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

// msync is a no-op on darwin: the syscall package exposes no SYS_MSYNC
// constant on this platform, and within one host MAP_SHARED already makes
// writes visible to every other mapper of the same pages through the
// shared page cache, which is all the published-watermark protocol in
// pagewriter.go/pagereader.go depends on. See filemap_msync_linux.go for
// the platform that does back this with a real syscall.
func msync(mem []byte) error {
	return nil
}
