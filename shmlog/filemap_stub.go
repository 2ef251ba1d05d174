//go:build !linux && !darwin

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

import "errors"

// ErrUnsupportedPlatform is returned by FileMap operations on platforms
// without a mmap implementation in this package (see filemap_unix.go).
var ErrUnsupportedPlatform = errors.New("shmlog: mmap not supported on this platform")

// FileMap is a non-functional stand-in on unsupported platforms.
type FileMap struct{}

func NewWriterFileMap(path string, size int64) (*FileMap, error) {
	return nil, ErrUnsupportedPlatform
}

func NewReaderFileMap(path string) (*FileMap, error) {
	return nil, ErrUnsupportedPlatform
}

func (fm *FileMap) IsValid() bool { return false }

func (fm *FileMap) MapView(offset, length int64) ([]byte, error) {
	return nil, ErrUnsupportedPlatform
}

func UnmapView(mem []byte) error { return nil }

func FlushView(mem []byte) error { return nil }

func (fm *FileMap) Close() error { return nil }
