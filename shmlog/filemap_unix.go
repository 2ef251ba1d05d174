//go:build linux || darwin

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
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// FileMap owns the backing file and its shared mapping. A writer-mode
// FileMap creates and truncates the file; a reader-mode FileMap opens it
// read-only. Both sides mmap page-aligned sub-views with MapView.
type FileMap struct {
	file     *os.File
	writable bool
}

// NewWriterFileMap creates (or truncates) path, sizes it to size, and opens
// it read/write; MapView then maps views of it read/write, shared. A
// pre-existing file at path is overwritten.
func NewWriterFileMap(path string, size int64) (*FileMap, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.Wrapf(err, "create log file %s", path)
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "resize log file %s", path)
	}
	return &FileMap{file: f, writable: true}, nil
}

// NewReaderFileMap opens path read-only; MapView then maps views of it
// shared read-only. A missing file yields a FileMap whose IsValid is false
// and no error. On
// POSIX there is no separate named-mapping object distinct from the
// inode-backed shared mapping, so a reader simply mmaps the same path the
// writer created; see DESIGN.md Open Question 5.
func NewReaderFileMap(path string) (*FileMap, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return &FileMap{}, nil
		}
		return nil, errors.Wrapf(err, "open log file %s", path)
	}
	return &FileMap{file: f, writable: false}, nil
}

// IsValid reports whether this FileMap has a live file descriptor.
func (fm *FileMap) IsValid() bool {
	return fm != nil && fm.file != nil
}

// MapView maps the [offset, offset+length) region of the backing file. The
// writer maps read/write; a reader-mode FileMap maps read-only.
func (fm *FileMap) MapView(offset, length int64) ([]byte, error) {
	prot := syscall.PROT_READ
	if fm.writable {
		prot |= syscall.PROT_WRITE
	}
	mem, err := syscall.Mmap(int(fm.file.Fd()), offset, int(length), prot, syscall.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrap(err, "mmap view")
	}
	return mem, nil
}

// UnmapView unmaps a view previously returned by MapView.
func UnmapView(mem []byte) error {
	if len(mem) == 0 {
		return nil
	}
	return errors.Wrap(syscall.Munmap(mem), "munmap view")
}

// FlushView asks the kernel to start writing back the dirty pages of mem.
// Matches the original's LOG_VIEW_FLUSH(buf, length) — an asynchronous sync,
// not a durability guarantee (see spec.md Non-goals: no durability on crash).
func FlushView(mem []byte) error {
	if len(mem) == 0 {
		return nil
	}
	return errors.Wrap(msync(mem), "msync view")
}

// Close releases the underlying file descriptor.
func (fm *FileMap) Close() error {
	if fm.file == nil {
		return nil
	}
	err := fm.file.Close()
	fm.file = nil
	return err
}
