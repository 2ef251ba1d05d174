//go:build linux && (amd64 || arm64)

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
	"sync/atomic"
	"syscall"
	"unsafe"

	"github.com/pkg/errors"
)

// futexSemaphore is a binary semaphore backed by a futex word in a small
// mmap'd file, so that Lock/Unlock calls from different processes racing on
// the same name see the same word. Adapted from ring.go's futexWait/
// futexWake pair in the teacher (there used for ring backpressure
// signalling); here repurposed as the default Semaphore implementation.
type futexSemaphore struct {
	fm  *FileMap
	mem []byte
}

// DefaultSemaphoreFactory constructs the package's default Semaphore: a
// futex word backed by a small file named after the semaphore in the
// current directory. The word starts at 0 (locked / not yet released);
// Lock blocks until some other process calls Unlock, which stores 1 and
// wakes waiters.
func DefaultSemaphoreFactory(name string) (Semaphore, error) {
	fm, err := NewWriterFileMap(semaphorePath(name), 4)
	if err != nil {
		return nil, errors.Wrapf(err, "create semaphore %s", name)
	}
	mem, err := fm.MapView(0, 4)
	if err != nil {
		fm.Close()
		return nil, errors.Wrapf(err, "map semaphore %s", name)
	}
	atomic.StoreUint32(word(mem), 0)
	return &futexSemaphore{fm: fm, mem: mem}, nil
}

func word(mem []byte) *uint32 {
	return (*uint32)(unsafe.Pointer(&mem[0]))
}

// Lock blocks until Unlock is called on this semaphore, by this process or
// another one sharing the same backing file.
func (s *futexSemaphore) Lock() error {
	addr := word(s.mem)
	for atomic.LoadUint32(addr) == 0 {
		if err := futexWait(addr, 0); err != nil {
			return err
		}
	}
	return nil
}

// Unlock releases every waiter blocked in Lock.
func (s *futexSemaphore) Unlock() error {
	addr := word(s.mem)
	atomic.StoreUint32(addr, 1)
	_, err := futexWake(addr, 1<<30)
	return err
}

// Close unmaps and removes the backing file.
func (s *futexSemaphore) Close() error {
	path := s.fm.file.Name()
	if err := UnmapView(s.mem); err != nil {
		return err
	}
	if err := s.fm.Close(); err != nil {
		return err
	}
	return errors.Wrap(syscall.Unlink(path), "remove semaphore file")
}

// Linux futex constants and raw syscall wrappers, adapted from the
// teacher's shm_futex_linux.go. The shared (non-private) ops are used so a
// wake from another process mapping the same file reaches the waiter.
const (
	futexWaitShared = 0 // FUTEX_WAIT
	futexWakeShared = 1 // FUTEX_WAKE
)

func futexWait(addr *uint32, val uint32) error {
	if atomic.LoadUint32(addr) != val {
		return nil
	}
	return rawFutex(addr, futexWaitShared, val)
}

func futexWake(addr *uint32, n int) (int, error) {
	if err := rawFutex(addr, futexWakeShared, uint32(n)); err != nil {
		return 0, err
	}
	return n, nil
}

// rawFutex issues the futex(2) syscall with no timeout. It goes through
// syscall.Syscall6, not RawSyscall6, so the scheduler can run other
// goroutines while FUTEX_WAIT blocks.
func rawFutex(addr *uint32, op int, val uint32) error {
	_, _, errno := syscall.Syscall6(
		syscall.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(op),
		uintptr(val),
		0, 0, 0,
	)
	if errno != 0 && errno != syscall.EAGAIN && errno != syscall.EINTR {
		return errors.Wrap(errno, "futex")
	}
	return nil
}
