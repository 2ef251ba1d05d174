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
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/errors"
)

// procLauncher is the Linux CompanionLauncher: it spawns the viewer with
// os/exec (the idiomatic Go rendering of the original's fork+execlp) and
// kills matches by walking /proc/<pid>/exe symlinks, exactly as
// dDetector::killClient does.
type procLauncher struct{}

// NewCompanionLauncher returns this platform's CompanionLauncher.
func NewCompanionLauncher() CompanionLauncher {
	return procLauncher{}
}

func (procLauncher) Launch(ctx context.Context, exePath string, args ...string) error {
	cmd := exec.CommandContext(ctx, exePath, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "launch companion %s", exePath)
	}
	return nil
}

func (procLauncher) Kill(nameSubstring string, all bool) error {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return errors.Wrap(err, "read /proc")
	}
	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue // not a PID directory
		}
		target, err := os.Readlink("/proc/" + entry.Name() + "/exe")
		if err != nil {
			continue // process exited, or we lack permission
		}
		if !strings.Contains(target, nameSubstring) {
			continue
		}
		if err := syscall.Kill(pid, syscall.SIGINT); err != nil {
			return errors.Wrapf(err, "signal pid %d", pid)
		}
		if !all {
			break
		}
	}
	return nil
}
