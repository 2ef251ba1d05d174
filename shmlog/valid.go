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
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// gValidKey is a file-scoped monotonic counter, incremented once per Valid
// call, used to build a per-call semaphore/command-file name
// ("nabang-valid-<key>") so concurrent Valid calls don't collide. The
// original starts its static int at -1 so the first call's key is 0; this
// atomic counter is seeded the same way.
var gValidKey atomic.Int32

func init() {
	gValidKey.Store(-1)
}

func nextValidKey() int32 {
	return gValidKey.Add(1)
}

// validCommand is the companion process's response to a validation
// checkpoint, read back from its command file.
type validCommand int32

const (
	validCommandCrash    validCommand = 0
	validCommandContinue validCommand = 1
	validCommandIgnore   validCommand = 2
)

func validCommandPath(name string) string {
	return "./" + name + ".cmd"
}

// Valid raises a validation checkpoint when condition is nil or *condition
// is false: it formats and prints the message, emits ValidST, then blocks on
// a named Semaphore until a companion process responds. The response
// dispatches to crash (panic), continue (return), or ignore (mark condition
// satisfied so the caller doesn't raise the same checkpoint again).
func Valid(condition *bool, format string, args ...any) {
	if condition != nil && *condition {
		return
	}
	d := currentWriter()
	if d == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	key := nextValidKey()
	fmt.Printf("<valid:%d> %s\n", key, msg)
	if err := d.writeST32(ValidST, msg, key); err != nil {
		level.Error(d.cfg.logger).Log("msg", "valid write failed", "err", err)
		return
	}

	name := fmt.Sprintf("nabang-valid-%d", key)
	sem, err := d.cfg.semaphoreFactory(name)
	if err != nil {
		level.Error(d.cfg.logger).Log("msg", "open validation semaphore failed", "name", name, "err", err)
		return
	}
	defer sem.Close()

	if err := sem.Lock(); err != nil {
		level.Error(d.cfg.logger).Log("msg", "wait on validation semaphore failed", "name", name, "err", err)
		return
	}

	cmd, err := readValidCommand(name)
	if err != nil {
		level.Error(d.cfg.logger).Log("msg", "read validation command failed", "name", name, "err", err)
		return
	}

	switch cmd {
	case validCommandCrash:
		panic(msg)
	case validCommandIgnore:
		if condition != nil {
			*condition = true
		}
	case validCommandContinue:
	default:
		level.Warn(d.cfg.logger).Log("msg", "unrecognized validation command", "cmd", cmd)
	}
}

// readValidCommand reads and deletes the companion's response file. A
// missing file (the companion hasn't written one, or never will) is treated
// as "continue" rather than an error, since Unlock alone is a valid way for
// a companion to release a checkpoint it doesn't care to answer.
func readValidCommand(name string) (validCommand, error) {
	path := validCommandPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return validCommandContinue, nil
		}
		return 0, errors.Wrapf(err, "read validation command %s", path)
	}
	defer os.Remove(path)

	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, errors.Wrapf(err, "parse validation command %s", path)
	}
	return validCommand(v), nil
}
