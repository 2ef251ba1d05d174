//go:build !linux

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
	"errors"
)

// ErrCompanionUnsupported is returned by this platform's CompanionLauncher.
var ErrCompanionUnsupported = errors.New("shmlog: companion process control not supported on this platform")

type unsupportedLauncher struct{}

// NewCompanionLauncher returns this platform's CompanionLauncher.
func NewCompanionLauncher() CompanionLauncher {
	return unsupportedLauncher{}
}

func (unsupportedLauncher) Launch(ctx context.Context, exePath string, args ...string) error {
	return ErrCompanionUnsupported
}

func (unsupportedLauncher) Kill(nameSubstring string, all bool) error {
	return ErrCompanionUnsupported
}
