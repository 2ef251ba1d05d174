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
	"runtime"

	"github.com/go-kit/log/level"
)

// ScopeGuard emits a ScopeEndST event when End is called (typically via
// defer), or when the guard is garbage collected without ever having been
// ended, via a runtime finalizer registered in newScopeGuard. It is the Go
// rendering of the original's move-only Stack: Go has no destructors, so
// "moved-from guard is inert" becomes "End is idempotent and finalizer-armed
// until it runs," which gives every caller the same at-most-one-ScopeEndST
// guarantee (spec.md §8 P6) even if a caller forgets to call End.
type ScopeGuard struct {
	d     *DetectorFacade
	name  string
	ended bool
}

// newScopeGuard emits ScopeBeginST(name, now) and returns a guard whose End
// method emits the matching ScopeEndST. A finalizer backs End up in case the
// guard is dropped without it ever being called explicitly.
func newScopeGuard(d *DetectorFacade, name string) *ScopeGuard {
	if err := d.writeST64(ScopeBeginST, name, d.now()); err != nil {
		level.Error(d.cfg.logger).Log("msg", "scope begin failed", "name", name, "err", err)
	}
	g := &ScopeGuard{d: d, name: name}
	runtime.SetFinalizer(g, (*ScopeGuard).End)
	return g
}

// End emits ScopeEndST(name, now) exactly once. Calling End more than once
// is a no-op, matching "only the original instance must emit the end
// event" for a lifecycle without C++-style moves.
func (g *ScopeGuard) End() {
	if g == nil || g.ended {
		return
	}
	g.ended = true
	runtime.SetFinalizer(g, nil)
	if err := g.d.writeST64(ScopeEndST, g.name, g.d.now()); err != nil {
		level.Error(g.d.cfg.logger).Log("msg", "scope end failed", "name", g.name, "err", err)
	}
}
