//go:build linux || darwin

package shmlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func tempFacadePath(t *testing.T) string {
	dir, err := os.MkdirTemp("", "shmlog_facade_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "facade.blog")
}

// TestInitShutdownIdempotent confirms Init/Shutdown form a clean pair and
// that a second Init after Shutdown opens a fresh writer.
func TestInitShutdownIdempotent(t *testing.T) {
	path := tempFacadePath(t)
	require.NoError(t, Init(WithFilePath(path)))
	require.NoError(t, Init(WithFilePath(path))) // no-op while already live
	require.NoError(t, Shutdown())
	require.NoError(t, Shutdown()) // no-op once torn down

	require.NoError(t, Init(WithFilePath(path)))
	defer Shutdown()
}

// TestFacadeEventsWithoutInitAreNoOps confirms the "writer never fails" rule
// from spec.md §7: every public emitter is a safe no-op before Init.
func TestFacadeEventsWithoutInitAreNoOps(t *testing.T) {
	require.NotPanics(t, func() {
		Stamp("never-initialized")
		guard := Scope("never-initialized")
		guard.End()
		Trace(InfoLevel, "msg")
		SetValue("k", "v")
		AddValue("k", 1)
	})
}

// TestScopeGuardEndIsIdempotent exercises P6: calling End twice emits the
// ScopeEndST record only once.
func TestScopeGuardEndIsIdempotent(t *testing.T) {
	path := tempFacadePath(t)
	require.NoError(t, Init(WithFilePath(path)))
	defer Shutdown()

	d := currentWriter()
	require.NotNil(t, d)

	var clock int64
	d.cfg.clock = func() int64 { clock++; return clock }

	guard := newScopeGuard(d, "region")
	guard.End()
	guard.End() // must not emit a second ScopeEndST

	require.NoError(t, d.writer.Close())

	readerFM, err := NewReaderFileMap(path)
	require.NoError(t, err)
	defer readerFM.Close()
	reader, err := NewPageReader(readerFM, nil)
	require.NoError(t, err)
	defer reader.Close()

	var funcIDs []FuncID
	for {
		result, err := reader.ReadOnce(readerFM, func(funcID FuncID, payload []byte) {
			funcIDs = append(funcIDs, funcID)
		})
		require.NoError(t, err)
		if result == ExitProgram || result == Unreaded {
			break
		}
	}

	require.Equal(t, []FuncID{ScopeBeginST, ScopeEndST}, funcIDs)
}
