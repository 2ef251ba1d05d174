//go:build linux || darwin

package shmlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func tempLogPath(t *testing.T) string {
	dir, err := os.MkdirTemp("", "shmlog_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "test.blog")
}

// TestPageWriterWriteLockUnlockRoundTrip runs one WriteLock/WriteUnlock
// bracket through a real mmap'd file and checks that bufferOffset advances
// past the page header, the unit header and the aligned payload.
func TestPageWriterWriteLockUnlockRoundTrip(t *testing.T) {
	path := tempLogPath(t)
	fm, err := NewWriterFileMap(path, LogFileSize)
	require.NoError(t, err)
	defer fm.Close()

	w := NewPageWriter(nil, nil)
	defer w.Close()

	name := "checkpoint"
	payload, err := w.WriteLock(fm, StampST, ST64PayloadSize(name))
	require.NoError(t, err)
	EncodeST64(payload, name, 42)
	require.NoError(t, w.WriteUnlock(payload))

	require.Equal(t, uint32(PageHeaderSize+UnitHeaderSize)+ST64PayloadSize(name), w.bufferOffset)
}

// TestPageWriterPageReaderRoundTrip writes several differently-shaped
// records and confirms a PageReader opened against the same file decodes
// them back in write order (P5, P1 alignment).
func TestPageWriterPageReaderRoundTrip(t *testing.T) {
	path := tempLogPath(t)
	fm, err := NewWriterFileMap(path, LogFileSize)
	require.NoError(t, err)
	defer fm.Close()

	w := NewPageWriter(nil, nil)

	type record struct {
		funcID FuncID
		s1, s2 string
		v32    int32
		v64    int64
	}
	records := []record{
		{funcID: ScopeBeginST, s1: "scope-a", v64: 100},
		{funcID: TraceST, s1: "trace message", v32: int32(InfoLevel)},
		{funcID: SetValueSS, s1: "name", s2: "value"},
		{funcID: AddValueST, s1: "counter", v32: 7},
		{funcID: ScopeEndST, s1: "scope-a", v64: 200},
	}

	for _, r := range records {
		var size uint32
		switch r.funcID {
		case SetValueSS:
			size = SSPayloadSize(r.s1, r.s2)
		case TraceST, AddValueST:
			size = ST32PayloadSize(r.s1)
		default:
			size = ST64PayloadSize(r.s1)
		}
		payload, err := w.WriteLock(fm, r.funcID, size)
		require.NoError(t, err)
		switch r.funcID {
		case SetValueSS:
			EncodeSS(payload, r.s1, r.s2)
		case TraceST, AddValueST:
			EncodeST32(payload, r.s1, r.v32)
		default:
			EncodeST64(payload, r.s1, r.v64)
		}
		require.NoError(t, w.WriteUnlock(payload))
	}
	require.NoError(t, w.Close())

	readerFM, err := NewReaderFileMap(path)
	require.NoError(t, err)
	require.True(t, readerFM.IsValid())
	defer readerFM.Close()

	reader, err := NewPageReader(readerFM, nil)
	require.NoError(t, err)
	defer reader.Close()

	var got []record
	for {
		result, err := reader.ReadOnce(readerFM, func(funcID FuncID, payload []byte) {
			r := record{funcID: funcID}
			switch funcID {
			case SetValueSS:
				r.s1, payload = ParseString(payload)
				r.s2, _ = ParseString(payload)
			case TraceST, AddValueST:
				r.s1, payload = ParseString(payload)
				r.v32, _ = ParseInt32(payload)
			default:
				r.s1, payload = ParseString(payload)
				r.v64, _ = ParseInt64(payload)
			}
			got = append(got, r)
		})
		require.NoError(t, err)
		if result == ExitProgram || result == Unreaded {
			break
		}
	}

	require.Equal(t, records, got)
}

// TestPageWriterRotatesOnFullPage exercises P2 (page bound) and P3 (at most
// one active page): filling a page forces a rotation that closes the old
// page ('-') before the new one opens ('+').
func TestPageWriterRotatesOnFullPage(t *testing.T) {
	path := tempLogPath(t)
	fm, err := NewWriterFileMap(path, LogFileSize)
	require.NoError(t, err)
	defer fm.Close()

	w := NewPageWriter(nil, nil)
	defer w.Close()

	name := "x"
	size := ST32PayloadSize(name)
	for w.pageOffset == 0 {
		payload, err := w.WriteLock(fm, AddValueST, size)
		require.NoError(t, err)
		EncodeST32(payload, name, 1)
		require.NoError(t, w.WriteUnlock(payload))
		require.LessOrEqual(t, int(w.bufferOffset), LogPageSize)
	}
	require.Equal(t, uint32(1), w.pageOffset)

	closedPage, err := fm.MapView(0, LogPageSize)
	require.NoError(t, err)
	defer UnmapView(closedPage)
	require.Equal(t, ActivityClosed, GetPageHeader(closedPage).Activity)

	livePage, err := fm.MapView(LogPageSize, LogPageSize)
	require.NoError(t, err)
	defer UnmapView(livePage)
	require.Equal(t, ActivityInProgress, GetPageHeader(livePage).Activity)
}

// TestPageWriterRingWrap exercises P7 (ring wrap): once pageOffset reaches
// the last page, the next rotation wraps back to page 0. Driving pageOffset
// to the ring's tail directly (white-box) avoids writing 80 real pages of
// filler in a unit test.
func TestPageWriterRingWrap(t *testing.T) {
	path := tempLogPath(t)
	fm, err := NewWriterFileMap(path, LogFileSize)
	require.NoError(t, err)
	defer fm.Close()

	w := NewPageWriter(nil, nil)
	defer w.Close()

	// Jump straight to the ring's last page instead of writing LogPageCount-1
	// pages of filler: drop the current mapping and let WriteLock's own
	// validPage path (buffer == nil) map the last page fresh.
	payload, err := w.WriteLock(fm, StampST, ST64PayloadSize("warm-up"))
	require.NoError(t, err)
	EncodeST64(payload, "warm-up", 0)
	require.NoError(t, w.WriteUnlock(payload))

	require.NoError(t, w.rewriteHeader(ActivityClosed, w.bufferOffset))
	require.NoError(t, UnmapView(w.buffer))
	w.buffer = nil
	w.bufferOffset = 0
	w.pageOffset = LogPageCount - 1

	payload, err = w.WriteLock(fm, StampST, ST64PayloadSize("last-page"))
	require.NoError(t, err)
	EncodeST64(payload, "last-page", 0)
	require.NoError(t, w.WriteUnlock(payload))
	require.Equal(t, uint32(LogPageCount-1), w.pageOffset)

	// Fill the remainder of the real last page to force a real rotation.
	name := "filler"
	size := ST32PayloadSize(name)
	for w.pageOffset == LogPageCount-1 {
		payload, err := w.WriteLock(fm, AddValueST, size)
		require.NoError(t, err)
		EncodeST32(payload, name, 1)
		require.NoError(t, w.WriteUnlock(payload))
	}
	require.Equal(t, uint32(0), w.pageOffset)
}
