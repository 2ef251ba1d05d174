//go:build linux || darwin

package shmlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewReaderFileMapMissingFileIsNotAnError(t *testing.T) {
	dir, err := os.MkdirTemp("", "shmlog_filemap_test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	fm, err := NewReaderFileMap(filepath.Join(dir, "does-not-exist.blog"))
	require.NoError(t, err)
	require.False(t, fm.IsValid())
}

func TestWriterFileMapOverwritesExistingFile(t *testing.T) {
	dir, err := os.MkdirTemp("", "shmlog_filemap_test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "log.blog")
	require.NoError(t, os.WriteFile(path, []byte("stale contents"), 0600))

	fm, err := NewWriterFileMap(path, LogFileSize)
	require.NoError(t, err)
	defer fm.Close()

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.EqualValues(t, LogFileSize, info.Size())
}

func TestMapViewRoundTrip(t *testing.T) {
	dir, err := os.MkdirTemp("", "shmlog_filemap_test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "log.blog")
	fm, err := NewWriterFileMap(path, LogFileSize)
	require.NoError(t, err)
	defer fm.Close()

	mem, err := fm.MapView(0, LogPageSize)
	require.NoError(t, err)
	mem[0] = 0xAB
	require.NoError(t, FlushView(mem))
	require.NoError(t, UnmapView(mem))

	reopened, err := fm.MapView(0, LogPageSize)
	require.NoError(t, err)
	defer UnmapView(reopened)
	require.Equal(t, byte(0xAB), reopened[0])
}
