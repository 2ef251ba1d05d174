//go:build linux && (amd64 || arm64)

package shmlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestFutexSemaphoreUnlockWakesLock confirms the default Semaphore models a
// binary lock: Lock blocks until another goroutine calls Unlock.
func TestFutexSemaphoreUnlockWakesLock(t *testing.T) {
	dir, err := os.MkdirTemp("", "shmlog_sem_test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	sem, err := DefaultSemaphoreFactory("test-valid-key")
	require.NoError(t, err)
	defer sem.Close()

	unlocked := make(chan struct{})
	go func() {
		time.Sleep(20 * time.Millisecond)
		require.NoError(t, sem.Unlock())
		close(unlocked)
	}()

	require.NoError(t, sem.Lock())
	<-unlocked
}

func TestSemaphorePathIsScopedToName(t *testing.T) {
	require.Equal(t, "./my-sem.sem", semaphorePath("my-sem"))
	require.NotEqual(t, filepath.Base(semaphorePath("a")), filepath.Base(semaphorePath("b")))
}
