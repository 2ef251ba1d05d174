//go:build linux

package shmlog

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestCompanionLauncherLaunchAndKill launches a short-lived process and
// confirms that Launch and a Kill by executable path substring both return
// without error.
func TestCompanionLauncherLaunchAndKill(t *testing.T) {
	sleep, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep binary not available")
	}

	l := NewCompanionLauncher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, l.Launch(ctx, sleep, "5"))
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, l.Kill("sleep", true))
}
