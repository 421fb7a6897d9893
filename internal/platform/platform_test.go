package platform

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestVersionGates verifies the boundaries of both permission gates.
func TestVersionGates(t *testing.T) {
	t.Parallel()

	require.False(t, ExactAlarmsRestricted(30))
	require.True(t, ExactAlarmsRestricted(31))
	require.False(t, FullScreenRestricted(33))
	require.True(t, FullScreenRestricted(34))
}

// TestProcessRunning finds the test binary itself and misses a bogus name.
func TestProcessRunning(t *testing.T) {
	t.Parallel()

	self, err := os.Executable()
	require.NoError(t, err)

	running, err := ProcessRunning(filepath.Base(self))
	require.NoError(t, err)
	require.True(t, running)

	running, err = ProcessRunning("definitely-not-a-running-surface")
	require.NoError(t, err)
	require.False(t, running)

	running, err = ProcessRunning("")
	require.NoError(t, err)
	require.False(t, running)
}

// TestExecRunner_EmptyCommand rejects empty argv for both modes.
func TestExecRunner_EmptyCommand(t *testing.T) {
	t.Parallel()

	r := NewExecRunner()
	require.Error(t, r.Start(context.Background(), nil, nil))
	require.Error(t, r.Run(context.Background(), []string{}, nil))
}

// TestExecRunner_Run reports failures of the started process.
func TestExecRunner_Run(t *testing.T) {
	t.Parallel()

	r := NewExecRunner()
	require.Error(t, r.Run(context.Background(), []string{"/nonexistent/alarm-bridge-helper"}, nil))
}
