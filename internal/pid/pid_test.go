package pid_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"

	"codeberg.org/mutker/kweeb/internal/errors"
	"codeberg.org/mutker/kweeb/internal/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kweeb.pid")

	require.NoError(t, pid.Write(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))

	// rewriting our own pid is allowed
	require.NoError(t, pid.Write(path))

	require.NoError(t, pid.Remove(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, pid.Remove(path))
}

func TestWriteReplacesStaleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kweeb.pid")

	cmd := exec.Command(os.Args[0], "-test.run=^$")
	require.NoError(t, cmd.Run())
	dead := cmd.Process.Pid

	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(dead)), 0o600))
	require.NoError(t, pid.Write(path))

	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))
	require.NoError(t, pid.Write(path))
}

func TestWriteDetectsRunningInstance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kweeb.pid")

	cmd := exec.Command(os.Args[0], "-test.run=TestHelperSleep")
	cmd.Env = append(os.Environ(), "KWEEB_PID_HELPER=1")
	stdin, err := cmd.StdinPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		stdin.Close()
		_ = cmd.Wait()
	})

	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(cmd.Process.Pid)), 0o600))

	err = pid.Write(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))
}

// TestHelperSleep blocks until stdin closes when run as a helper process.
func TestHelperSleep(t *testing.T) {
	if os.Getenv("KWEEB_PID_HELPER") != "1" {
		t.Skip("helper process only")
	}
	buf := make([]byte, 1)
	_, _ = os.Stdin.Read(buf)
}
