package identity_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"codeberg.org/mutker/kweeb/internal/identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateGeneratesAndReuses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "device_id")

	first, err := identity.LoadOrCreate(path)
	require.NoError(t, err)
	_, err = uuid.Parse(first.String())
	require.NoError(t, err)

	second, err := identity.LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestLoadOrCreateReadsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device_id")
	require.NoError(t, os.WriteFile(path, []byte("  my-device \n"), 0o600))

	id, err := identity.LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, identity.DeviceID("my-device"), id)
}

func TestLoadOrCreateReplacesBlankFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device_id")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0o600))

	id, err := identity.LoadOrCreate(path)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, id.String()+"\n", string(data))
}

func TestLoadOrCreateEmptyPath(t *testing.T) {
	_, err := identity.LoadOrCreate("")
	assert.Error(t, err)
}
