package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLock_ExclusiveWithinProcess(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")

	first := NewBuildLock(dir)
	require.NoError(t, first.TryLock())
	assert.True(t, first.IsLocked())
	assert.Equal(t, filepath.Join(dir, ".build.lock"), first.Path())

	// flock locks are per file descriptor, so a second handle contends.
	second := NewBuildLock(dir)
	err := second.TryLock()
	assert.ErrorIs(t, err, ErrBuildLocked)
	assert.False(t, second.IsLocked())

	require.NoError(t, first.Unlock())
	require.NoError(t, second.TryLock())
	require.NoError(t, second.Unlock())
	require.NoError(t, second.Unlock(), "unlock is idempotent")
}
