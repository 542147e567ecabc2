package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.lock")
	l := New(path)

	acquired, err := l.Acquire()
	require.NoError(t, err, "Should acquire a free lock")
	assert.True(t, acquired)
	assert.True(t, l.Held())

	// Marker file records the holder's PID.
	data, err := os.ReadFile(path)
	require.NoError(t, err, "Marker file should exist while held")
	pid, err := strconv.Atoi(string(data))
	require.NoError(t, err, "Marker content should be a PID")
	assert.Equal(t, os.Getpid(), pid)

	require.NoError(t, l.Release())
	assert.False(t, l.Held())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "Marker file should be removed on release")
}

func TestMutualExclusionSamePath(t *testing.T) {
	// Two handles on the same path conflict even within one process,
	// because each holds its own descriptor.
	path := filepath.Join(t.TempDir(), "job.lock")
	first := New(path)
	second := New(path)

	acquired, err := first.Acquire()
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, err = second.Acquire()
	require.NoError(t, err, "Contention is an outcome, not an error")
	assert.False(t, acquired, "Second handle must not acquire a held lock")
	assert.False(t, second.Held())

	// Releasing the first frees the path for the second.
	require.NoError(t, first.Release())

	acquired, err = second.Acquire()
	require.NoError(t, err)
	assert.True(t, acquired, "Lock is reacquirable after release")
	require.NoError(t, second.Release())
}

func TestIndependentPaths(t *testing.T) {
	dir := t.TempDir()
	ingest := New(filepath.Join(dir, "ingest.lock"))
	audit := New(filepath.Join(dir, "audit.lock"))

	acquired, err := ingest.Acquire()
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, err = audit.Acquire()
	require.NoError(t, err)
	assert.True(t, acquired, "Different paths are independent locks")

	require.NoError(t, ingest.Release())
	require.NoError(t, audit.Release())
}

func TestDoubleAcquireSameHandle(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "job.lock"))

	acquired, err := l.Acquire()
	require.NoError(t, err)
	require.True(t, acquired)
	defer l.Release()

	_, err = l.Acquire()
	require.Error(t, err, "Re-acquiring through the same handle is a programming error")
}

func TestReleaseWithoutAcquire(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "job.lock"))
	assert.NoError(t, l.Release(), "Release on an unacquired lock is a no-op")
}

func TestAcquireCreatesLockDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "job.lock")
	l := New(path)

	acquired, err := l.Acquire()
	require.NoError(t, err, "Missing parent directories are created")
	assert.True(t, acquired)
	require.NoError(t, l.Release())
}

func TestWithLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.lock")
	l := New(path)

	ran, err := l.WithLock(func() error { return nil })
	require.NoError(t, err)
	assert.True(t, ran)
	assert.False(t, l.Held(), "Lock is released after fn returns")

	// fn errors propagate; the lock is still released.
	ran, err = l.WithLock(func() error { return fmt.Errorf("job failed") })
	require.Error(t, err)
	assert.True(t, ran, "fn ran even though it failed")
	assert.False(t, l.Held())

	// Contended lock: fn never runs.
	other := New(path)
	acquired, err := other.Acquire()
	require.NoError(t, err)
	require.True(t, acquired)
	defer other.Release()

	called := false
	ran, err = l.WithLock(func() error { called = true; return nil })
	require.NoError(t, err)
	assert.False(t, ran, "Contended WithLock reports false")
	assert.False(t, called, "fn must not run without the lock")
}
