package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func waitForEvent(t *testing.T, events <-chan FileEvent, timeout time.Duration) FileEvent {
	t.Helper()
	select {
	case event, ok := <-events:
		require.True(t, ok, "event channel closed early")
		return event
	case <-time.After(timeout):
		t.Fatal("timed out waiting for file event")
		return FileEvent{}
	}
}

func TestFileWatcherEmitsActivityFileEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	fw, err := NewFileWatcher(dir)
	require.NoError(t, err)
	defer fw.Close()

	path := filepath.Join(dir, "ride.gpx")
	require.NoError(t, os.WriteFile(path, []byte("<gpx/>"), 0o644))

	event := waitForEvent(t, fw.Events(), 2*time.Second)
	assert.Equal(t, path, event.Path)
	assert.NotEmpty(t, event.Operation)
}

func TestFileWatcherIgnoresNonActivityFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	fw, err := NewFileWatcher(dir)
	require.NoError(t, err)
	defer fw.Close()

	// Events are delivered in order, so if notes.txt slipped through it
	// would arrive before the activity file.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	fitPath := filepath.Join(dir, "ride.fit")
	require.NoError(t, os.WriteFile(fitPath, []byte{0x0e}, 0o644))

	event := waitForEvent(t, fw.Events(), 2*time.Second)
	assert.Equal(t, fitPath, event.Path)
}

func TestFileWatcherWatchesNewSubdirectories(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	fw, err := NewFileWatcher(dir)
	require.NoError(t, err)
	defer fw.Close()

	subDir := filepath.Join(dir, "2024")
	require.NoError(t, os.Mkdir(subDir, 0o755))

	// Give the watcher a moment to register the new directory.
	time.Sleep(300 * time.Millisecond)

	path := filepath.Join(subDir, "run.fit.gz")
	require.NoError(t, os.WriteFile(path, []byte{0x1f, 0x8b}, 0o644))

	event := waitForEvent(t, fw.Events(), 2*time.Second)
	assert.Equal(t, path, event.Path)
}

func TestFileWatcherMissingRootFails(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, err := NewFileWatcher(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestFileWatcherCloseClosesEventChannel(t *testing.T) {
	defer goleak.VerifyNone(t)

	fw, err := NewFileWatcher(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, fw.Close())

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-fw.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("event channel did not close after Close")
		}
	}
}
