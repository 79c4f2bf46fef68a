package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReportsDebouncedChange(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "car.glb")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(model, []byte("v1"), 0o644))

	fw, err := New(50 * time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()
	require.NoError(t, fw.Watch(model))

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(model, []byte("v2"), 0o644))
	}
	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))

	want, err := filepath.Abs(model)
	require.NoError(t, err)

	select {
	case got := <-fw.Changes():
		assert.Equal(t, want, got)
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case got := <-fw.Changes():
		t.Fatalf("unexpected second change: %s", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestUnwatch(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "car.glb")
	require.NoError(t, os.WriteFile(model, []byte("v1"), 0o644))

	fw, err := New(10 * time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, fw.Watch(model))
	require.NoError(t, fw.Watch(model))
	require.NoError(t, fw.Unwatch(model))
	require.NoError(t, fw.Unwatch(model))

	require.NoError(t, os.WriteFile(model, []byte("v2"), 0o644))
	select {
	case got := <-fw.Changes():
		t.Fatalf("unwatched file reported: %s", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestCloseTwice(t *testing.T) {
	fw, err := New(time.Millisecond)
	require.NoError(t, err)
	assert.NoError(t, fw.Close())
	assert.NoError(t, fw.Close())
}
