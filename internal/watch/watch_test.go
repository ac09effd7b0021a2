package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "metro.geojson")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(data, []byte("{}"), 0o644))

	batches := make(chan []string, 10)
	w, err := New([]string{data, ""}, func(p []string) { batches <- p }, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(data, []byte("{\"n\":1}"), 0o644))
	}
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))

	abs, _ := filepath.Abs(data)
	select {
	case got := <-batches:
		assert.Equal(t, []string{abs}, got)
	case <-time.After(3 * time.Second):
		t.Fatal("no batch delivered")
	}

	select {
	case got := <-batches:
		t.Fatalf("unexpected second batch %v", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherStop(t *testing.T) {
	w, err := New([]string{filepath.Join(t.TempDir(), "data.yaml")}, nil)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()
	w.Stop()
	w.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}

func TestNewFailsOnMissingDirectory(t *testing.T) {
	_, err := New([]string{"/does/not/exist/data.yaml"}, nil)
	assert.Error(t, err)
}
