package file

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_PlainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.log")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\n"), 0o644))

	ch, err := Read(context.Background(), path)
	require.NoError(t, err)

	var lines []string
	for l := range ch {
		lines = append(lines, l.Text)
		assert.Equal(t, path, l.Source)
	}
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestRead_GzipFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "compressed.log.gz")

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte("x\ny\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	ch, err := Read(context.Background(), path)
	require.NoError(t, err)

	var lines []string
	for l := range ch {
		lines = append(lines, l.Text)
	}
	assert.Equal(t, []string{"x", "y"}, lines)
}

func TestRead_MissingArgsErrors(t *testing.T) {
	_, err := Read(context.Background())
	assert.Error(t, err)
}

func TestRead_CancelledContextStopsEarly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.log")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch, err := Read(ctx, path)
	require.NoError(t, err)

	select {
	case _, ok := <-ch:
		_ = ok
	case <-time.After(time.Second):
		t.Fatal("expected channel to close promptly after cancellation")
	}
}
