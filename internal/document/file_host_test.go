package document

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aleister1102/snippetpatch/internal/common/errorwrapper"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHost(t *testing.T) *FileHost {
	t.Helper()

	host, err := NewFileHost(zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = host.Close() })

	return host
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFileHost_ReadDocument(t *testing.T) {
	host := newTestHost(t)
	path := writeTestFile(t, t.TempDir(), "main.go", "package main\n")

	content, err := host.ReadDocument(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "package main\n", content)
}

func TestFileHost_ReadDocumentMissingFile(t *testing.T) {
	host := newTestHost(t)

	_, err := host.ReadDocument(context.Background(), filepath.Join(t.TempDir(), "missing.go"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, errorwrapper.ErrFileMissing))
}

func TestFileHost_ApplyEditReplacesRange(t *testing.T) {
	host := newTestHost(t)
	path := writeTestFile(t, t.TempDir(), "add.js", "function add(a, b) {\n  return a + b;\n}\n")

	err := host.ApplyEdit(context.Background(), path, RangeEdit{
		Start:       23,
		End:         23 + len("return a + b;"),
		Replacement: "return a + b + 1;",
		Expected:    "return a + b;",
	})
	require.NoError(t, err)

	content, err := host.ReadDocument(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "function add(a, b) {\n  return a + b + 1;\n}\n", content)
}

func TestFileHost_ApplyEditRejectsOutOfBounds(t *testing.T) {
	host := newTestHost(t)
	path := writeTestFile(t, t.TempDir(), "short.txt", "tiny")

	err := host.ApplyEdit(context.Background(), path, RangeEdit{
		Start:       0,
		End:         100,
		Replacement: "anything",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errorwrapper.ErrApplyRejected))

	content, readErr := host.ReadDocument(context.Background(), path)
	require.NoError(t, readErr)
	assert.Equal(t, "tiny", content)
}

func TestFileHost_ApplyEditRejectsExpectationMismatch(t *testing.T) {
	host := newTestHost(t)
	path := writeTestFile(t, t.TempDir(), "drift.txt", "the document has drifted since locate")

	err := host.ApplyEdit(context.Background(), path, RangeEdit{
		Start:       0,
		End:         3,
		Replacement: "a",
		Expected:    "not-the",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errorwrapper.ErrApplyRejected))
}

func TestFileHost_ApplyEditRespectsContextCancellation(t *testing.T) {
	host := newTestHost(t)
	path := writeTestFile(t, t.TempDir(), "ctx.txt", "content")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := host.ApplyEdit(ctx, path, RangeEdit{Start: 0, End: 1, Replacement: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileHost_WatchDeliversChangeEvents(t *testing.T) {
	host := newTestHost(t)
	dir := t.TempDir()
	path := writeTestFile(t, dir, "watched.txt", "before")

	events, cancel, err := host.Watch(path)
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, os.WriteFile(path, []byte("after"), 0644))

	select {
	case event := <-events:
		assert.Equal(t, EventChanged, event.Type)
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change event")
	}
}

func TestFileHost_WatchDeliversRemoveEvents(t *testing.T) {
	host := newTestHost(t)
	dir := t.TempDir()
	path := writeTestFile(t, dir, "doomed.txt", "content")

	events, cancel, err := host.Watch(path)
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, os.Remove(path))

	select {
	case event := <-events:
		assert.Equal(t, EventRemoved, event.Type)
	case <-time.After(3 * time.Second):
		t.Fatal("expected a remove event")
	}
}
