package stager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aleister1102/snippetpatch/internal/common/errorwrapper"
	"github.com/aleister1102/snippetpatch/internal/config"
	"github.com/aleister1102/snippetpatch/internal/document"
	"github.com/aleister1102/snippetpatch/internal/locator"
	"github.com/aleister1102/snippetpatch/internal/models"
	"github.com/aleister1102/snippetpatch/internal/patcher"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addFunctionDoc = "function add(a, b) {\n  return a + b;\n}\n"

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()

	logger := zerolog.Nop()
	snapshotDir := t.TempDir()

	host, err := document.NewFileHost(logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = host.Close() })

	cfg := config.NewDefaultStagerConfig()
	cfg.SnapshotDir = snapshotDir

	manager, err := NewManager(
		cfg,
		host,
		locator.NewLocator(config.NewDefaultLocatorConfig(), logger),
		patcher.NewSynthesizer(config.NewDefaultPatcherConfig(), logger),
		nil,
		logger,
	)
	require.NoError(t, err)
	t.Cleanup(manager.Close)

	return manager, snapshotDir
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func snapshotCount(t *testing.T, snapshotDir string) int {
	t.Helper()
	entries, err := os.ReadDir(snapshotDir)
	require.NoError(t, err)
	return len(entries)
}

func TestManager_ApplyToFile_Success(t *testing.T) {
	manager, snapshotDir := newTestManager(t)
	targetPath := writeTestFile(t, t.TempDir(), "add.js", addFunctionDoc)

	outcome, err := manager.ApplyToFile(context.Background(), models.ApplyInput{
		FilePath:           targetPath,
		OriginalSnippet:    "return a + b;",
		ReplacementSnippet: "return a - b;",
	})
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.Equal(t, 23, outcome.Match.Location)
	assert.Equal(t, models.StrategyExact, outcome.Match.Strategy)
	assert.Equal(t, "return a - b;", outcome.PatchedText)
	assert.NotEmpty(t, outcome.SessionID)

	edited, err := os.ReadFile(targetPath)
	require.NoError(t, err)
	assert.Equal(t, "function add(a, b) {\n  return a - b;\n}\n", string(edited))

	snapshot, err := os.ReadFile(outcome.SnapshotPath)
	require.NoError(t, err)
	assert.Equal(t, addFunctionDoc, string(snapshot), "snapshot must hold the pre-edit text")
	assert.Equal(t, 1, snapshotCount(t, snapshotDir))

	session := manager.ActiveSession(targetPath)
	require.NotNil(t, session)
	assert.Equal(t, outcome.SessionID, session.SessionID)
}

func TestManager_ApplyToFile_RestoresLostIndentation(t *testing.T) {
	manager, _ := newTestManager(t)
	targetPath := writeTestFile(t, t.TempDir(), "add.js", addFunctionDoc)

	outcome, err := manager.ApplyToFile(context.Background(), models.ApplyInput{
		FilePath:           targetPath,
		OriginalSnippet:    "  return a + b;",
		ReplacementSnippet: "return a * b;",
	})
	require.NoError(t, err)

	assert.Equal(t, "  return a * b;", outcome.PatchedText)

	edited, err := os.ReadFile(targetPath)
	require.NoError(t, err)
	assert.Equal(t, "function add(a, b) {\n  return a * b;\n}\n", string(edited))
}

func TestManager_ApplyToFile_MissingFileLeavesNoSnapshot(t *testing.T) {
	manager, snapshotDir := newTestManager(t)
	missingPath := filepath.Join(t.TempDir(), "absent.js")

	outcome, err := manager.ApplyToFile(context.Background(), models.ApplyInput{
		FilePath:           missingPath,
		OriginalSnippet:    "return a + b;",
		ReplacementSnippet: "return a - b;",
	})
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.True(t, errors.Is(err, errorwrapper.ErrFileMissing))
	assert.Equal(t, 0, snapshotCount(t, snapshotDir))
}

func TestManager_ApplyToFile_SnippetNotFoundLeavesDocumentUntouched(t *testing.T) {
	manager, snapshotDir := newTestManager(t)
	targetPath := writeTestFile(t, t.TempDir(), "add.js", addFunctionDoc)

	outcome, err := manager.ApplyToFile(context.Background(), models.ApplyInput{
		FilePath:           targetPath,
		OriginalSnippet:    "return x / y;",
		ReplacementSnippet: "return x * y;",
	})
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.True(t, errors.Is(err, errorwrapper.ErrSnippetNotFound))

	content, readErr := os.ReadFile(targetPath)
	require.NoError(t, readErr)
	assert.Equal(t, addFunctionDoc, string(content))
	assert.Equal(t, 0, snapshotCount(t, snapshotDir))
}

func TestManager_ApplyToFile_ValidatesInput(t *testing.T) {
	manager, _ := newTestManager(t)

	_, err := manager.ApplyToFile(context.Background(), models.ApplyInput{
		FilePath:        "",
		OriginalSnippet: "x",
	})
	require.Error(t, err)

	_, err = manager.ApplyToFile(context.Background(), models.ApplyInput{
		FilePath:        "/tmp/whatever.js",
		OriginalSnippet: "",
	})
	require.Error(t, err)
}

func TestManager_NewSessionReplacesPrevious(t *testing.T) {
	manager, snapshotDir := newTestManager(t)
	targetPath := writeTestFile(t, t.TempDir(), "add.js", addFunctionDoc)

	first, err := manager.ApplyToFile(context.Background(), models.ApplyInput{
		FilePath:           targetPath,
		OriginalSnippet:    "return a + b;",
		ReplacementSnippet: "return a - b;",
	})
	require.NoError(t, err)

	second, err := manager.ApplyToFile(context.Background(), models.ApplyInput{
		FilePath:           targetPath,
		OriginalSnippet:    "return a - b;",
		ReplacementSnippet: "return a * b;",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.SessionID, second.SessionID)

	// The first snapshot is released when the second session opens. The
	// second may also expire shortly after, because its own apply shows up
	// as a change event; either way the first snapshot must be gone.
	assert.Eventually(t, func() bool {
		_, statErr := os.Stat(first.SnapshotPath)
		return os.IsNotExist(statErr)
	}, 3*time.Second, 20*time.Millisecond)

	session := manager.ActiveSession(targetPath)
	if session != nil {
		assert.Equal(t, second.SessionID, session.SessionID)
	}

	assert.LessOrEqual(t, snapshotCount(t, snapshotDir), 1)
}

func TestManager_ExternalChangeExpiresSession(t *testing.T) {
	manager, _ := newTestManager(t)
	targetPath := writeTestFile(t, t.TempDir(), "add.js", addFunctionDoc)

	outcome, err := manager.ApplyToFile(context.Background(), models.ApplyInput{
		FilePath:           targetPath,
		OriginalSnippet:    "return a + b;",
		ReplacementSnippet: "return a - b;",
	})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(targetPath, []byte("// rewritten\n"), 0o644))

	assert.Eventually(t, func() bool {
		_, statErr := os.Stat(outcome.SnapshotPath)
		return os.IsNotExist(statErr) && manager.ActiveSession(targetPath) == nil
	}, 3*time.Second, 20*time.Millisecond)
}

func TestManager_CloseSessionRemovesSnapshot(t *testing.T) {
	manager, snapshotDir := newTestManager(t)
	targetPath := writeTestFile(t, t.TempDir(), "add.js", addFunctionDoc)

	outcome, err := manager.ApplyToFile(context.Background(), models.ApplyInput{
		FilePath:           targetPath,
		OriginalSnippet:    "return a + b;",
		ReplacementSnippet: "return a - b;",
	})
	require.NoError(t, err)

	manager.CloseSession(targetPath)

	assert.Nil(t, manager.ActiveSession(targetPath))
	assert.NoFileExists(t, outcome.SnapshotPath)
	assert.Equal(t, 0, snapshotCount(t, snapshotDir))

	// Closing again is a no-op.
	manager.CloseSession(targetPath)
}

func TestMemoryGuard_RejectsOversizedDocument(t *testing.T) {
	cfg := config.NewDefaultStagerConfig()
	cfg.MaxDocumentSizeMB = 1
	guard := NewMemoryGuard(cfg, zerolog.Nop())

	assert.NoError(t, guard.CheckDocument(512*1024))
	assert.Error(t, guard.CheckDocument(2*1024*1024))
}
