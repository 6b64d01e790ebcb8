package stager

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aleister1102/snippetpatch/internal/common/errorwrapper"
	"github.com/aleister1102/snippetpatch/internal/common/filemanager"
	"github.com/aleister1102/snippetpatch/internal/config"
	"github.com/aleister1102/snippetpatch/internal/document"
	"github.com/aleister1102/snippetpatch/internal/locator"
	"github.com/aleister1102/snippetpatch/internal/models"
	"github.com/aleister1102/snippetpatch/internal/patcher"
	"github.com/aleister1102/snippetpatch/internal/reporter"
	"github.com/rs/zerolog"
)

// activeSession tracks one live staging session together with the watch
// subscription that expires it.
type activeSession struct {
	session *models.StagingSession
	// expectedText is the document content as the session left it; change
	// events echoing the session's own write carry this content and do not
	// expire the session.
	expectedText string
	cancelWatch  func()
	done         chan struct{}
}

// Manager owns the staged-edit lifecycle: snapshot the document, locate
// the snippet, synthesize the patch, apply it through the document host
// and retain the snapshot until the document changes underneath the
// session. At most one session is active per target file; staging a new
// edit tears down the previous session first. A failure at any stage
// leaves the document untouched and removes the snapshot.
type Manager struct {
	host        document.Host
	locator     *locator.Locator
	synthesizer *patcher.Synthesizer
	reporter    *reporter.DiffReporter
	fileManager *filemanager.FileManager
	guard       *MemoryGuard
	config      config.StagerConfig
	logger      zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*activeSession
	closed   bool
}

// NewManager creates a new Manager instance. The reporter may be nil, in
// which case the present stage is skipped.
func NewManager(
	cfg config.StagerConfig,
	host document.Host,
	loc *locator.Locator,
	synth *patcher.Synthesizer,
	rep *reporter.DiffReporter,
	logger zerolog.Logger,
) (*Manager, error) {
	if host == nil || loc == nil || synth == nil {
		return nil, errorwrapper.WrapError(errorwrapper.ErrInvalidConfiguration, "stager requires a document host, locator and synthesizer")
	}

	componentLogger := logger.With().Str("component", "StagingManager").Logger()
	fm := filemanager.NewFileManager(componentLogger)

	if cfg.SnapshotDir != "" {
		if err := fm.EnsureDirectory(cfg.SnapshotDir, 0o755); err != nil {
			return nil, errorwrapper.WrapError(err, "failed to prepare snapshot directory")
		}
	}

	return &Manager{
		host:        host,
		locator:     loc,
		synthesizer: synth,
		reporter:    rep,
		fileManager: fm,
		guard:       NewMemoryGuard(cfg, componentLogger),
		config:      cfg,
		logger:      componentLogger,
		sessions:    make(map[string]*activeSession),
	}, nil
}

// ApplyToFile stages and applies a snippet replacement inside the file
// named by input. On success the returned outcome carries the match, the
// patched snippet text and the snapshot path; the snapshot stays on disk
// until the document changes or the session is closed. On failure the
// document is untouched and no snapshot is left behind.
func (m *Manager) ApplyToFile(ctx context.Context, input models.ApplyInput) (*models.EditOutcome, error) {
	if err := validateApplyInput(input); err != nil {
		return nil, err
	}

	targetPath := filepath.Clean(input.FilePath)
	log := m.logger.With().Str("file", targetPath).Logger()

	docText, err := m.host.ReadDocument(ctx, targetPath)
	if err != nil {
		return nil, err
	}

	if err := m.guard.CheckDocument(len(docText)); err != nil {
		return nil, errorwrapper.WrapError(errorwrapper.ErrApplyRejected, err.Error())
	}

	match := m.locator.Locate(docText, input.OriginalSnippet, input.OffsetHint)
	if !match.Found() {
		return nil, errorwrapper.WrapError(errorwrapper.ErrSnippetNotFound, fmt.Sprintf("snippet not found in %s", targetPath))
	}

	start := match.Location
	end := start + len(input.OriginalSnippet)
	if end > len(docText) {
		end = len(docText)
	}
	matchedText := docText[start:end]

	patchResult := m.synthesizer.Reapply(matchedText, input.OriginalSnippet, input.ReplacementSnippet)
	if !patchResult.Success {
		return nil, errorwrapper.WrapError(errorwrapper.ErrPatchFailed, patchResult.ErrorMessage)
	}

	// Mutation is imminent; any prior session for this file is now stale.
	m.CloseSession(targetPath)

	session := models.NewStagingSession(targetPath)
	snapshotPath, err := m.writeSnapshot(session, docText)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to write pre-edit snapshot")
	}
	session.SnapshotPath = snapshotPath

	edit := document.RangeEdit{
		Start:       start,
		End:         end,
		Replacement: patchResult.PatchedText,
		Expected:    matchedText,
	}
	if err := m.host.ApplyEdit(ctx, targetPath, edit); err != nil {
		m.removeSnapshot(snapshotPath)
		return nil, err
	}

	editedText := docText[:start] + patchResult.PatchedText + docText[end:]

	outcome := &models.EditOutcome{
		SessionID:    session.SessionID,
		FilePath:     targetPath,
		Match:        match,
		PatchedText:  patchResult.PatchedText,
		SnapshotPath: snapshotPath,
	}

	if m.reporter != nil {
		reportPath, reportErr := m.reporter.GenerateReport(docText, editedText, targetPath, session.SessionID)
		if reportErr != nil {
			// Presentation is best-effort; the edit already landed.
			log.Warn().Err(reportErr).Msg("Failed to generate diff report")
		} else {
			outcome.ReportPath = reportPath
		}
	}

	if err := m.registerSession(session, editedText); err != nil {
		log.Warn().Err(err).Msg("Failed to watch document, releasing session eagerly")
		m.removeSnapshot(snapshotPath)
		return outcome, nil
	}

	log.Info().
		Str("session_id", session.SessionID).
		Int("location", match.Location).
		Str("strategy", string(match.Strategy)).
		Msg("Edit applied")

	return outcome, nil
}

// CloseSession tears down the active session for the given file, removing
// its snapshot and watch subscription. Closing a file with no session is a
// no-op.
func (m *Manager) CloseSession(targetFilePath string) {
	targetFilePath = filepath.Clean(targetFilePath)

	m.mu.Lock()
	active, ok := m.sessions[targetFilePath]
	if ok {
		delete(m.sessions, targetFilePath)
	}
	m.mu.Unlock()

	if !ok {
		return
	}

	active.cancelWatch()
	close(active.done)
	m.removeSnapshot(active.session.SnapshotPath)

	m.logger.Debug().
		Str("file", targetFilePath).
		Str("session_id", active.session.SessionID).
		Msg("Session closed")
}

// ActiveSession returns the live session for the given file, or nil.
func (m *Manager) ActiveSession(targetFilePath string) *models.StagingSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	if active, ok := m.sessions[filepath.Clean(targetFilePath)]; ok {
		return active.session
	}
	return nil
}

// Close tears down every active session.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	paths := make([]string, 0, len(m.sessions))
	for path := range m.sessions {
		paths = append(paths, path)
	}
	m.mu.Unlock()

	for _, path := range paths {
		m.CloseSession(path)
	}
}

// registerSession records the session and subscribes to document events.
// The first real change or remove event expires the session and its
// snapshot.
func (m *Manager) registerSession(session *models.StagingSession, expectedText string) error {
	events, cancel, err := m.host.Watch(session.TargetFilePath)
	if err != nil {
		return err
	}

	active := &activeSession{
		session:      session,
		expectedText: expectedText,
		cancelWatch:  cancel,
		done:         make(chan struct{}),
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		cancel()
		return errorwrapper.NewError("staging manager is closed")
	}
	m.sessions[session.TargetFilePath] = active
	m.mu.Unlock()

	go m.watchSession(active, events)
	return nil
}

// watchSession expires the session on the first document event that
// carries real divergence from the session's own edit.
func (m *Manager) watchSession(active *activeSession, events <-chan document.Event) {
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Type == document.EventChanged && m.documentMatchesSession(active) {
				// The session's own write echoed back through the watcher.
				continue
			}
			m.logger.Debug().
				Str("file", active.session.TargetFilePath).
				Str("event", event.Type.String()).
				Msg("Document event received, expiring session")
			m.expireSession(active)
			return
		case <-active.done:
			return
		}
	}
}

// documentMatchesSession reports whether the on-disk content still equals
// the text the session wrote.
func (m *Manager) documentMatchesSession(active *activeSession) bool {
	current, err := m.host.ReadDocument(context.Background(), active.session.TargetFilePath)
	if err != nil {
		return false
	}
	return current == active.expectedText
}

// expireSession removes the session only if it is still the registered one
// for its file; a newer session may have replaced it already.
func (m *Manager) expireSession(active *activeSession) {
	path := active.session.TargetFilePath

	m.mu.Lock()
	current, ok := m.sessions[path]
	if !ok || current != active {
		m.mu.Unlock()
		return
	}
	delete(m.sessions, path)
	m.mu.Unlock()

	active.cancelWatch()
	m.removeSnapshot(active.session.SnapshotPath)
}

// writeSnapshot persists the pre-edit document text to a temp file scoped
// by the session identifier.
func (m *Manager) writeSnapshot(session *models.StagingSession, docText string) (string, error) {
	base := filepath.Base(session.TargetFilePath)
	pattern := fmt.Sprintf("%s-%s-*.snapshot", sanitizeName(base), session.SessionID)
	return m.fileManager.CreateTempFile(m.config.SnapshotDir, pattern, []byte(docText))
}

// removeSnapshot deletes a snapshot file, tolerating its absence.
func (m *Manager) removeSnapshot(snapshotPath string) {
	if snapshotPath == "" {
		return
	}
	if err := m.fileManager.RemoveFile(snapshotPath); err != nil {
		m.logger.Warn().Err(err).Str("snapshot", snapshotPath).Msg("Failed to remove snapshot")
	}
}

func validateApplyInput(input models.ApplyInput) error {
	if strings.TrimSpace(input.FilePath) == "" {
		return errorwrapper.NewValidationError("file_path", input.FilePath, "file path is required")
	}
	if input.OriginalSnippet == "" {
		return errorwrapper.NewValidationError("original_snippet", input.OriginalSnippet, "original snippet is required")
	}
	return nil
}

// sanitizeName strips path-hostile characters from a file name so it can
// be embedded in a temp file pattern.
func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '*', '?', '/', '\\', ':':
			return '_'
		}
		return r
	}, name)
}
