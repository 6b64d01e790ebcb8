package document

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/aleister1102/snippetpatch/internal/common/errorwrapper"
	"github.com/aleister1102/snippetpatch/internal/common/filemanager"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// FileHost is a filesystem-backed document host. Edits are applied with a
// write-to-temp-then-rename so readers never observe a partially written
// document, and a per-path subscriber registry fans fsnotify events out to
// watchers.
type FileHost struct {
	fileManager *filemanager.FileManager
	logger      zerolog.Logger
	watcher     *fsnotify.Watcher

	mu          sync.Mutex
	subscribers map[string][]chan Event
	watchCounts map[string]int
	closed      bool
	done        chan struct{}
}

// NewFileHost creates a new FileHost instance
func NewFileHost(logger zerolog.Logger) (*FileHost, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create filesystem watcher")
	}

	componentLogger := logger.With().Str("component", "FileHost").Logger()

	fh := &FileHost{
		fileManager: filemanager.NewFileManager(componentLogger),
		logger:      componentLogger,
		watcher:     watcher,
		subscribers: make(map[string][]chan Event),
		watchCounts: make(map[string]int),
		done:        make(chan struct{}),
	}

	go fh.dispatchLoop()

	return fh, nil
}

// ReadDocument returns the full text of the document at path.
func (fh *FileHost) ReadDocument(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := fh.fileManager.ReadFile(path, filemanager.DefaultFileReadOptions())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ApplyEdit atomically replaces a range of the document. The edit is
// validated against the current on-disk content: out-of-bounds ranges and
// expectation mismatches are rejected without touching the document.
func (fh *FileHost) ApplyEdit(ctx context.Context, path string, edit RangeEdit) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content, err := fh.ReadDocument(ctx, path)
	if err != nil {
		return err
	}

	if err := validateRange(edit, len(content)); err != nil {
		return errorwrapper.WrapError(errorwrapper.ErrApplyRejected, err.Error())
	}

	if edit.Expected != "" && content[edit.Start:edit.End] != edit.Expected {
		return errorwrapper.WrapError(errorwrapper.ErrApplyRejected,
			fmt.Sprintf("document content at [%d, %d) no longer matches the located snippet", edit.Start, edit.End))
	}

	patched := content[:edit.Start] + edit.Replacement + content[edit.End:]

	opts := filemanager.DefaultFileWriteOptions()
	opts.CreateDirs = false
	if err := fh.fileManager.WriteFile(path, []byte(patched), opts); err != nil {
		return errorwrapper.WrapError(errorwrapper.ErrApplyRejected, err.Error())
	}

	fh.logger.Debug().
		Str("path", path).
		Int("start", edit.Start).
		Int("end", edit.End).
		Int("replacement_len", len(edit.Replacement)).
		Msg("Applied range edit")
	return nil
}

// Watch subscribes to change/remove events for path.
func (fh *FileHost) Watch(path string) (<-chan Event, func(), error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, errorwrapper.WrapError(err, "failed to resolve watch path: "+path)
	}

	fh.mu.Lock()
	defer fh.mu.Unlock()

	if fh.closed {
		return nil, nil, errorwrapper.NewError("document host is closed")
	}

	// fsnotify watches the parent directory so remove/rename events for
	// the file itself are still delivered.
	dir := filepath.Dir(absPath)
	if fh.watchCounts[dir] == 0 {
		if err := fh.watcher.Add(dir); err != nil {
			return nil, nil, errorwrapper.WrapError(err, "failed to watch directory: "+dir)
		}
	}
	fh.watchCounts[dir]++

	ch := make(chan Event, 16)
	fh.subscribers[absPath] = append(fh.subscribers[absPath], ch)

	cancel := func() {
		fh.mu.Lock()
		defer fh.mu.Unlock()
		fh.removeSubscriberLocked(absPath, dir, ch)
	}

	return ch, cancel, nil
}

// Close releases the watcher and all subscriber channels.
func (fh *FileHost) Close() error {
	fh.mu.Lock()
	if fh.closed {
		fh.mu.Unlock()
		return nil
	}
	fh.closed = true
	close(fh.done)
	fh.mu.Unlock()

	err := fh.watcher.Close()

	fh.mu.Lock()
	for path, channels := range fh.subscribers {
		for _, ch := range channels {
			close(ch)
		}
		delete(fh.subscribers, path)
	}
	fh.mu.Unlock()

	return err
}

// dispatchLoop maps fsnotify events onto document events and fans them out
// to the matching subscribers.
func (fh *FileHost) dispatchLoop() {
	for {
		select {
		case <-fh.done:
			return
		case fsEvent, ok := <-fh.watcher.Events:
			if !ok {
				return
			}
			fh.dispatchEvent(fsEvent)
		case watchErr, ok := <-fh.watcher.Errors:
			if !ok {
				return
			}
			fh.logger.Warn().Err(watchErr).Msg("Filesystem watcher error")
		}
	}
}

// dispatchEvent forwards one fsnotify event to subscribers of the path.
func (fh *FileHost) dispatchEvent(fsEvent fsnotify.Event) {
	var eventType EventType
	switch {
	case fsEvent.Op.Has(fsnotify.Write) || fsEvent.Op.Has(fsnotify.Create):
		eventType = EventChanged
	case fsEvent.Op.Has(fsnotify.Remove) || fsEvent.Op.Has(fsnotify.Rename):
		eventType = EventRemoved
	default:
		return
	}

	absPath, err := filepath.Abs(fsEvent.Name)
	if err != nil {
		absPath = fsEvent.Name
	}

	event := Event{
		Type: eventType,
		Path: absPath,
		At:   time.Now(),
	}

	fh.mu.Lock()
	channels := append([]chan Event(nil), fh.subscribers[absPath]...)
	fh.mu.Unlock()

	for _, ch := range channels {
		select {
		case ch <- event:
		default:
			// Subscriber is not draining; drop rather than block dispatch.
		}
	}
}

// removeSubscriberLocked drops one subscriber channel and releases the
// directory watch when it was the last one. Callers hold fh.mu.
func (fh *FileHost) removeSubscriberLocked(absPath, dir string, ch chan Event) {
	channels := fh.subscribers[absPath]
	for i, candidate := range channels {
		if candidate == ch {
			fh.subscribers[absPath] = append(channels[:i], channels[i+1:]...)
			close(ch)
			break
		}
	}
	if len(fh.subscribers[absPath]) == 0 {
		delete(fh.subscribers, absPath)
	}

	fh.watchCounts[dir]--
	if fh.watchCounts[dir] <= 0 {
		delete(fh.watchCounts, dir)
		if !fh.closed {
			_ = fh.watcher.Remove(dir)
		}
	}
}

// validateRange checks edit bounds against the document length.
func validateRange(edit RangeEdit, docLen int) error {
	if edit.Start < 0 || edit.End < edit.Start || edit.End > docLen {
		return fmt.Errorf("edit range [%d, %d) is outside document of length %d", edit.Start, edit.End, docLen)
	}
	return nil
}
