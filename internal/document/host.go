package document

import (
	"context"
	"time"
)

// EventType classifies document lifecycle events.
type EventType int

const (
	// EventChanged indicates the document content was modified on disk.
	EventChanged EventType = iota
	// EventRemoved indicates the document was deleted or renamed away.
	EventRemoved
)

// String returns the event type name.
func (et EventType) String() string {
	switch et {
	case EventChanged:
		return "changed"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is a document lifecycle notification.
type Event struct {
	Type EventType
	Path string
	At   time.Time
}

// RangeEdit describes a single range-replace edit. Expected, when
// non-empty, is the text the host must find at [Start, End) for the edit
// to be accepted; it guards against the document drifting between read
// and write.
type RangeEdit struct {
	Start       int
	End         int
	Replacement string
	Expected    string
}

// Host abstracts the document model the engine operates against: read the
// full text at a path, apply a single atomic range-replace edit, and
// observe change/remove events used to expire staging sessions.
type Host interface {
	// ReadDocument returns the full text of the document at path.
	ReadDocument(ctx context.Context, path string) (string, error)

	// ApplyEdit atomically replaces the range [edit.Start, edit.End) with
	// edit.Replacement. The host either applies the whole edit or rejects
	// it; it never leaves the document partially edited.
	ApplyEdit(ctx context.Context, path string, edit RangeEdit) error

	// Watch subscribes to change/remove events for path. The returned
	// cancel function releases the subscription and must be called on
	// every exit path.
	Watch(path string) (<-chan Event, func(), error)

	// Close releases all host resources.
	Close() error
}
