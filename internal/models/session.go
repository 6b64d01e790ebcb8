package models

import (
	"time"

	"github.com/google/uuid"
)

// StagingSession is the scoped unit of work spanning snapshot, apply and
// present. It owns the snapshot temp file holding the pre-edit document
// text. At most one session is active per target file at a time.
type StagingSession struct {
	SessionID      string    `json:"session_id"`
	TargetFilePath string    `json:"target_file_path"`
	SnapshotPath   string    `json:"snapshot_path"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewStagingSession creates a session for the given target file. The
// snapshot path is filled in once the pre-edit text has been written out.
func NewStagingSession(targetFilePath string) *StagingSession {
	return &StagingSession{
		SessionID:      uuid.NewString(),
		TargetFilePath: targetFilePath,
		CreatedAt:      time.Now(),
	}
}
