package datastore

import (
	"sync"

	"github.com/rs/zerolog"
)

// FileMutexManager hands out per-target-file mutexes so concurrent edits
// against different files never serialize on each other, while edits
// against the same history file do.
type FileMutexManager struct {
	mutexes map[string]*sync.Mutex
	mapLock sync.RWMutex
	logger  zerolog.Logger
}

// NewFileMutexManager creates a new file mutex manager
func NewFileMutexManager(logger zerolog.Logger) *FileMutexManager {
	return &FileMutexManager{
		mutexes: make(map[string]*sync.Mutex),
		logger:  logger.With().Str("component", "FileMutexManager").Logger(),
	}
}

// GetMutex returns the mutex guarding the given file path
func (fmm *FileMutexManager) GetMutex(filePath string) *sync.Mutex {
	fmm.mapLock.RLock()
	mutex, exists := fmm.mutexes[filePath]
	fmm.mapLock.RUnlock()

	if exists {
		return mutex
	}

	fmm.mapLock.Lock()
	defer fmm.mapLock.Unlock()

	// Double-check after acquiring write lock
	if mutex, exists := fmm.mutexes[filePath]; exists {
		return mutex
	}

	mutex = &sync.Mutex{}
	fmm.mutexes[filePath] = mutex
	return mutex
}
