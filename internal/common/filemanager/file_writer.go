package filemanager

import (
	"os"
	"path/filepath"

	"github.com/aleister1102/snippetpatch/internal/common/errorwrapper"
	"github.com/rs/zerolog"
)

// FileWriter handles file writing operations
type FileWriter struct {
	logger zerolog.Logger
}

// NewFileWriter creates a new FileWriter instance
func NewFileWriter(logger zerolog.Logger) *FileWriter {
	return &FileWriter{
		logger: logger.With().Str("component", "FileWriter").Logger(),
	}
}

// WriteFile writes data to a file with the given options
func (fw *FileWriter) WriteFile(path string, data []byte, opts FileWriteOptions) error {
	var err error
	if opts.Atomic {
		err = fw.performAtomicWrite(path, data, opts)
	} else {
		err = fw.performFileWrite(path, data, opts)
	}
	if err != nil {
		return errorwrapper.WrapError(err, "failed to write file: "+path)
	}

	fw.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("File written successfully")
	return nil
}

// performAtomicWrite writes to a temp file in the target directory and
// renames it over the destination so readers never observe a partial
// document.
func (fw *FileWriter) performAtomicWrite(path string, data []byte, opts FileWriteOptions) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	cleanup := func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmpFile.Write(data); err != nil {
		cleanup()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, opts.Permissions); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// performFileWrite performs a plain truncating write
func (fw *FileWriter) performFileWrite(path string, data []byte, opts FileWriteOptions) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, opts.Permissions)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fw.logger.Error().Err(closeErr).Str("path", path).Msg("Failed to close file after writing")
		}
	}()

	_, err = file.Write(data)
	return err
}
