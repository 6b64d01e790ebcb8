package filemanager

import (
	"os"

	"github.com/aleister1102/snippetpatch/internal/common/errorwrapper"
	"github.com/rs/zerolog"
)

// FileReader handles file reading operations
type FileReader struct {
	logger zerolog.Logger
}

// NewFileReader creates a new FileReader instance
func NewFileReader(logger zerolog.Logger) *FileReader {
	return &FileReader{
		logger: logger.With().Str("component", "FileReader").Logger(),
	}
}

// ReadFile reads a file with the given options
func (fr *FileReader) ReadFile(path string, opts FileReadOptions) ([]byte, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errorwrapper.WrapError(errorwrapper.ErrFileMissing, "file not found: "+path)
		}
		return nil, errorwrapper.WrapError(err, "failed to stat file: "+path)
	}

	if stat.IsDir() {
		return nil, errorwrapper.NewValidationError("path", path, "is a directory, not a file")
	}

	if opts.MaxSize > 0 && stat.Size() > opts.MaxSize {
		return nil, errorwrapper.NewValidationError("file_size", stat.Size(), "exceeds configured maximum")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to read file: "+path)
	}

	fr.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("File read successfully")
	return data, nil
}
