package datastore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aleister1102/snippetpatch/internal/config"
	"github.com/aleister1102/snippetpatch/internal/models"
	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
)

const historyFileSuffix = "_edits.parquet"

// EditHistoryStore persists one Parquet file of EditRecord rows per target
// file, named by a hash of the target path. Records accumulate across
// sessions so past edits against a file stay inspectable.
type EditHistoryStore struct {
	storageConfig config.StorageConfig
	hashGen       *PathHashGenerator
	mutexManager  *FileMutexManager
	logger        zerolog.Logger
}

// NewEditHistoryStore creates a new EditHistoryStore instance
func NewEditHistoryStore(cfg config.StorageConfig, logger zerolog.Logger) (*EditHistoryStore, error) {
	componentLogger := logger.With().Str("component", "EditHistoryStore").Logger()

	if cfg.ParquetBasePath == "" {
		return nil, fmt.Errorf("edit history store requires a base path")
	}
	if err := os.MkdirAll(cfg.ParquetBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history base path '%s': %w", cfg.ParquetBasePath, err)
	}

	return &EditHistoryStore{
		storageConfig: cfg,
		hashGen:       NewPathHashGenerator(16),
		mutexManager:  NewFileMutexManager(componentLogger),
		logger:        componentLogger,
	}, nil
}

// RecordEdit appends one edit record to the target file's history,
// rewriting the Parquet file with the record added.
func (ehs *EditHistoryStore) RecordEdit(record models.EditRecord) error {
	historyPath := ehs.historyFilePath(record.FilePath)

	mutex := ehs.mutexManager.GetMutex(historyPath)
	mutex.Lock()
	defer mutex.Unlock()

	existingRecords, err := readEditRecords(historyPath, ehs.logger)
	if err != nil {
		return err
	}

	allRecords := append(existingRecords, record)

	if err := ehs.writeEditRecords(historyPath, allRecords); err != nil {
		return err
	}

	ehs.logger.Debug().
		Str("file", record.FilePath).
		Str("outcome", record.Outcome).
		Int("total_records", len(allRecords)).
		Msg("Recorded edit")
	return nil
}

// ListRecords returns the history for a target file, newest first. A file
// with no history yields an empty slice. A non-positive limit returns
// everything.
func (ehs *EditHistoryStore) ListRecords(targetFilePath string, limit int) ([]models.EditRecord, error) {
	historyPath := ehs.historyFilePath(targetFilePath)

	mutex := ehs.mutexManager.GetMutex(historyPath)
	mutex.Lock()
	defer mutex.Unlock()

	records, err := readEditRecords(historyPath, ehs.logger)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// LastRecord returns the most recent edit record for a target file, or
// nil when the file has no history.
func (ehs *EditHistoryStore) LastRecord(targetFilePath string) (*models.EditRecord, error) {
	records, err := ehs.ListRecords(targetFilePath, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// historyFilePath returns the Parquet path holding the given target
// file's history.
func (ehs *EditHistoryStore) historyFilePath(targetFilePath string) string {
	hash := ehs.hashGen.GenerateHash(filepath.Clean(targetFilePath))
	return filepath.Join(ehs.storageConfig.ParquetBasePath, hash+historyFileSuffix)
}

// writeEditRecords rewrites the history file with the full record set,
// staging into a temp file first so a crash never truncates history.
func (ehs *EditHistoryStore) writeEditRecords(historyPath string, records []models.EditRecord) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(historyPath), filepath.Base(historyPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp history file for '%s': %w", historyPath, err)
	}
	tmpPath := tmpFile.Name()

	writer := parquet.NewGenericWriter[models.EditRecord](tmpFile, ehs.compressionOption())
	if _, err := writer.Write(records); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing history records to '%s': %w", tmpPath, err)
	}
	if err := writer.Close(); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing Parquet writer for '%s': %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp history file '%s': %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, historyPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing history file '%s': %w", historyPath, err)
	}
	return nil
}

// compressionOption maps the configured codec string to a writer option.
func (ehs *EditHistoryStore) compressionOption() parquet.WriterOption {
	switch strings.ToLower(ehs.storageConfig.CompressionCodec) {
	case "snappy":
		return parquet.Compression(&parquet.Snappy)
	case "gzip":
		return parquet.Compression(&parquet.Gzip)
	case "zstd":
		return parquet.Compression(&parquet.Zstd)
	case "none", "uncompressed", "":
		return parquet.Compression(&parquet.Uncompressed)
	default:
		ehs.logger.Warn().Str("codec", ehs.storageConfig.CompressionCodec).Msg("Unsupported compression codec, defaulting to Uncompressed")
		return parquet.Compression(&parquet.Uncompressed)
	}
}

// readEditRecords reads every record from a history file. A missing or
// empty file yields an empty slice.
func readEditRecords(historyPath string, logger zerolog.Logger) ([]models.EditRecord, error) {
	osFile, err := os.Open(historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.EditRecord{}, nil
		}
		return nil, fmt.Errorf("failed to open history file '%s': %w", historyPath, err)
	}
	defer func() {
		if closeErr := osFile.Close(); closeErr != nil {
			logger.Error().Err(closeErr).Str("file", historyPath).Msg("Failed to close history file")
		}
	}()

	stat, err := osFile.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat history file '%s': %w", historyPath, err)
	}
	if stat.Size() == 0 {
		return []models.EditRecord{}, nil
	}

	pqFile, err := parquet.OpenFile(osFile, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file '%s': %w", historyPath, err)
	}

	reader := parquet.NewReader(pqFile)

	var records []models.EditRecord
	for {
		var record models.EditRecord
		if err := reader.Read(&record); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("error reading record from parquet file '%s': %w", historyPath, err)
		}
		records = append(records, record)
	}

	return records, nil
}
