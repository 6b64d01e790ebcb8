package datastore

import (
	"crypto/sha256"
	"encoding/hex"
)

// PathHashGenerator derives stable short hashes from target file paths,
// used to name per-file history Parquet files.
type PathHashGenerator struct {
	hashLength int
}

// NewPathHashGenerator creates a new path hash generator
func NewPathHashGenerator(hashLength int) *PathHashGenerator {
	if hashLength <= 0 || hashLength > 64 {
		hashLength = 16 // Default hash length
	}
	return &PathHashGenerator{
		hashLength: hashLength,
	}
}

// GenerateHash creates a unique hash for the file path
func (phg *PathHashGenerator) GenerateHash(filePath string) string {
	hasher := sha256.New()
	hasher.Write([]byte(filePath))
	return hex.EncodeToString(hasher.Sum(nil))[:phg.hashLength]
}
