package database

import (
	"errors"
	"fmt"
)

// Record is a single stored face embedding belonging to an album.
type Record struct {
	File      string    `json:"file"`
	Embedding []float64 `json:"embedding"`
}

// ErrMalformed is returned when persisted album data exists but cannot be decoded.
var ErrMalformed = errors.New("malformed album document")

// StorageError describes a failure to read or write an album's records.
type StorageError struct {
	AlbumID string
	Op      string // "load" or "save"
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s album %q: %v", e.Op, e.AlbumID, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// CloneRecords returns a deep copy of records so callers cannot alias stored embeddings.
func CloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = Record{File: r.File, Embedding: append([]float64(nil), r.Embedding...)}
	}
	return out
}
