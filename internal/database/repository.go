package database

import (
	"context"
)

// RecordReader provides read-only access to album embedding records
type RecordReader interface {
	// Load returns all records of an album in insertion order.
	// An album with no persisted data yields an empty slice and no error.
	Load(ctx context.Context, albumID string) ([]Record, error)
}

// RecordWriter provides full-document write access to album embedding records
type RecordWriter interface {
	RecordReader

	// Save replaces all records of an album.
	Save(ctx context.Context, albumID string, records []Record) error
}

// RecordAppender is implemented by backends that can add a single record
// without rewriting the album (SQL backends).
type RecordAppender interface {
	// Append adds a record after the album's existing records.
	Append(ctx context.Context, albumID string, record Record) error
}

// AlbumLister is implemented by backends that can enumerate albums holding records.
type AlbumLister interface {
	// Albums returns the sorted IDs of albums with at least one record.
	Albums(ctx context.Context) ([]string, error)
}
