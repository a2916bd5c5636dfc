// Package file stores album records as one JSON document per album, next to
// the album's photos: <root>/<album_id>/<metadata file>.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kozaktomas/face-match/internal/database"
)

// RecordStore is the file-backed record store.
type RecordStore struct {
	root         string
	metadataFile string
}

// NewRecordStore creates a record store rooted at the photos directory.
func NewRecordStore(root, metadataFile string) *RecordStore {
	return &RecordStore{root: root, metadataFile: metadataFile}
}

// Path returns the location of an album's embeddings document.
func (s *RecordStore) Path(albumID string) string {
	return filepath.Join(s.root, albumID, s.metadataFile)
}

// Load reads and decodes the album document. A missing document is an empty album.
func (s *RecordStore) Load(ctx context.Context, albumID string) ([]database.Record, error) {
	data, err := os.ReadFile(s.Path(albumID)) //nolint:gosec // album ID validated by caller
	if errors.Is(err, fs.ErrNotExist) {
		return []database.Record{}, nil
	}
	if err != nil {
		return nil, &database.StorageError{AlbumID: albumID, Op: "load", Err: err}
	}

	var records []database.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &database.StorageError{
			AlbumID: albumID,
			Op:      "load",
			Err:     fmt.Errorf("%w: %v", database.ErrMalformed, err),
		}
	}
	if records == nil {
		records = []database.Record{}
	}
	return records, nil
}

// Save rewrites the album document. The new content is written to a temporary
// file in the album directory and renamed over the old one.
func (s *RecordStore) Save(ctx context.Context, albumID string, records []database.Record) error {
	if records == nil {
		records = []database.Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return &database.StorageError{AlbumID: albumID, Op: "save", Err: err}
	}

	dir := filepath.Join(s.root, albumID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &database.StorageError{AlbumID: albumID, Op: "save", Err: err}
	}

	tmp, err := os.CreateTemp(dir, s.metadataFile+".*.tmp")
	if err != nil {
		return &database.StorageError{AlbumID: albumID, Op: "save", Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &database.StorageError{AlbumID: albumID, Op: "save", Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &database.StorageError{AlbumID: albumID, Op: "save", Err: err}
	}
	if err := os.Rename(tmpName, s.Path(albumID)); err != nil {
		_ = os.Remove(tmpName)
		return &database.StorageError{AlbumID: albumID, Op: "save", Err: err}
	}
	return nil
}
