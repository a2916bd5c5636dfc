package album

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kozaktomas/face-match/internal/database"
)

// GlobalRecord is a record of the single-document layout used by bulk imports,
// where all albums share one file.
type GlobalRecord struct {
	AlbumID   string    `json:"album_id"`
	File      string    `json:"file"`
	Embedding []float64 `json:"embedding"`
}

// Key identifies a photo across albums.
func Key(albumID, file string) string {
	return albumID + ":" + file
}

// GlobalIndex is the bulk import document: every record of every album,
// keyed by album_id:file.
type GlobalIndex struct {
	path    string
	records []GlobalRecord
	keys    map[string]struct{}
}

// LoadGlobalIndex reads the document at path. A missing file yields an empty index.
func LoadGlobalIndex(path string) (*GlobalIndex, error) {
	g := &GlobalIndex{path: path, keys: make(map[string]struct{})}

	data, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
	if errors.Is(err, fs.ErrNotExist) {
		return g, nil
	}
	if err != nil {
		return nil, &database.StorageError{AlbumID: "*", Op: "load", Err: err}
	}
	if err := json.Unmarshal(data, &g.records); err != nil {
		return nil, &database.StorageError{
			AlbumID: "*",
			Op:      "load",
			Err:     fmt.Errorf("%w: %v", database.ErrMalformed, err),
		}
	}
	for _, r := range g.records {
		g.keys[Key(r.AlbumID, r.File)] = struct{}{}
	}
	return g, nil
}

// Has reports whether the index already holds a record for the photo.
func (g *GlobalIndex) Has(albumID, file string) bool {
	_, ok := g.keys[Key(albumID, file)]
	return ok
}

// Add appends a record unless its key is already present. It reports whether it was added.
func (g *GlobalIndex) Add(rec GlobalRecord) bool {
	k := Key(rec.AlbumID, rec.File)
	if _, ok := g.keys[k]; ok {
		return false
	}
	g.keys[k] = struct{}{}
	g.records = append(g.records, rec)
	return true
}

// Len returns the number of records.
func (g *GlobalIndex) Len() int {
	return len(g.records)
}

// Records returns the records in insertion order.
func (g *GlobalIndex) Records() []GlobalRecord {
	return g.records
}

// AlbumRecords returns the records of one album in the per-album layout.
func (g *GlobalIndex) AlbumRecords(albumID string) []database.Record {
	var out []database.Record
	for _, r := range g.records {
		if r.AlbumID == albumID {
			out = append(out, database.Record{File: r.File, Embedding: r.Embedding})
		}
	}
	return out
}

// Save writes the whole document back to its path.
func (g *GlobalIndex) Save() error {
	records := g.records
	if records == nil {
		records = []GlobalRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding global index: %w", err)
	}
	if dir := filepath.Dir(g.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating index directory: %w", err)
		}
	}
	if err := os.WriteFile(g.path, data, 0o644); err != nil { //nolint:gosec // not secret
		return fmt.Errorf("writing global index: %w", err)
	}
	return nil
}
