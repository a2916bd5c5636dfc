package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/kozaktomas/face-match/internal/album"
	"github.com/kozaktomas/face-match/internal/database"
	"github.com/kozaktomas/face-match/internal/faceembed"
)

// Status is the outcome of importing a single photo.
type Status string

const (
	StatusAdded   Status = "added"
	StatusSkipped Status = "skipped" // already recorded
	StatusNoFace  Status = "no_face"
	StatusFailed  Status = "failed"
	StatusPending Status = "pending" // dry run
)

// ImportOptions configures a bulk import.
type ImportOptions struct {
	// Albums limits the import to the given albums. Empty means every album directory.
	Albums []string
	// Global, when set, receives the records instead of the per-album store.
	// It is saved at the end of the import.
	Global *album.GlobalIndex
	// DryRun reports which photos would be processed without extracting anything.
	DryRun bool
	// OnPhoto is called after each photo is handled.
	OnPhoto func(albumID, file string, status Status)
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Total   int      `json:"total"`
	Added   int      `json:"added"`
	Skipped int      `json:"skipped"`
	NoFace  int      `json:"no_face"`
	Failed  int      `json:"failed"`
	Pending []string `json:"pending,omitempty"`

	// SkippedAlbums lists albums that could not be listed.
	SkippedAlbums []string `json:"skipped_albums,omitempty"`
}

type pendingPhoto struct {
	albumID string
	file    string
}

// Scan returns the number of photos an import with opts would look at.
func (s *Service) Scan(opts ImportOptions) (int, error) {
	photos, _, err := s.scan(opts.Albums)
	if err != nil {
		return 0, err
	}
	return len(photos), nil
}

// scan lists the photos of the requested albums. Names read from the photos
// directory are used verbatim; names given by the caller are resolved first.
// An album that cannot be listed is logged and reported in skipped.
func (s *Service) scan(albums []string) (photos []pendingPhoto, skipped []string, err error) {
	fromDisk := len(albums) == 0
	if fromDisk {
		albums, err = s.photos.Albums()
		if err != nil {
			return nil, nil, err
		}
	}

	for _, a := range albums {
		id := a
		if fromDisk {
			err = album.ValidateAlbumID(a)
		} else {
			id, err = s.photos.Resolve(a)
		}
		if err != nil {
			log.Printf("Skipping album %q: %v", a, err)
			skipped = append(skipped, a)
			continue
		}

		files, err := s.photos.List(id)
		if err != nil {
			log.Printf("Skipping album %q: listing failed: %v", id, err)
			skipped = append(skipped, id)
			continue
		}
		for _, f := range files {
			photos = append(photos, pendingPhoto{albumID: id, file: f})
		}
	}
	return photos, skipped, nil
}

// Import walks the photos directory and records the embedding of every photo
// that is not recorded yet, keyed by album_id:file. Photos without a face
// and photos the extractor fails on are logged and skipped. Storage errors
// abort the import.
func (s *Service) Import(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	photos, skippedAlbums, err := s.scan(opts.Albums)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Total: len(photos), SkippedAlbums: skippedAlbums}
	known := make(map[string]map[string]bool)

	for _, p := range photos {
		if err := ctx.Err(); err != nil {
			return result, s.finishImport(opts, err)
		}

		exists, err := s.recorded(ctx, opts.Global, known, p)
		if err != nil {
			return result, s.finishImport(opts, err)
		}

		var status Status
		switch {
		case exists:
			status = StatusSkipped
			result.Skipped++
		case opts.DryRun:
			status = StatusPending
			result.Pending = append(result.Pending, album.Key(p.albumID, p.file))
		default:
			status, err = s.importPhoto(ctx, opts.Global, p)
			if err != nil {
				return result, s.finishImport(opts, err)
			}
			switch status {
			case StatusAdded:
				result.Added++
				known[p.albumID][p.file] = true
			case StatusNoFace:
				result.NoFace++
			case StatusFailed:
				result.Failed++
			}
		}

		if opts.OnPhoto != nil {
			opts.OnPhoto(p.albumID, p.file, status)
		}
	}

	return result, s.finishImport(opts, nil)
}

// recorded reports whether the photo already has a record. Per-album record
// files are loaded once per album.
func (s *Service) recorded(ctx context.Context, global *album.GlobalIndex, known map[string]map[string]bool, p pendingPhoto) (bool, error) {
	if global != nil {
		if known[p.albumID] == nil {
			known[p.albumID] = make(map[string]bool)
		}
		return global.Has(p.albumID, p.file), nil
	}

	files, ok := known[p.albumID]
	if !ok {
		stored, err := s.store.Files(ctx, p.albumID)
		if err != nil {
			return false, err
		}
		files = make(map[string]bool, len(stored))
		for _, f := range stored {
			files[f] = true
		}
		known[p.albumID] = files
	}
	return files[p.file], nil
}

// importPhoto extracts and records one photo. Only storage failures are returned as errors.
func (s *Service) importPhoto(ctx context.Context, global *album.GlobalIndex, p pendingPhoto) (Status, error) {
	data, err := s.photos.ReadPhoto(p.albumID, p.file)
	if err != nil {
		log.Printf("Failed to read %s/%s: %v", p.albumID, p.file, err)
		return StatusFailed, nil
	}

	embedding, err := s.extractor.Extract(ctx, data)
	switch {
	case errors.Is(err, faceembed.ErrNoFaceDetected):
		log.Printf("No face found in %s/%s", p.albumID, p.file)
		return StatusNoFace, nil
	case err != nil:
		log.Printf("Failed to process %s/%s: %v", p.albumID, p.file, err)
		return StatusFailed, nil
	}

	if global != nil {
		global.Add(album.GlobalRecord{AlbumID: p.albumID, File: p.file, Embedding: embedding})
		return StatusAdded, nil
	}

	if err := s.store.Append(ctx, p.albumID, database.Record{File: p.file, Embedding: embedding}); err != nil {
		return StatusFailed, fmt.Errorf("storing %s: %w", album.Key(p.albumID, p.file), err)
	}
	return StatusAdded, nil
}

// finishImport persists the global index, if any, and returns err.
func (s *Service) finishImport(opts ImportOptions, err error) error {
	if opts.Global == nil || opts.DryRun {
		return err
	}
	if saveErr := opts.Global.Save(); saveErr != nil {
		return errors.Join(err, saveErr)
	}
	return err
}
