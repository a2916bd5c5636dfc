// Package ingest adds photos to albums and matches photos against them.
package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/kozaktomas/face-match/internal/album"
	"github.com/kozaktomas/face-match/internal/constants"
	"github.com/kozaktomas/face-match/internal/database"
	"github.com/kozaktomas/face-match/internal/faceembed"
	"github.com/kozaktomas/face-match/internal/facematch"
)

// Service ties together embedding extraction, album records and photo files.
type Service struct {
	extractor faceembed.Extractor
	store     *album.Store
	photos    *album.PhotoDir
	threshold float64
}

// NewService creates a new ingestion service.
func NewService(extractor faceembed.Extractor, store *album.Store, photos *album.PhotoDir, threshold float64) *Service {
	return &Service{
		extractor: extractor,
		store:     store,
		photos:    photos,
		threshold: threshold,
	}
}

// Store returns the album record store.
func (s *Service) Store() *album.Store {
	return s.store
}

// Photos returns the album photo directory.
func (s *Service) Photos() *album.PhotoDir {
	return s.photos
}

// Threshold returns the match distance threshold.
func (s *Service) Threshold() float64 {
	return s.threshold
}

// AddPhoto stores an uploaded photo in the album under a fresh name and
// records its face embedding. It returns the stored file name.
// Nothing is written when the photo has no face or extraction fails.
func (s *Service) AddPhoto(ctx context.Context, albumID string, data []byte) (string, error) {
	id, err := s.photos.Resolve(albumID)
	if err != nil {
		return "", err
	}

	embedding, err := s.extractor.Extract(ctx, data)
	if err != nil {
		return "", err
	}

	filename := uuid.New().String() + constants.StoredPhotoExt
	if err := s.photos.Save(id, filename, data); err != nil {
		return "", err
	}

	if err := s.store.Append(ctx, id, database.Record{File: filename, Embedding: embedding}); err != nil {
		if rmErr := s.photos.Remove(id, filename); rmErr != nil {
			log.Printf("Failed to remove %s/%s after store error: %v", id, filename, rmErr)
		}
		return "", fmt.Errorf("storing embedding: %w", err)
	}

	log.Printf("Added %s to album %s", filename, id)
	return filename, nil
}

// Compare returns the album photos showing the same face as the query photo,
// as "<album_id>/<file>" in stored order.
func (s *Service) Compare(ctx context.Context, albumID string, data []byte) ([]string, error) {
	results, err := s.CompareWithDistances(ctx, albumID, data)
	if err != nil {
		return nil, err
	}
	matches := make([]string, len(results))
	for i, r := range results {
		matches[i] = r.File
	}
	return matches, nil
}

// CompareWithDistances is Compare with the distance of each match.
func (s *Service) CompareWithDistances(ctx context.Context, albumID string, data []byte) ([]facematch.Result, error) {
	id, err := s.photos.Resolve(albumID)
	if err != nil {
		return nil, err
	}

	query, err := s.extractor.Extract(ctx, data)
	if err != nil {
		return nil, err
	}

	records, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	results := facematch.MatchWithDistances(query, candidates(records), s.threshold)
	for i := range results {
		results[i].File = id + "/" + results[i].File
	}
	return results, nil
}

func candidates(records []database.Record) []facematch.Candidate {
	out := make([]facematch.Candidate, len(records))
	for i, r := range records {
		out[i] = facematch.Candidate{File: r.File, Embedding: r.Embedding}
	}
	return out
}
