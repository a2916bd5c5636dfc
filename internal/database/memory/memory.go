// Package memory provides an in-process implementation of the record store.
// It backs the "memory" storage backend and is used throughout the tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/kozaktomas/face-match/internal/database"
)

// RecordStore keeps album records in a map. Nothing survives a restart.
type RecordStore struct {
	mu     sync.RWMutex
	albums map[string][]database.Record

	// Error injection
	LoadError error
	SaveError error

	saves int
}

// NewRecordStore creates an empty in-memory record store
func NewRecordStore() *RecordStore {
	return &RecordStore{
		albums: make(map[string][]database.Record),
	}
}

// Load returns a copy of the album's records
func (m *RecordStore) Load(ctx context.Context, albumID string) ([]database.Record, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return database.CloneRecords(m.albums[albumID]), nil
}

// Save replaces the album's records with a copy of records
func (m *RecordStore) Save(ctx context.Context, albumID string, records []database.Record) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.albums[albumID] = database.CloneRecords(records)
	m.saves++
	return nil
}

// Saves returns how many times Save succeeded
func (m *RecordStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Albums returns the sorted IDs of all albums holding at least one record
func (m *RecordStore) Albums(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.albums))
	for id, records := range m.albums {
		if len(records) > 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}
