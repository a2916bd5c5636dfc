package album

import (
	"context"
	"sync"

	"github.com/kozaktomas/face-match/internal/database"
)

// Store is the per-album embedding record store.
// Records of an album are loaded in full and rewritten in full on each change.
// Mutations of one album are serialized within the process; different albums
// proceed independently. Album IDs are used as given; resolve client input
// with PhotoDir.Resolve first.
type Store struct {
	backend database.RecordWriter

	mu    sync.Mutex
	locks map[string]*albumLock
}

// albumLock is dropped from Store.locks once no goroutine holds or waits on it.
type albumLock struct {
	mu   sync.Mutex
	refs int
}

// NewStore creates a store on top of a persistence backend.
func NewStore(backend database.RecordWriter) *Store {
	return &Store{
		backend: backend,
		locks:   make(map[string]*albumLock),
	}
}

func (s *Store) lock(albumID string) func() {
	s.mu.Lock()
	l, ok := s.locks[albumID]
	if !ok {
		l = &albumLock{}
		s.locks[albumID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, albumID)
		}
		s.mu.Unlock()
	}
}

// Load returns the album's records in insertion order, or an empty slice if
// nothing has been stored for it yet.
func (s *Store) Load(ctx context.Context, albumID string) ([]database.Record, error) {
	if err := ValidateAlbumID(albumID); err != nil {
		return nil, err
	}
	return s.backend.Load(ctx, albumID)
}

// Append adds record to the end of the album.
func (s *Store) Append(ctx context.Context, albumID string, record database.Record) error {
	if err := ValidateAlbumID(albumID); err != nil {
		return err
	}
	id := albumID
	unlock := s.lock(id)
	defer unlock()

	return s.appendLocked(ctx, id, record, nil)
}

// AppendUnique adds record only if the album has no record with the same file.
// It reports whether the record was added.
func (s *Store) AppendUnique(ctx context.Context, albumID string, record database.Record) (bool, error) {
	if err := ValidateAlbumID(albumID); err != nil {
		return false, err
	}
	id := albumID
	unlock := s.lock(id)
	defer unlock()

	records, err := s.backend.Load(ctx, id)
	if err != nil {
		return false, err
	}
	for _, r := range records {
		if r.File == record.File {
			return false, nil
		}
	}
	return true, s.appendLocked(ctx, id, record, records)
}

// appendLocked appends to the album, reusing already loaded records when given.
func (s *Store) appendLocked(ctx context.Context, id string, record database.Record, loaded []database.Record) error {
	if appender, ok := s.backend.(database.RecordAppender); ok {
		return appender.Append(ctx, id, record)
	}

	records := loaded
	if records == nil {
		var err error
		records, err = s.backend.Load(ctx, id)
		if err != nil {
			return err
		}
	}
	records = append(records, record)
	return s.backend.Save(ctx, id, records)
}

// Count returns the number of records stored for the album.
func (s *Store) Count(ctx context.Context, albumID string) (int, error) {
	records, err := s.Load(ctx, albumID)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// Files returns the file names of the album's records in insertion order.
func (s *Store) Files(ctx context.Context, albumID string) ([]string, error) {
	records, err := s.Load(ctx, albumID)
	if err != nil {
		return nil, err
	}
	files := make([]string, len(records))
	for i, r := range records {
		files[i] = r.File
	}
	return files, nil
}

// RecordedAlbums returns the albums the backend holds records for. The second
// result is false when the backend cannot enumerate albums.
func (s *Store) RecordedAlbums(ctx context.Context) ([]string, bool, error) {
	lister, ok := s.backend.(database.AlbumLister)
	if !ok {
		return nil, false, nil
	}
	albums, err := lister.Albums(ctx)
	return albums, true, err
}
