package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kozaktomas/face-match/internal/database"
)

// RecordRepository provides SQLite-backed album record storage.
// Embeddings are stored as JSON arrays.
type RecordRepository struct {
	pool *Pool
}

func NewRecordRepository(pool *Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

func encodeEmbedding(albumID string, emb []float64) (string, error) {
	raw, err := json.Marshal(emb)
	if err != nil {
		return "", &database.StorageError{AlbumID: albumID, Op: "save", Err: err}
	}
	return string(raw), nil
}

// Load retrieves all records of an album in insertion order.
func (r *RecordRepository) Load(ctx context.Context, albumID string) ([]database.Record, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT file, embedding FROM album_records WHERE album_id = ? ORDER BY position", albumID)
	if err != nil {
		return nil, &database.StorageError{AlbumID: albumID, Op: "load", Err: err}
	}
	defer rows.Close()

	records := make([]database.Record, 0)
	for rows.Next() {
		var file, raw string
		if err := rows.Scan(&file, &raw); err != nil {
			return nil, &database.StorageError{AlbumID: albumID, Op: "load", Err: err}
		}
		var emb []float64
		if err := json.Unmarshal([]byte(raw), &emb); err != nil {
			return nil, &database.StorageError{
				AlbumID: albumID,
				Op:      "load",
				Err:     fmt.Errorf("%w: embedding of %s: %v", database.ErrMalformed, file, err),
			}
		}
		records = append(records, database.Record{File: file, Embedding: emb})
	}
	if err := rows.Err(); err != nil {
		return nil, &database.StorageError{AlbumID: albumID, Op: "load", Err: err}
	}
	return records, nil
}

// Save replaces all records of an album in a single transaction.
func (r *RecordRepository) Save(ctx context.Context, albumID string, records []database.Record) error {
	tx, err := r.pool.db.BeginTx(ctx, nil)
	if err != nil {
		return &database.StorageError{AlbumID: albumID, Op: "save", Err: err}
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM album_records WHERE album_id = ?", albumID); err != nil {
		return &database.StorageError{AlbumID: albumID, Op: "save", Err: fmt.Errorf("delete records: %w", err)}
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO album_records (album_id, position, file, embedding) VALUES (?, ?, ?, ?)")
	if err != nil {
		return &database.StorageError{AlbumID: albumID, Op: "save", Err: err}
	}
	defer stmt.Close()

	for i, rec := range records {
		raw, err := encodeEmbedding(albumID, rec.Embedding)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, albumID, i, rec.File, raw); err != nil {
			return &database.StorageError{AlbumID: albumID, Op: "save", Err: fmt.Errorf("insert record %s: %w", rec.File, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &database.StorageError{AlbumID: albumID, Op: "save", Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

// Append inserts one record after the album's last record.
func (r *RecordRepository) Append(ctx context.Context, albumID string, record database.Record) error {
	raw, err := encodeEmbedding(albumID, record.Embedding)
	if err != nil {
		return err
	}
	_, err = r.pool.db.ExecContext(ctx, `
		INSERT INTO album_records (album_id, position, file, embedding)
		SELECT ?1, COALESCE(MAX(position), -1) + 1, ?2, ?3
		FROM album_records
		WHERE album_id = ?1`,
		albumID, record.File, raw)
	if err != nil {
		return &database.StorageError{AlbumID: albumID, Op: "save", Err: fmt.Errorf("append record %s: %w", record.File, err)}
	}
	return nil
}

// Albums returns the IDs of all albums that have records.
func (r *RecordRepository) Albums(ctx context.Context) ([]string, error) {
	rows, err := r.pool.db.QueryContext(ctx, "SELECT DISTINCT album_id FROM album_records ORDER BY album_id")
	if err != nil {
		return nil, fmt.Errorf("query albums: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan album id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}
	return ids, nil
}
