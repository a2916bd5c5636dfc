package postgres

import (
	"context"
	"fmt"

	"github.com/kozaktomas/face-match/internal/database"
	"github.com/pgvector/pgvector-go"
)

// RecordRepository provides PostgreSQL-backed album record storage.
// Embeddings are stored in a pgvector column.
type RecordRepository struct {
	pool *Pool
}

// NewRecordRepository creates a new PostgreSQL record repository.
func NewRecordRepository(pool *Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

// toVector narrows an embedding to the float32 precision of the pgvector column.
func toVector(emb []float64) pgvector.Vector {
	v := make([]float32, len(emb))
	for i, x := range emb {
		v[i] = float32(x)
	}
	return pgvector.NewVector(v)
}

func fromVector(vec pgvector.Vector) []float64 {
	s := vec.Slice()
	out := make([]float64, len(s))
	for i, x := range s {
		out[i] = float64(x)
	}
	return out
}

// Load retrieves all records of an album in insertion order.
func (r *RecordRepository) Load(ctx context.Context, albumID string) ([]database.Record, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT file, embedding
		FROM album_records
		WHERE album_id = $1
		ORDER BY position
	`, albumID)
	if err != nil {
		return nil, &database.StorageError{AlbumID: albumID, Op: "load", Err: err}
	}
	defer rows.Close()

	records := make([]database.Record, 0)
	for rows.Next() {
		var file string
		var vec pgvector.Vector
		if err := rows.Scan(&file, &vec); err != nil {
			return nil, &database.StorageError{
				AlbumID: albumID,
				Op:      "load",
				Err:     fmt.Errorf("%w: scan record: %v", database.ErrMalformed, err),
			}
		}
		records = append(records, database.Record{File: file, Embedding: fromVector(vec)})
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

	if _, err := tx.ExecContext(ctx, "DELETE FROM album_records WHERE album_id = $1", albumID); err != nil {
		return &database.StorageError{AlbumID: albumID, Op: "save", Err: fmt.Errorf("delete records: %w", err)}
	}

	for i, rec := range records {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO album_records (album_id, position, file, embedding)
			VALUES ($1, $2, $3, $4)
		`, albumID, i, rec.File, toVector(rec.Embedding))
		if err != nil {
			return &database.StorageError{AlbumID: albumID, Op: "save", Err: fmt.Errorf("insert record %s: %w", rec.File, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &database.StorageError{AlbumID: albumID, Op: "save", Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

// Append inserts one record after the album's last record without rewriting the album.
func (r *RecordRepository) Append(ctx context.Context, albumID string, record database.Record) error {
	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO album_records (album_id, position, file, embedding)
		SELECT $1, COALESCE(MAX(position), -1) + 1, $2, $3
		FROM album_records
		WHERE album_id = $1
	`, albumID, record.File, toVector(record.Embedding))
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
