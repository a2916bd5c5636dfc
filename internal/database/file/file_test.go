package file

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kozaktomas/face-match/internal/database"
)

func TestRecordStore_LoadMissingAlbum(t *testing.T) {
	s := NewRecordStore(t.TempDir(), "embeddings_db.json")

	records, err := s.Load(context.Background(), "nothing-here")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", records)
	}
}

func TestRecordStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewRecordStore(root, "embeddings_db.json")

	records := []database.Record{
		{File: "z.jpg", Embedding: []float64{0.5, -0.25}},
		{File: "a.jpg", Embedding: []float64{0, 1}},
	}
	if err := s.Save(ctx, "vacation", records); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := s.Load(ctx, "vacation")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	for i := range records {
		if got[i].File != records[i].File {
			t.Errorf("record %d: expected file %s, got %s", i, records[i].File, got[i].File)
		}
		for j := range records[i].Embedding {
			if got[i].Embedding[j] != records[i].Embedding[j] {
				t.Errorf("record %d: embedding mismatch at %d", i, j)
			}
		}
	}

	if _, err := os.Stat(filepath.Join(root, "vacation", "embeddings_db.json")); err != nil {
		t.Errorf("expected document next to album photos: %v", err)
	}
}

func TestRecordStore_DocumentFormat(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewRecordStore(root, "embeddings_db.json")

	if err := s.Save(ctx, "a", []database.Record{{File: "x.jpg", Embedding: []float64{1, 0}}}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "a", "embeddings_db.json"))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != `[{"file":"x.jpg","embedding":[1,0]}]` {
		t.Errorf("unexpected document: %s", data)
	}
}

func TestRecordStore_LoadsExternallyWrittenDocument(t *testing.T) {
	root := t.TempDir()
	albumDir := filepath.Join(root, "party")
	if err := os.MkdirAll(albumDir, 0o755); err != nil {
		t.Fatal(err)
	}
	doc := `[{"file": "1.jpg", "embedding": [0.1, 0.2]}, {"file": "2.jpg", "embedding": [0.3, 0.4]}]`
	if err := os.WriteFile(filepath.Join(albumDir, "embeddings_db.json"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewRecordStore(root, "embeddings_db.json")
	got, err := s.Load(context.Background(), "party")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1].File != "2.jpg" {
		t.Errorf("unexpected records %+v", got)
	}
}

func TestRecordStore_RewriteKeepsDoublePrecision(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	albumDir := filepath.Join(root, "legacy")
	if err := os.MkdirAll(albumDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(albumDir, "embeddings_db.json")
	doc := `[{"file":"old.jpg","embedding":[-0.12345678901234567,0.09876543210987654]}]`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewRecordStore(root, "embeddings_db.json")
	records, err := s.Load(ctx, "legacy")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	records = append(records, database.Record{File: "new.jpg", Embedding: []float64{0.5, 0.25}})
	if err := s.Save(ctx, "legacy", records); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var written []database.Record
	if err := json.Unmarshal(data, &written); err != nil {
		t.Fatalf("rewritten document is not valid JSON: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("expected 2 records, got %d", len(written))
	}
	want := []float64{-0.12345678901234567, 0.09876543210987654}
	for i, v := range want {
		if written[0].Embedding[i] != v {
			t.Errorf("embedding[%d] lost precision on rewrite: got %v, want %v", i, written[0].Embedding[i], v)
		}
	}
}

func TestRecordStore_MalformedDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", "this is not json"},
		{"object instead of array", `{"file": "a.jpg"}`},
		{"truncated", `[{"file": "a.jpg", "embedding": [0.1,`},
		{"wrong embedding type", `[{"file": "a.jpg", "embedding": "abc"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			if err := os.MkdirAll(filepath.Join(root, "bad"), 0o755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(filepath.Join(root, "bad", "embeddings_db.json"), []byte(tt.doc), 0o644); err != nil {
				t.Fatal(err)
			}

			s := NewRecordStore(root, "embeddings_db.json")
			_, err := s.Load(context.Background(), "bad")

			if !errors.Is(err, database.ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
			var se *database.StorageError
			if !errors.As(err, &se) || se.AlbumID != "bad" || se.Op != "load" {
				t.Errorf("expected StorageError for album 'bad', got %#v", err)
			}
		})
	}
}

func TestRecordStore_NullDocumentIsEmpty(t *testing.T) {
	root := t.TempDir()
	_ = os.MkdirAll(filepath.Join(root, "n"), 0o755)
	_ = os.WriteFile(filepath.Join(root, "n", "embeddings_db.json"), []byte("null"), 0o644)

	s := NewRecordStore(root, "embeddings_db.json")
	got, err := s.Load(context.Background(), "n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty slice, got %#v", got)
	}
}

func TestRecordStore_SaveLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewRecordStore(root, "embeddings_db.json")

	for i := range 3 {
		recs := make([]database.Record, i+1)
		for j := range recs {
			recs[j] = database.Record{File: "f.jpg", Embedding: []float64{float64(j)}}
		}
		if err := s.Save(ctx, "a", recs); err != nil {
			t.Fatalf("save %d failed: %v", i, err)
		}
	}

	entries, err := os.ReadDir(filepath.Join(root, "a"))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("unexpected leftover temp file %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("expected only the document, got %d entries", len(entries))
	}
}
