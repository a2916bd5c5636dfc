package postgres

import (
	"strings"
	"testing"
)

func TestLoadMigrations(t *testing.T) {
	migrations, err := loadMigrations()
	if err != nil {
		t.Fatalf("loadMigrations: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("expected embedded migrations")
	}
	if migrations[0].version != "001_album_records.sql" {
		t.Errorf("expected first migration 001_album_records.sql, got %s", migrations[0].version)
	}
	if !strings.Contains(migrations[0].sql, "album_records") {
		t.Error("expected album_records table in first migration")
	}
	for i := 1; i < len(migrations); i++ {
		if migrations[i-1].version >= migrations[i].version {
			t.Errorf("migrations not sorted: %s before %s", migrations[i-1].version, migrations[i].version)
		}
	}
}
