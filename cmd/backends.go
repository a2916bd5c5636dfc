package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-match/internal/album"
	"github.com/kozaktomas/face-match/internal/config"
	"github.com/kozaktomas/face-match/internal/database"
	"github.com/kozaktomas/face-match/internal/database/file"
	"github.com/kozaktomas/face-match/internal/database/mariadb"
	"github.com/kozaktomas/face-match/internal/database/memory"
	"github.com/kozaktomas/face-match/internal/database/postgres"
	"github.com/kozaktomas/face-match/internal/database/sqlite"
	"github.com/kozaktomas/face-match/internal/faceembed"
	"github.com/kozaktomas/face-match/internal/ingest"
)

func init() {
	database.RegisterBackend("file", func(cfg *config.Config) (*database.Backend, error) {
		store := file.NewRecordStore(cfg.Storage.PhotosDir, cfg.Storage.MetadataFile)
		return &database.Backend{Records: store, Close: func() error { return nil }}, nil
	})
	database.RegisterBackend("memory", func(cfg *config.Config) (*database.Backend, error) {
		return &database.Backend{Records: memory.NewRecordStore(), Close: func() error { return nil }}, nil
	})
	database.RegisterBackend("sqlite", sqlite.Open)
	database.RegisterBackend("postgres", postgres.Open)
	database.RegisterBackend("mariadb", mariadb.Open)
}

// app holds the wired components shared by the commands.
type app struct {
	cfg     *config.Config
	service *ingest.Service
	close   func()
}

// openApp opens the record backend and, when withExtractor is set, the face extractor.
func openApp(cmd *cobra.Command, withExtractor bool) (*app, error) {
	cfg := loadConfig(cmd)

	backend, err := database.Open(cfg.Storage.Backend, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}

	var extractor faceembed.Extractor
	if withExtractor {
		extractor, err = faceembed.Open(cfg.Embedding)
		if err != nil {
			backend.Close()
			return nil, fmt.Errorf("failed to create face extractor: %w", err)
		}
	}

	svc := ingest.NewService(extractor, album.NewStore(backend.Records), album.NewPhotoDir(cfg.Storage), cfg.Matching.Threshold)
	return &app{
		cfg:     cfg,
		service: svc,
		close: func() {
			if extractor != nil {
				if err := faceembed.Close(extractor); err != nil {
					fmt.Printf("Warning: failed to close extractor: %v\n", err)
				}
			}
			if err := backend.Close(); err != nil {
				fmt.Printf("Warning: failed to close storage: %v\n", err)
			}
		},
	}, nil
}
