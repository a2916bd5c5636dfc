package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-match/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "face-match",
	Short: "Find the photos of an album that show a given face",
	Long: `Face Match keeps a database of face embeddings per photo album and
matches a query photo (a selfie) against it. It runs as an HTTP server
for the album frontend and offers the same operations on the command line.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().String("photos-dir", "", "Root directory of the albums (overrides PHOTOS_DIR)")
	rootCmd.PersistentFlags().String("backend", "", "Record storage backend: file, memory, sqlite, postgres or mariadb (overrides STORE_BACKEND)")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// loadConfig loads the configuration and applies the global flag overrides.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	if dir, _ := cmd.Flags().GetString("photos-dir"); dir != "" {
		cfg.Storage.PhotosDir = dir
	}
	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		cfg.Storage.Backend = backend
	}
	if f := cmd.Flags().Lookup("threshold"); f != nil && f.Changed {
		cfg.Matching.Threshold = mustGetFloat64(cmd, "threshold")
	}
	return cfg
}
