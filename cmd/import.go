package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-match/internal/album"
	"github.com/kozaktomas/face-match/internal/constants"
	"github.com/kozaktomas/face-match/internal/ingest"
)

var importCmd = &cobra.Command{
	Use:   "import [album_id...]",
	Short: "Record face embeddings for photos already in the album directories",
	Long: `Walks <photos-dir>/<album_id>/ and records the face embedding of every
image that has no record yet (keyed by album_id:file). Images without a face
and images the extractor fails on are reported and skipped.

With --global-db the records go to a single JSON document holding every album
instead of the per-album storage.

Examples:
  face-match import
  face-match import vacation wedding
  face-match import --global-db
  face-match import --global-db=/data/all_embeddings.json
  face-match import --dry-run`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("global-db", "", "Write all records to this single JSON document (default "+constants.GlobalDBFileName+" when given without a value)")
	importCmd.Flags().Lookup("global-db").NoOptDefVal = constants.GlobalDBFileName
	importCmd.Flags().Bool("dry-run", false, "List photos that would be processed without extracting")
	importCmd.Flags().Bool("json", false, "Output the summary as JSON")
	importCmd.Flags().Bool("no-progress", false, "Disable the progress bar")
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun := mustGetBool(cmd, "dry-run")
	jsonOutput := mustGetBool(cmd, "json")

	a, err := openApp(cmd, !dryRun)
	if err != nil {
		return err
	}
	defer a.close()

	opts := ingest.ImportOptions{Albums: args, DryRun: dryRun}

	if path := mustGetString(cmd, "global-db"); path != "" {
		global, err := album.LoadGlobalIndex(path)
		if err != nil {
			return fmt.Errorf("failed to load global database: %w", err)
		}
		opts.Global = global
		if !jsonOutput {
			fmt.Printf("Global database %s: %d existing records\n", filepath.Clean(path), global.Len())
		}
	}

	total, err := a.service.Scan(opts)
	if err != nil {
		return err
	}
	if !jsonOutput {
		fmt.Printf("Found %d photos in %s\n\n", total, a.cfg.Storage.PhotosDir)
	}

	if !jsonOutput && !dryRun && !mustGetBool(cmd, "no-progress") && total > 0 {
		bar := progressbar.NewOptions(total,
			progressbar.OptionSetDescription("Extracting faces"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("photos"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionFullWidth(),
		)
		opts.OnPhoto = func(albumID, file string, status ingest.Status) {
			bar.Add(1)
		}
		defer bar.Finish()
	}

	result, err := a.service.Import(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if jsonOutput {
		return outputJSON(result)
	}

	fmt.Println()
	if dryRun {
		for _, key := range result.Pending {
			fmt.Printf("  would process %s\n", key)
		}
		fmt.Printf("\nDry run: %d to process, %d already recorded\n", len(result.Pending), result.Skipped)
		return nil
	}

	fmt.Printf("Import complete:\n")
	fmt.Printf("  Added:        %d\n", result.Added)
	fmt.Printf("  Already done: %d\n", result.Skipped)
	fmt.Printf("  No face:      %d\n", result.NoFace)
	fmt.Printf("  Failed:       %d\n", result.Failed)
	if len(result.SkippedAlbums) > 0 {
		fmt.Printf("  Albums skipped (could not be listed): %v\n", result.SkippedAlbums)
	}
	if opts.Global != nil {
		fmt.Printf("  Global total: %d records\n", opts.Global.Len())
	}
	return nil
}
