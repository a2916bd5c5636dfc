package cmd

import (
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var albumsCmd = &cobra.Command{
	Use:   "albums",
	Short: "List all albums",
	Long: `Lists the album directories together with how many photos each holds
and how many of them have a recorded face embedding.`,
	RunE: runAlbums,
}

func init() {
	rootCmd.AddCommand(albumsCmd)
}

func runAlbums(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	photos := a.service.Photos()
	store := a.service.Store()

	albums, err := photos.Albums()
	if err != nil {
		return fmt.Errorf("failed to list albums: %w", err)
	}
	recorded, ok, err := store.RecordedAlbums(ctx)
	if err != nil {
		return fmt.Errorf("failed to list recorded albums: %w", err)
	}
	if ok {
		for _, id := range recorded {
			if !slices.Contains(albums, id) {
				albums = append(albums, id)
			}
		}
		slices.Sort(albums)
	}

	if len(albums) == 0 {
		fmt.Println("No albums found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALBUM\tPHOTOS\tRECORDS")
	fmt.Fprintln(w, "-----\t------\t-------")

	for _, id := range albums {
		files, err := photos.List(id)
		if err != nil {
			files = nil
		}
		count, err := store.Count(ctx, id)
		if err != nil {
			fmt.Fprintf(w, "%s\t%d\terror: %v\n", id, len(files), err)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%d\n", id, len(files), count)
	}

	w.Flush()

	fmt.Printf("\nTotal: %d albums\n", len(albums))

	return nil
}
