package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var photosCmd = &cobra.Command{
	Use:   "photos <album_id>",
	Short: "List the photos of an album",
	Args:  cobra.ExactArgs(1),
	RunE:  runPhotos,
}

func init() {
	rootCmd.AddCommand(photosCmd)

	photosCmd.Flags().Bool("json", false, "Output as JSON")
}

func runPhotos(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	albumID, err := a.service.Photos().Resolve(args[0])
	if err != nil {
		return err
	}
	photos, err := a.service.Photos().List(albumID)
	if err != nil {
		return err
	}

	if mustGetBool(cmd, "json") {
		return outputJSON(map[string]any{"photos": photos})
	}

	for _, p := range photos {
		fmt.Println(p)
	}
	fmt.Printf("\nTotal: %d photos\n", len(photos))
	return nil
}
