package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <album_id> <photo>",
	Short: "Find the album photos showing the face in a photo",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().Float64("threshold", 0, "Maximum face distance for a match (overrides MATCH_THRESHOLD)")
	compareCmd.Flags().BoolP("verbose", "v", false, "Show the distance of each match")
	compareCmd.Flags().Bool("json", false, "Output as JSON")
}

func runCompare(cmd *cobra.Command, args []string) error {
	albumID, photoPath := args[0], args[1]

	data, err := os.ReadFile(photoPath) //nolint:gosec // user-supplied path is intended
	if err != nil {
		return fmt.Errorf("failed to read photo: %w", err)
	}

	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	results, err := a.service.CompareWithDistances(cmd.Context(), albumID, data)
	if err != nil {
		return err
	}

	if mustGetBool(cmd, "json") {
		if mustGetBool(cmd, "verbose") {
			return outputJSON(results)
		}
		matches := make([]string, len(results))
		for i, r := range results {
			matches[i] = r.File
		}
		return outputJSON(map[string]any{"matches": matches})
	}

	if len(results) == 0 {
		fmt.Println("No matching photos found.")
		return nil
	}

	verbose := mustGetBool(cmd, "verbose")
	for _, r := range results {
		if verbose {
			fmt.Printf("%s\t%.4f\n", r.File, r.Distance)
		} else {
			fmt.Println(r.File)
		}
	}
	fmt.Printf("\n%d match(es) below distance %.2f\n", len(results), a.service.Threshold())
	return nil
}
