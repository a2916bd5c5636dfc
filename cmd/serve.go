package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-match/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the Face Match HTTP server.
The server stores uploaded photos per album, records their face embeddings
and matches selfies against an album for the album frontend.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides WEB_PORT, default 8000)")
	serveCmd.Flags().String("host", "", "Host to bind to (overrides WEB_HOST, default 0.0.0.0)")
	serveCmd.Flags().Float64("threshold", 0, "Maximum face distance for a match (overrides MATCH_THRESHOLD)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	if port := mustGetInt(cmd, "port"); port > 0 {
		a.cfg.Web.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		a.cfg.Web.Host = host
	}

	if err := os.MkdirAll(a.cfg.Storage.PhotosDir, 0o755); err != nil {
		return fmt.Errorf("creating photos directory: %w", err)
	}

	fmt.Printf("Using %s record storage, photos in %s\n", a.cfg.Storage.Backend, a.cfg.Storage.PhotosDir)
	fmt.Printf("Face extractor: %s (match threshold %.2f)\n", a.cfg.Embedding.Extractor, a.service.Threshold())

	server := web.NewServer(a.cfg, a.service)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Face Match on http://%s:%d\n", a.cfg.Web.Host, a.cfg.Web.Port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
