package web

import (
	"github.com/kozaktomas/face-match/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	// Create handlers
	facesHandler := handlers.NewFacesHandler(s.service)
	albumsHandler := handlers.NewAlbumsHandler(s.service.Store(), s.service.Photos())

	s.router.Get("/", handlers.Root)
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// Faces
	s.router.Post("/add_to_db", facesHandler.AddToDB)
	s.router.Post("/compare", facesHandler.Compare)

	// Albums
	s.router.Get("/albums", albumsHandler.List)
	s.router.Get("/albums/{album_id}/records", albumsHandler.Records)
	s.router.Get("/photos/{album_id}", albumsHandler.Photos)
	s.router.Get("/photos/{album_id}/{filename}", albumsHandler.Serve)
	s.router.Get("/download/{album_id}/{filename}", albumsHandler.Download)
}
