package handlers

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/face-match/internal/album"
)

// AlbumsHandler handles album browsing endpoints
type AlbumsHandler struct {
	store  *album.Store
	photos *album.PhotoDir
}

// NewAlbumsHandler creates a new albums handler
func NewAlbumsHandler(store *album.Store, photos *album.PhotoDir) *AlbumsHandler {
	return &AlbumsHandler{
		store:  store,
		photos: photos,
	}
}

// List returns all album directories
func (h *AlbumsHandler) List(w http.ResponseWriter, r *http.Request) {
	albums, err := h.photos.Albums()
	if err != nil {
		respondServiceError(w, err, "")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"albums": albums,
	})
}

// Photos returns the image files present in an album directory
func (h *AlbumsHandler) Photos(w http.ResponseWriter, r *http.Request) {
	albumID, err := h.photos.Resolve(chi.URLParam(r, "album_id"))
	if err != nil {
		respondServiceError(w, err, "")
		return
	}

	photos, err := h.photos.List(albumID)
	if err != nil {
		respondServiceError(w, err, "")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"photos": photos,
	})
}

// RecordsResponse describes the stored face records of an album
type RecordsResponse struct {
	AlbumID string   `json:"album_id"`
	Count   int      `json:"count"`
	Files   []string `json:"files"`
}

// Records returns the file names with a stored face embedding
func (h *AlbumsHandler) Records(w http.ResponseWriter, r *http.Request) {
	albumID, err := h.photos.Resolve(chi.URLParam(r, "album_id"))
	if err != nil {
		respondServiceError(w, err, "")
		return
	}

	files, err := h.store.Files(r.Context(), albumID)
	if err != nil {
		respondServiceError(w, err, "")
		return
	}

	respondJSON(w, http.StatusOK, RecordsResponse{
		AlbumID: albumID,
		Count:   len(files),
		Files:   files,
	})
}

// Download sends a photo as an attachment
func (h *AlbumsHandler) Download(w http.ResponseWriter, r *http.Request) {
	h.servePhoto(w, r, true)
}

// Serve sends a photo inline with its image content type
func (h *AlbumsHandler) Serve(w http.ResponseWriter, r *http.Request) {
	h.servePhoto(w, r, false)
}

func (h *AlbumsHandler) servePhoto(w http.ResponseWriter, r *http.Request, attachment bool) {
	albumID, err := h.photos.Resolve(chi.URLParam(r, "album_id"))
	if err != nil {
		respondServiceError(w, err, "")
		return
	}

	filename := chi.URLParam(r, "filename")
	f, info, err := h.photos.Open(albumID, filename)
	if err != nil {
		respondServiceError(w, err, "")
		return
	}
	defer f.Close()

	if attachment {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	} else if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "private, max-age=3600")

	http.ServeContent(w, r, filename, info.ModTime(), f)
}
