package handlers

import (
	"log"
	"net/http"

	"github.com/kozaktomas/face-match/internal/ingest"
)

// FacesHandler handles face ingestion and matching endpoints.
type FacesHandler struct {
	service *ingest.Service
}

// NewFacesHandler creates a new faces handler.
func NewFacesHandler(svc *ingest.Service) *FacesHandler {
	return &FacesHandler{service: svc}
}

// AddToDB stores an uploaded photo in the album given by the album_id query
// parameter and records its face embedding.
func (h *FacesHandler) AddToDB(w http.ResponseWriter, r *http.Request) {
	albumID := r.URL.Query().Get("album_id")
	if albumID == "" {
		respondError(w, http.StatusBadRequest, "album_id is required")
		return
	}

	data, err := readUpload(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	filename, err := h.service.AddPhoto(r.Context(), albumID, data)
	if err != nil {
		log.Printf("add_to_db album=%s: %v", sanitizeForLog(albumID), err)
		respondServiceError(w, err, "No face found in image.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message":  "✅ Image added to album database.",
		"filename": filename,
	})
}

// Compare matches the face in an uploaded photo against the album's records.
func (h *FacesHandler) Compare(w http.ResponseWriter, r *http.Request) {
	albumID := r.URL.Query().Get("album_id")
	if albumID == "" {
		respondError(w, http.StatusBadRequest, "album_id is required")
		return
	}

	data, err := readUpload(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	matches, err := h.service.Compare(r.Context(), albumID, data)
	if err != nil {
		log.Printf("compare album=%s: %v", sanitizeForLog(albumID), err)
		respondServiceError(w, err, "No face detected in selfie.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"matches": matches,
	})
}
