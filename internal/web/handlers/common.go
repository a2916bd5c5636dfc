package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/kozaktomas/face-match/internal/album"
	"github.com/kozaktomas/face-match/internal/constants"
	"github.com/kozaktomas/face-match/internal/database"
	"github.com/kozaktomas/face-match/internal/faceembed"
)

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps album, storage and extraction errors to HTTP responses.
// noFaceMessage is used for photos without a detectable face.
func respondServiceError(w http.ResponseWriter, err error, noFaceMessage string) {
	var extErr *faceembed.ExtractionError
	switch {
	case errors.Is(err, faceembed.ErrNoFaceDetected):
		respondError(w, http.StatusBadRequest, noFaceMessage)
	case errors.Is(err, faceembed.ErrInvalidImage):
		respondError(w, http.StatusBadRequest, "invalid image")
	case errors.Is(err, album.ErrInvalidAlbumID):
		respondError(w, http.StatusBadRequest, "invalid album_id")
	case errors.Is(err, album.ErrInvalidFilename):
		respondError(w, http.StatusBadRequest, "invalid filename")
	case errors.Is(err, album.ErrAlbumNotFound):
		respondError(w, http.StatusNotFound, "Album not found")
	case errors.Is(err, album.ErrPhotoNotFound):
		respondError(w, http.StatusNotFound, "Image not found")
	case errors.As(err, &extErr):
		log.Printf("Face extraction failed: %v", err)
		respondError(w, http.StatusBadGateway, "face extraction failed")
	case errors.Is(err, database.ErrMalformed):
		log.Printf("Corrupt album data: %v", err)
		respondError(w, http.StatusInternalServerError, "album data is corrupt")
	default:
		log.Printf("Request failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// readUpload returns the content of the uploaded image in the "file" form field.
func readUpload(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		return nil, errors.New("failed to parse multipart form")
	}

	file, _, err := r.FormFile(constants.UploadFormField)
	if err != nil {
		return nil, errors.New("no file provided")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, constants.MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) > constants.MaxUploadSize {
		return nil, errors.New("file too large")
	}
	if len(data) == 0 {
		return nil, errors.New("empty file")
	}
	return data, nil
}

// Root handles the service banner endpoint.
func Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "Face match server running.",
	})
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
