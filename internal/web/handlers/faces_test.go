package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kozaktomas/face-match/internal/database"
)

func TestFacesHandler_AddToDB_Success(t *testing.T) {
	env := newTestEnv(t)
	handler := NewFacesHandler(env.service)

	recorder := httptest.NewRecorder()
	handler.AddToDB(recorder, uploadRequest(t, "/add_to_db?album_id=vacation", "face"))

	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "application/json")

	var result map[string]string
	parseJSONResponse(t, recorder, &result)
	if result["message"] != "✅ Image added to album database." {
		t.Errorf("unexpected message %q", result["message"])
	}
	if !strings.HasSuffix(result["filename"], ".jpg") {
		t.Errorf("expected .jpg filename, got %q", result["filename"])
	}

	if _, err := os.Stat(filepath.Join(env.root, "vacation", result["filename"])); err != nil {
		t.Errorf("expected photo on disk: %v", err)
	}
	n, _ := env.service.Store().Count(context.Background(), "vacation")
	if n != 1 {
		t.Errorf("expected 1 record, got %d", n)
	}
}

func TestFacesHandler_AddToDB_NoFace(t *testing.T) {
	env := newTestEnv(t)
	handler := NewFacesHandler(env.service)

	recorder := httptest.NewRecorder()
	handler.AddToDB(recorder, uploadRequest(t, "/add_to_db?album_id=vacation", "noface"))

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "No face found in image.")
	if env.backend.Saves() != 0 {
		t.Error("expected no record writes")
	}
	if _, err := os.Stat(filepath.Join(env.root, "vacation")); !os.IsNotExist(err) {
		t.Error("expected no album directory")
	}
}

func TestFacesHandler_AddToDB_ExtractionFailure(t *testing.T) {
	env := newTestEnv(t)
	handler := NewFacesHandler(env.service)

	recorder := httptest.NewRecorder()
	handler.AddToDB(recorder, uploadRequest(t, "/add_to_db?album_id=vacation", "broken"))

	assertStatusCode(t, recorder, http.StatusBadGateway)
	assertJSONError(t, recorder, "face extraction failed")
}

func TestFacesHandler_BadRequests(t *testing.T) {
	env := newTestEnv(t)
	handler := NewFacesHandler(env.service)

	tests := []struct {
		name          string
		request       func() *http.Request
		expectedError string
	}{
		{
			name:          "missing album_id",
			request:       func() *http.Request { return uploadRequest(t, "/add_to_db", "face") },
			expectedError: "album_id is required",
		},
		{
			name:          "invalid album_id",
			request:       func() *http.Request { return uploadRequest(t, "/add_to_db?album_id=..", "face") },
			expectedError: "invalid album_id",
		},
		{
			name: "not multipart",
			request: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/add_to_db?album_id=a", strings.NewReader("{}"))
			},
			expectedError: "failed to parse multipart form",
		},
		{
			name:          "empty file",
			request:       func() *http.Request { return uploadRequest(t, "/add_to_db?album_id=a", "") },
			expectedError: "empty file",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			handler.AddToDB(recorder, tc.request())

			assertStatusCode(t, recorder, http.StatusBadRequest)
			assertJSONError(t, recorder, tc.expectedError)
		})
	}
}

func TestFacesHandler_Compare(t *testing.T) {
	env := newTestEnv(t)
	handler := NewFacesHandler(env.service)
	if err := env.service.Store().Append(context.Background(), "vacation", database.Record{
		File: "a.jpg", Embedding: make([]float64, 128),
	}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{"same face", "face", []string{"vacation/a.jpg"}},
		{"distance at one", "far", []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			handler.Compare(recorder, uploadRequest(t, "/compare?album_id=vacation", tc.content))

			assertStatusCode(t, recorder, http.StatusOK)
			var result struct {
				Matches []string `json:"matches"`
			}
			parseJSONResponse(t, recorder, &result)
			if result.Matches == nil {
				t.Fatal("expected matches to be a JSON array")
			}
			if strings.Join(result.Matches, ",") != strings.Join(tc.expected, ",") {
				t.Errorf("expected %v, got %v", tc.expected, result.Matches)
			}
		})
	}
}

func TestFacesHandler_Compare_NoFace(t *testing.T) {
	env := newTestEnv(t)
	handler := NewFacesHandler(env.service)

	recorder := httptest.NewRecorder()
	handler.Compare(recorder, uploadRequest(t, "/compare?album_id=vacation", "noface"))

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "No face detected in selfie.")
}

func TestFacesHandler_Compare_CorruptAlbum(t *testing.T) {
	env := newTestEnv(t)
	env.backend.LoadError = &database.StorageError{AlbumID: "vacation", Op: "load", Err: database.ErrMalformed}
	handler := NewFacesHandler(env.service)

	recorder := httptest.NewRecorder()
	handler.Compare(recorder, uploadRequest(t, "/compare?album_id=vacation", "face"))

	assertStatusCode(t, recorder, http.StatusInternalServerError)
	assertJSONError(t, recorder, "album data is corrupt")
}
