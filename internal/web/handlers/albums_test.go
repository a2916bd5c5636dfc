package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/face-match/internal/database"
)

func TestAlbumsHandler_Photos(t *testing.T) {
	env := newTestEnv(t)
	env.writePhoto(t, "vacation", "b.png", "png")
	env.writePhoto(t, "vacation", "a.jpg", "jpg")
	env.writePhoto(t, "vacation", "embeddings_db.json", "[]")
	handler := NewAlbumsHandler(env.service.Store(), env.service.Photos())

	req := requestWithChiParams(httptest.NewRequest(http.MethodGet, "/photos/vacation", nil), map[string]string{
		"album_id": "vacation",
	})
	recorder := httptest.NewRecorder()
	handler.Photos(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	var result struct {
		Photos []string `json:"photos"`
	}
	parseJSONResponse(t, recorder, &result)
	if len(result.Photos) != 2 || result.Photos[0] != "a.jpg" || result.Photos[1] != "b.png" {
		t.Errorf("expected [a.jpg b.png], got %v", result.Photos)
	}
}

func TestAlbumsHandler_Photos_NotFound(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAlbumsHandler(env.service.Store(), env.service.Photos())

	req := requestWithChiParams(httptest.NewRequest(http.MethodGet, "/photos/missing", nil), map[string]string{
		"album_id": "missing",
	})
	recorder := httptest.NewRecorder()
	handler.Photos(recorder, req)

	assertStatusCode(t, recorder, http.StatusNotFound)
	assertJSONError(t, recorder, "Album not found")
}

func TestAlbumsHandler_Photos_DirectoryNameNotNormalized(t *testing.T) {
	env := newTestEnv(t)
	env.writePhoto(t, "trip ", "a.jpg", "jpg")
	env.writePhoto(t, "cafe\u0301", "b.jpg", "jpg")
	handler := NewAlbumsHandler(env.service.Store(), env.service.Photos())

	tests := []struct {
		albumID  string
		expected string
	}{
		{"trip ", "a.jpg"},
		{"trip", "a.jpg"},
		{"cafe\u0301", "b.jpg"},
		{"caf\u00e9", "b.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.albumID, func(t *testing.T) {
			req := requestWithChiParams(httptest.NewRequest(http.MethodGet, "/photos/x", nil), map[string]string{
				"album_id": tt.albumID,
			})
			recorder := httptest.NewRecorder()
			handler.Photos(recorder, req)

			assertStatusCode(t, recorder, http.StatusOK)
			var result struct {
				Photos []string `json:"photos"`
			}
			parseJSONResponse(t, recorder, &result)
			if len(result.Photos) != 1 || result.Photos[0] != tt.expected {
				t.Errorf("expected [%s], got %v", tt.expected, result.Photos)
			}
		})
	}
}

func TestAlbumsHandler_Download(t *testing.T) {
	env := newTestEnv(t)
	env.writePhoto(t, "vacation", "a.jpg", "jpeg bytes")
	handler := NewAlbumsHandler(env.service.Store(), env.service.Photos())

	req := requestWithChiParams(httptest.NewRequest(http.MethodGet, "/download/vacation/a.jpg", nil), map[string]string{
		"album_id": "vacation",
		"filename": "a.jpg",
	})
	recorder := httptest.NewRecorder()
	handler.Download(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "application/octet-stream")
	if cd := recorder.Header().Get("Content-Disposition"); cd != "attachment; filename=a.jpg" {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}
	if recorder.Body.String() != "jpeg bytes" {
		t.Errorf("unexpected body %q", recorder.Body.String())
	}
}

func TestAlbumsHandler_Download_NotFound(t *testing.T) {
	env := newTestEnv(t)
	env.writePhoto(t, "vacation", "a.jpg", "jpeg bytes")
	handler := NewAlbumsHandler(env.service.Store(), env.service.Photos())

	tests := []struct {
		name     string
		albumID  string
		filename string
	}{
		{"missing file", "vacation", "b.jpg"},
		{"missing album", "other", "a.jpg"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := requestWithChiParams(httptest.NewRequest(http.MethodGet, "/download", nil), map[string]string{
				"album_id": tc.albumID,
				"filename": tc.filename,
			})
			recorder := httptest.NewRecorder()
			handler.Download(recorder, req)

			assertStatusCode(t, recorder, http.StatusNotFound)
			assertJSONError(t, recorder, "Image not found")
		})
	}
}

func TestAlbumsHandler_Serve(t *testing.T) {
	env := newTestEnv(t)
	env.writePhoto(t, "vacation", "b.png", "png bytes")
	handler := NewAlbumsHandler(env.service.Store(), env.service.Photos())

	req := requestWithChiParams(httptest.NewRequest(http.MethodGet, "/photos/vacation/b.png", nil), map[string]string{
		"album_id": "vacation",
		"filename": "b.png",
	})
	recorder := httptest.NewRecorder()
	handler.Serve(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "image/png")
	if recorder.Header().Get("Content-Disposition") != "" {
		t.Error("expected inline response")
	}
}

func TestAlbumsHandler_Serve_Traversal(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAlbumsHandler(env.service.Store(), env.service.Photos())

	req := requestWithChiParams(httptest.NewRequest(http.MethodGet, "/photos", nil), map[string]string{
		"album_id": "vacation",
		"filename": "../../etc/passwd",
	})
	recorder := httptest.NewRecorder()
	handler.Serve(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "invalid filename")
}

func TestAlbumsHandler_List(t *testing.T) {
	env := newTestEnv(t)
	env.writePhoto(t, "beta", "a.jpg", "x")
	env.writePhoto(t, "alpha", "a.jpg", "x")
	handler := NewAlbumsHandler(env.service.Store(), env.service.Photos())

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest(http.MethodGet, "/albums", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	var result struct {
		Albums []string `json:"albums"`
	}
	parseJSONResponse(t, recorder, &result)
	if len(result.Albums) != 2 || result.Albums[0] != "alpha" || result.Albums[1] != "beta" {
		t.Errorf("expected [alpha beta], got %v", result.Albums)
	}
}

func TestAlbumsHandler_Records(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, f := range []string{"x.jpg", "y.jpg"} {
		if err := env.service.Store().Append(ctx, "vacation", database.Record{File: f, Embedding: []float64{0}}); err != nil {
			t.Fatal(err)
		}
	}
	handler := NewAlbumsHandler(env.service.Store(), env.service.Photos())

	req := requestWithChiParams(httptest.NewRequest(http.MethodGet, "/albums/vacation/records", nil), map[string]string{
		"album_id": "vacation",
	})
	recorder := httptest.NewRecorder()
	handler.Records(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	var result RecordsResponse
	parseJSONResponse(t, recorder, &result)
	if result.AlbumID != "vacation" || result.Count != 2 || result.Files[1] != "y.jpg" {
		t.Errorf("unexpected response %+v", result)
	}
}
