package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-match/internal/album"
	"github.com/kozaktomas/face-match/internal/config"
	"github.com/kozaktomas/face-match/internal/database/memory"
	"github.com/kozaktomas/face-match/internal/faceembed"
	"github.com/kozaktomas/face-match/internal/ingest"
)

// testEnv bundles a service backed by memory records and a temporary photos directory.
type testEnv struct {
	service *ingest.Service
	backend *memory.RecordStore
	root    string
}

// testExtractor maps upload content to embeddings: "noface" has no face,
// "broken" fails, "far" is at distance 1 from the zero vector, anything else is the zero vector.
func testExtractor() faceembed.Extractor {
	return faceembed.ExtractorFunc(func(ctx context.Context, data []byte) ([]float64, error) {
		emb := make([]float64, 128)
		switch string(data) {
		case "noface":
			return nil, faceembed.ErrNoFaceDetected
		case "broken":
			return nil, &faceembed.ExtractionError{Err: errors.New("service unavailable")}
		case "far":
			emb[0] = 1
		}
		return emb, nil
	})
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Load().Storage
	cfg.PhotosDir = t.TempDir()

	backend := memory.NewRecordStore()
	svc := ingest.NewService(testExtractor(), album.NewStore(backend), album.NewPhotoDir(cfg), 0.6)
	return &testEnv{service: svc, backend: backend, root: cfg.PhotosDir}
}

// writePhoto places a file in an album directory
func (e *testEnv) writePhoto(t *testing.T, albumID, name, content string) {
	t.Helper()
	dir := filepath.Join(e.root, albumID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create album dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write photo: %v", err)
	}
}

// uploadRequest creates a multipart request with content in the "file" field
func uploadRequest(t *testing.T, path, content string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "selfie.jpg")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertContentType checks if the response has the expected content type
func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, expected string) {
	t.Helper()
	ct := recorder.Header().Get("Content-Type")
	if ct != expected {
		t.Errorf("expected Content-Type '%s', got '%s'", expected, ct)
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
