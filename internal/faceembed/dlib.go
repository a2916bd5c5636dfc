//go:build dlib

package faceembed

import (
	"context"
	"fmt"
	"sync"

	"github.com/Kagami/go-face"
)

// DlibExtractor computes 128-dimensional dlib face descriptors in-process.
// The models directory must contain shape_predictor_5_face_landmarks.dat and
// dlib_face_recognition_resnet_model_v1.dat.
type DlibExtractor struct {
	mu           sync.Mutex
	rec          *face.Recognizer
	dim          int
	maxImageSize int
}

// NewDlibExtractor loads the dlib models from modelsDir.
func NewDlibExtractor(modelsDir string, dim, maxImageSize int) (*DlibExtractor, error) {
	rec, err := face.NewRecognizer(modelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load models from %s: %w", modelsDir, err)
	}
	return &DlibExtractor{rec: rec, dim: dim, maxImageSize: maxImageSize}, nil
}

// Extract returns the descriptor of the first face dlib finds.
func (d *DlibExtractor) Extract(ctx context.Context, data []byte) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ExtractionError{Err: err}
	}

	// go-face only decodes JPEG.
	prepared, err := Preprocess(data, d.maxImageSize)
	if err != nil {
		return nil, &ExtractionError{Err: err}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rec == nil {
		return nil, extractionErr("recognizer closed")
	}

	faces, err := d.rec.Recognize(prepared)
	if err != nil {
		return nil, extractionErr("face detection failed: %w", err)
	}
	if len(faces) == 0 {
		return nil, ErrNoFaceDetected
	}

	descriptor := faces[0].Descriptor
	embedding := make([]float64, len(descriptor))
	for i, v := range descriptor {
		embedding[i] = float64(v)
	}
	if err := checkDim(embedding, d.dim); err != nil {
		return nil, err
	}
	return embedding, nil
}

// Close releases the recognizer resources.
func (d *DlibExtractor) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rec != nil {
		d.rec.Close()
		d.rec = nil
	}
	return nil
}
