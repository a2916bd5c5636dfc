// Package faceembed turns photos into face embeddings.
//
// Two extractors are available: Client talks to a face embedding service over
// HTTP, DlibExtractor runs dlib in-process and is only compiled with the
// "dlib" build tag.
package faceembed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kozaktomas/face-match/internal/config"
)

var (
	// ErrNoFaceDetected is returned when the image contains no detectable face.
	ErrNoFaceDetected = errors.New("no face detected")
	// ErrInvalidImage is returned (wrapped in an ExtractionError) when the image cannot be decoded.
	ErrInvalidImage = errors.New("invalid image")
)

// Extractor computes the embedding of the first face found in an image.
type Extractor interface {
	Extract(ctx context.Context, data []byte) ([]float64, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, data []byte) ([]float64, error)

// Extract calls f(ctx, data).
func (f ExtractorFunc) Extract(ctx context.Context, data []byte) ([]float64, error) {
	return f(ctx, data)
}

// ExtractionError reports that the extractor failed for a reason other than
// the image having no face: undecodable input, an unreachable service, a
// descriptor of the wrong size.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return "face extraction failed: " + e.Err.Error()
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func extractionErr(format string, args ...any) error {
	return &ExtractionError{Err: fmt.Errorf(format, args...)}
}

// checkDim verifies the embedding has the configured length. A dim of 0 disables the check.
func checkDim(embedding []float64, dim int) error {
	if len(embedding) == 0 {
		return extractionErr("empty embedding returned")
	}
	if dim > 0 && len(embedding) != dim {
		return extractionErr("embedding has %d dimensions, expected %d", len(embedding), dim)
	}
	return nil
}

// Open creates the extractor selected by cfg.Extractor. The result may
// implement io.Closer; use Close to release it.
func Open(cfg config.EmbeddingConfig) (Extractor, error) {
	switch cfg.Extractor {
	case "", "http":
		return NewClient(cfg.URL, cfg.Dim, cfg.MaxImageSize), nil
	case "dlib":
		d, err := NewDlibExtractor(cfg.ModelsDir, cfg.Dim, cfg.MaxImageSize)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown extractor %q (expected http or dlib)", cfg.Extractor)
	}
}

// Close releases e if it holds resources.
func Close(e Extractor) error {
	if c, ok := e.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
