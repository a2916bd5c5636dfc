//go:build !dlib

package faceembed

import (
	"context"
	"errors"
)

var errDlibDisabled = errors.New("dlib extractor not available: rebuild with -tags dlib")

// DlibExtractor is unavailable in builds without the dlib tag.
type DlibExtractor struct{}

// NewDlibExtractor always fails in builds without the dlib tag.
func NewDlibExtractor(modelsDir string, dim, maxImageSize int) (*DlibExtractor, error) {
	return nil, errDlibDisabled
}

func (d *DlibExtractor) Extract(ctx context.Context, data []byte) ([]float64, error) {
	return nil, &ExtractionError{Err: errDlibDisabled}
}

func (d *DlibExtractor) Close() error {
	return nil
}
