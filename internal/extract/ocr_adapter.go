package extract

import (
	"context"

	"github.com/joseph-ayodele/health-summary/internal/ocr"
)

var _ TextExtractor = (*OCRAdapter)(nil)

// OCRAdapter exposes an ocr.Extractor as a TextExtractor.
type OCRAdapter struct {
	e *ocr.Extractor
}

func NewOCRAdapter(e *ocr.Extractor) *OCRAdapter {
	return &OCRAdapter{e: e}
}

func (a *OCRAdapter) Extract(ctx context.Context, path string) (TextExtractionResult, error) {
	r, err := a.e.Extract(ctx, path)
	return TextExtractionResult{
		Text:        r.Text,
		Pages:       r.Pages,
		SourceType:  r.SourceType,
		Method:      r.Method,
		InputMethod: r.InputMethod(),
		Language:    r.Language,
		Duration:    r.Duration,
		Warnings:    r.Warnings,
		Confidence:  r.Confidence,
	}, err
}
