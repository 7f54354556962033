package extract

import (
	"context"
	"time"

	"github.com/joseph-ayodele/health-summary/constants"
	"github.com/joseph-ayodele/health-summary/internal/entity"
)

// TextExtractor reads a document file into text (file -> text).
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text        string
	Pages       int
	SourceType  string // "TEXT" | "PDF" | "IMAGE"
	Method      string // "plain-text" | "pdf-text" | "pdf-ocr" | "image-ocr"
	InputMethod constants.InputMethod
	Language    string
	Duration    time.Duration
	Warnings    []string
	Confidence  float32
}

// Extractor is stage 1 of the summary pipeline (text -> fields). The result
// is always normalized: every sequence present, possibly empty.
type Extractor interface {
	ExtractAll(ctx context.Context, text string, inputMethod constants.InputMethod) (entity.ExtractedData, error)
}
