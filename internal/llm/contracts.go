package llm

import (
	"context"

	"github.com/joseph-ayodele/health-summary/constants"
	"github.com/joseph-ayodele/health-summary/internal/entity"
)

// ExtractRequest carries one document's text to a model-backed extractor.
type ExtractRequest struct {
	Text         string
	InputMethod  constants.InputMethod
	FilenameHint string
	// MaxChars caps how much of Text is sent. Zero means DefaultMaxChars.
	MaxChars int
}

// DefaultMaxChars bounds the document text placed in a prompt.
const DefaultMaxChars = 6000

// FieldExtractor is the interface our extractor adapter depends on. The raw
// JSON the model returned (after sanitizing) is handed back for logging.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, req ExtractRequest) (entity.ExtractedData, []byte, error)
}
