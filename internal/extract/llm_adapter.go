package extract

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/health-summary/constants"
	"github.com/joseph-ayodele/health-summary/internal/entity"
	"github.com/joseph-ayodele/health-summary/internal/llm"
)

var _ Extractor = (*LLMExtractor)(nil)

// LLMExtractor adapts an llm.FieldExtractor to the Extractor contract. When a
// fallback is set, model failures are logged and the fallback's result is
// returned instead.
type LLMExtractor struct {
	fe       llm.FieldExtractor
	fallback Extractor
	logger   *slog.Logger
}

func NewLLMExtractor(fe llm.FieldExtractor, fallback Extractor, logger *slog.Logger) *LLMExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMExtractor{fe: fe, fallback: fallback, logger: logger}
}

func (e *LLMExtractor) ExtractAll(ctx context.Context, text string, inputMethod constants.InputMethod) (entity.ExtractedData, error) {
	out, _, err := e.fe.ExtractFields(ctx, llm.ExtractRequest{Text: text, InputMethod: inputMethod})
	if err != nil {
		if e.fallback == nil || ctx.Err() != nil {
			return entity.ExtractedData{}, err
		}
		e.logger.Warn("extract.llm.fallback", "error", err)
		return e.fallback.ExtractAll(ctx, text, inputMethod)
	}

	out.InputMethod = inputMethod
	out = out.Normalize()
	if !out.ExtractionQuality.Valid() {
		out.ExtractionQuality = constants.QualityFromCoverage(Coverage(out))
	}
	return out, nil
}
