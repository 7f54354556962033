package cli

import (
	"context"
	"fmt"

	"github.com/joseph-ayodele/health-summary/internal/coach"
	"github.com/joseph-ayodele/health-summary/internal/common"
	"github.com/joseph-ayodele/health-summary/internal/explain"
	"github.com/joseph-ayodele/health-summary/internal/export"
	"github.com/joseph-ayodele/health-summary/internal/extract"
	"github.com/joseph-ayodele/health-summary/internal/llm/openai"
	"github.com/joseph-ayodele/health-summary/internal/ocr"
	"github.com/joseph-ayodele/health-summary/internal/pipeline"
	"github.com/joseph-ayodele/health-summary/internal/repository"
)

// app is the wired pipeline shared by every command.
type app struct {
	history   repository.HistoryStore
	extractor extract.Extractor
	reader    extract.TextExtractor
	pipeline  *pipeline.Pipeline
	files     *pipeline.FileProcessor
	export    *export.Service
}

func newApp(ctx context.Context) (*app, error) {
	history, err := repository.Open(ctx, cfg.History, logger)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	var extractor extract.Extractor = extract.NewRuleExtractor(logger)
	if cfg.Extractor.Kind == common.ExtractorOpenAI {
		client := openai.NewClient(openai.ConfigFrom(cfg.LLM), logger)
		extractor = extract.NewLLMExtractor(client, extractor, logger)
		logger.Info("openai extractor enabled", "model", cfg.LLM.Model)
	}

	p := pipeline.New(logger, pipeline.ConfigFrom(cfg.App), extractor,
		explain.New(logger), coach.NewRuleCoach(logger), history)
	reader := extract.NewOCRAdapter(ocr.NewExtractor(ocr.ConfigFrom(cfg.OCR), logger))

	return &app{
		history:   history,
		extractor: extractor,
		reader:    reader,
		pipeline:  p,
		files:     pipeline.NewFileProcessor(p, reader),
		export:    export.NewService(history, logger),
	}, nil
}

func (a *app) Close() {
	if err := a.history.Close(); err != nil {
		logger.Warn("history close failed", "error", err)
	}
}
