// Package pipeline runs a medical document through extraction, explanation
// and coaching, and assembles the patient-facing summary.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/health-summary/constants"
	"github.com/joseph-ayodele/health-summary/internal/coach"
	"github.com/joseph-ayodele/health-summary/internal/common"
	"github.com/joseph-ayodele/health-summary/internal/entity"
	"github.com/joseph-ayodele/health-summary/internal/explain"
	"github.com/joseph-ayodele/health-summary/internal/extract"
	"github.com/joseph-ayodele/health-summary/internal/repository"
)

var timeNow = time.Now

// Config holds the pipeline settings that reach the summary or its files.
type Config struct {
	AgentVersion string
	OutputDir    string
}

// ConfigFrom maps application config onto pipeline settings.
func ConfigFrom(c common.AppConfig) Config {
	return Config{AgentVersion: c.AgentVersion, OutputDir: c.OutputDir}
}

// DocumentRequest is one document to summarize. PatientName may be empty
// and a zero InputMethod means free text.
type DocumentRequest struct {
	Text        string
	InputMethod constants.InputMethod
	PatientName string
}

// Pipeline sequences Extract -> Explain -> Coach -> Assemble and records
// every successful run in its history store.
type Pipeline struct {
	logger    *slog.Logger
	cfg       Config
	extractor extract.Extractor
	explainer *explain.Explainer
	coach     coach.Coach
	history   repository.HistoryStore
}

func New(
	logger *slog.Logger,
	cfg Config,
	extractor extract.Extractor,
	explainer *explain.Explainer,
	c coach.Coach,
	history repository.HistoryStore,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.AgentVersion == "" {
		cfg.AgentVersion = constants.DefaultAgentVersion
	}
	if explainer == nil {
		explainer = explain.New(logger)
	}
	if history == nil {
		history = repository.NewMemoryHistory(logger)
	}
	return &Pipeline{
		logger:    logger,
		cfg:       cfg,
		extractor: extractor,
		explainer: explainer,
		coach:     c,
		history:   history,
	}
}

// History returns the store the pipeline appends to.
func (p *Pipeline) History() repository.HistoryStore { return p.history }

// ProcessDocument runs all stages in order and returns the assembled
// summary. Any stage failure aborts the call; nothing is recorded then.
func (p *Pipeline) ProcessDocument(ctx context.Context, req DocumentRequest) (entity.Summary, error) {
	entry, err := p.Process(ctx, req)
	if err != nil {
		return entity.Summary{}, err
	}
	return entry.Summary, nil
}

// Process is ProcessDocument returning the recorded history entry, so
// callers can address the run later by its index.
func (p *Pipeline) Process(ctx context.Context, req DocumentRequest) (entity.RunHistoryEntry, error) {
	if req.InputMethod == "" {
		req.InputMethod = constants.FreeText
	}
	if err := validateRequest(req); err != nil {
		return entity.RunHistoryEntry{}, err
	}
	start := timeNow()
	log := common.LoggerFrom(ctx, p.logger)

	extracted, err := p.extractor.ExtractAll(ctx, req.Text, req.InputMethod)
	if err != nil {
		log.Error("pipeline.extract.failed", "input_method", req.InputMethod, "error", err)
		return entity.RunHistoryEntry{}, fmt.Errorf("%s: %w", constants.StageExtract, err)
	}
	extracted = extracted.Normalize()
	if extracted.InputMethod == "" {
		extracted.InputMethod = req.InputMethod
	}
	// Stores reject unknown quality labels, so an extractor that leaves it
	// blank gets one derived from what it found.
	if !extracted.ExtractionQuality.Valid() {
		extracted.ExtractionQuality = constants.QualityFromCoverage(extract.Coverage(extracted))
	}
	log.Info("pipeline.extract.ok",
		"diagnoses", len(extracted.Diagnoses),
		"medications", len(extracted.Medications),
		"tests", len(extracted.TestResults),
		"flagged", len(extracted.FlaggedTerms),
		"quality", extracted.ExtractionQuality,
	)

	if err := ctx.Err(); err != nil {
		return entity.RunHistoryEntry{}, fmt.Errorf("%s: %w", constants.StageExplain, err)
	}
	explained := p.explainer.ExplainAll(extracted)
	log.Info("pipeline.explain.ok",
		"diagnoses", len(explained.Diagnoses),
		"abbreviations", len(explained.Abbreviations),
	)

	plan, err := p.coach.GenerateActionPlan(ctx, explained)
	if err != nil {
		log.Error("pipeline.coach.failed", "error", err)
		return entity.RunHistoryEntry{}, fmt.Errorf("%s: %w", constants.StageCoach, err)
	}
	plan = plan.Normalize()
	log.Info("pipeline.coach.ok",
		"warning_signs", len(plan.WarningSigns),
		"questions", len(plan.QuestionsForDoctor),
	)

	summary := p.AssembleFinalSummary(extracted, explained, plan, req.PatientName)

	entry, err := p.history.Append(ctx, entity.RunHistoryEntry{
		ID:                uuid.New(),
		Timestamp:         timeNow(),
		InputMethod:       req.InputMethod,
		ExtractionQuality: extracted.ExtractionQuality,
		Summary:           summary,
	})
	if err != nil {
		log.Error("pipeline.record.failed", "error", err)
		return entity.RunHistoryEntry{}, fmt.Errorf("%s: %w", constants.StageRecord, err)
	}
	log.Info("pipeline.record.ok",
		"index", entry.Index,
		"id", entry.ID,
		"elapsed_ms", timeNow().Sub(start).Milliseconds(),
	)
	return entry, nil
}

// MaxDocumentChars bounds the text accepted for one document.
const MaxDocumentChars = 200_000

const maxPatientNameChars = 200

func validateRequest(req DocumentRequest) error {
	return common.NewValidator().
		Field("text", req.Text, common.Required, common.MaxLength(MaxDocumentChars)).
		Field("patient_name", req.PatientName, common.MaxLength(maxPatientNameChars)).
		Field("input_method", string(req.InputMethod), common.OneOf(constants.InputMethods()...)).
		Error()
}
