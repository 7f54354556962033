package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/health-summary/constants"
	"github.com/joseph-ayodele/health-summary/internal/common"
	"github.com/joseph-ayodele/health-summary/internal/entity"
	"github.com/joseph-ayodele/health-summary/internal/export"
	"github.com/joseph-ayodele/health-summary/internal/pipeline"
)

var _ SummaryServiceServer = (*SummaryService)(nil)

type SummaryService struct {
	pipeline *pipeline.Pipeline
	export   *export.Service
	logger   *slog.Logger
}

func NewSummaryService(p *pipeline.Pipeline, exp *export.Service, logger *slog.Logger) *SummaryService {
	if logger == nil {
		logger = slog.Default()
	}
	if exp == nil {
		exp = export.NewService(p.History(), logger)
	}
	return &SummaryService{pipeline: p, export: exp, logger: logger}
}

// Summarize expects {text, input_method?, patient_name?, include_display?}.
// input_method defaults to free_text.
func (s *SummaryService) Summarize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	text := stringField(req, "text")
	if strings.TrimSpace(text) == "" {
		s.logger.Error("summarize request missing text")
		return nil, common.InvalidArgumentError("text is required")
	}
	method := constants.FreeText
	if raw := stringField(req, "input_method"); raw != "" {
		m, err := constants.ParseInputMethod(raw)
		if err != nil {
			return nil, common.InvalidArgumentError(err.Error())
		}
		method = m
	}

	entry, err := s.pipeline.Process(ctx, pipeline.DocumentRequest{
		Text:        text,
		InputMethod: method,
		PatientName: stringField(req, "patient_name"),
	})
	if err != nil {
		s.logger.Error("summarize failed", "input_method", method, "error", err)
		return nil, common.ToGRPCError(err)
	}

	out := map[string]any{
		"index":   entry.Index,
		"id":      entry.ID.String(),
		"summary": entry.Summary,
	}
	if boolField(req, "include_display") {
		out["display"] = pipeline.FormatSummaryForDisplay(entry.Summary)
	}
	s.logger.Info("summary created", "index", entry.Index, "quality", entry.ExtractionQuality)
	return toStruct(out)
}

// SubmitFeedback expects {index, clarity, helpfulness, completeness}.
func (s *SummaryService) SubmitFeedback(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	index, err := intField(req, "index", true)
	if err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	var fb entity.Feedback
	for name, dst := range map[string]*int{
		"clarity":      &fb.Clarity,
		"helpfulness":  &fb.Helpfulness,
		"completeness": &fb.Completeness,
	} {
		if *dst, err = intField(req, name, false); err != nil {
			return nil, common.InvalidArgumentError(err.Error())
		}
	}

	reward, err := s.pipeline.CollectFeedback(ctx, index, fb)
	if err != nil {
		return nil, common.ToGRPCError(err)
	}
	return toStruct(map[string]any{"index": index, "reward": reward})
}

// ListHistory returns {entries: [...]} without the full summaries unless
// include_summary is set.
func (s *SummaryService) ListHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	entries, err := s.pipeline.History().List(ctx)
	if err != nil {
		s.logger.Error("failed to list history", "error", err)
		return nil, common.ToGRPCError(err)
	}
	withSummary := boolField(req, "include_summary")
	items := make([]any, 0, len(entries))
	for _, e := range entries {
		items = append(items, HistoryItem(e, withSummary))
	}
	s.logger.Info("history listed", "count", len(items))
	return toStruct(map[string]any{"entries": items})
}

// ExportHistory expects optional {from_date, to_date} as YYYY-MM-DD and
// returns {xlsx_base64, filename}.
func (s *SummaryService) ExportHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	from, err := dateField(req, "from_date")
	if err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	to, err := dateField(req, "to_date")
	if err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	xlsx, err := s.export.ExportHistoryXLSX(ctx, from, to)
	if err != nil {
		s.logger.Error("export.xlsx.failed", "error", err)
		return nil, common.InternalError(err.Error())
	}
	return toStruct(map[string]any{
		"filename":    "health_history.xlsx",
		"xlsx_base64": base64.StdEncoding.EncodeToString(xlsx),
	})
}

// HistoryItem is the wire form of a history entry shared by the gRPC and
// HTTP surfaces.
func HistoryItem(e entity.RunHistoryEntry, withSummary bool) map[string]any {
	item := map[string]any{
		"index":              e.Index,
		"id":                 e.ID.String(),
		"timestamp":          e.Timestamp.UTC().Format(time.RFC3339Nano),
		"input_method":       string(e.InputMethod),
		"extraction_quality": string(e.ExtractionQuality),
		"patient_name":       e.Summary.PatientName,
	}
	if e.Feedback != nil {
		item["feedback"] = e.Feedback
	}
	if e.Reward != nil {
		item["reward"] = *e.Reward
	}
	if withSummary {
		item["summary"] = e.Summary
	}
	return item
}

// toStruct round-trips v through JSON so struct tags decide field names.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, common.InternalErrorf("encode reply: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, common.InternalErrorf("encode reply: %v", err)
	}
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, common.InternalErrorf("encode reply: %v", err)
	}
	return st, nil
}

func stringField(s *structpb.Struct, name string) string {
	return strings.TrimSpace(s.GetFields()[name].GetStringValue())
}

func boolField(s *structpb.Struct, name string) bool {
	return s.GetFields()[name].GetBoolValue()
}

func intField(s *structpb.Struct, name string, required bool) (int, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		if required {
			return 0, fmt.Errorf("%s is required", name)
		}
		return 0, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	f := n.NumberValue
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return int(f), nil
}

func dateField(s *structpb.Struct, name string) (*time.Time, error) {
	raw := stringField(s, name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be YYYY-MM-DD", name)
	}
	return &t, nil
}
