package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/joseph-ayodele/health-summary/constants"
	"github.com/joseph-ayodele/health-summary/internal/common"
	"github.com/joseph-ayodele/health-summary/internal/entity"
	"github.com/joseph-ayodele/health-summary/internal/extract"
	"github.com/joseph-ayodele/health-summary/internal/ocr"
)

// FileResult is the outcome of summarizing one document file.
type FileResult struct {
	Path       string
	Entry      entity.RunHistoryEntry
	Text       extract.TextExtractionResult
	LowQuality bool
}

// FileProcessor reads a document file into text and runs it through the
// pipeline. The input method follows how the text was obtained.
type FileProcessor struct {
	pipeline *Pipeline
	reader   extract.TextExtractor
}

func NewFileProcessor(p *Pipeline, reader extract.TextExtractor) *FileProcessor {
	return &FileProcessor{pipeline: p, reader: reader}
}

func (f *FileProcessor) ProcessFile(ctx context.Context, path, patientName string) (FileResult, error) {
	ext := filepath.Ext(path)
	format := constants.MapExtToFormat(ext)
	if format == "" {
		return FileResult{Path: path}, common.NewAppError("UNSUPPORTED", fmt.Sprintf("unsupported format: %s", ext), common.ErrInvalidInput)
	}

	res, err := f.reader.Extract(ctx, path)
	if err != nil {
		f.pipeline.logger.Error("pipeline.read.failed", "path", path, "error", err)
		return FileResult{Path: path, Text: res}, fmt.Errorf("read %s: %w", path, err)
	}

	out := FileResult{Path: path, Text: res}
	if format == constants.IMAGE && res.Confidence > 0 && res.Confidence < ocr.ImageConfidenceThreshold {
		f.pipeline.logger.Warn("pipeline.read.low_confidence", "path", path, "confidence", res.Confidence)
		out.LowQuality = true
	}
	f.pipeline.logger.Info("pipeline.read.ok",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"confidence", res.Confidence,
	)

	method := res.InputMethod
	if method == "" {
		method = constants.FreeText
	}
	entry, err := f.pipeline.Process(ctx, DocumentRequest{
		Text:        res.Text,
		InputMethod: method,
		PatientName: patientName,
	})
	if err != nil {
		return out, err
	}
	out.Entry = entry
	return out, nil
}
