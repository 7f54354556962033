package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/health-summary/constants"
	"github.com/joseph-ayodele/health-summary/internal/entity"
)

// DefaultSummaryFilename is the file name used when none is supplied.
func DefaultSummaryFilename() string {
	return constants.SummaryFilePrefix + timeNow().Format(constants.SummaryTimestampLayout) + constants.SummaryFileExt
}

// SaveSummaryToFile writes s as indented JSON and returns the path written.
// An empty filename gets DefaultSummaryFilename inside the output directory.
func (p *Pipeline) SaveSummaryToFile(s entity.Summary, filename string) (string, error) {
	if filename == "" {
		filename = filepath.Join(p.cfg.OutputDir, DefaultSummaryFilename())
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(filename, append(b, '\n'), 0o644); err != nil {
		p.logger.Error("pipeline.save.failed", "path", filename, "error", err)
		return "", fmt.Errorf("write summary: %w", err)
	}
	p.logger.Info("pipeline.save.ok", "path", filename, "bytes", len(b)+1)
	return filename, nil
}
