package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/health-summary/internal/entity"
	"github.com/joseph-ayodele/health-summary/internal/repository"
)

// SheetName is the worksheet holding one row per history entry.
const SheetName = "History"

var headers = []string{
	"Index",
	"Processed At",
	"Patient",
	"Input Method",
	"Extraction Quality",
	"Diagnoses",
	"Medications",
	"Glossary Terms",
	"Clarity",
	"Helpfulness",
	"Completeness",
	"Reward",
	"Run ID",
}

// Service produces XLSX bytes from the run history.
type Service struct {
	history repository.HistoryStore
	logger  *slog.Logger
}

func NewService(history repository.HistoryStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{history: history, logger: logger}
}

// ExportHistoryXLSX returns a workbook for the entries processed in the
// date window. Dates are compared day-wise in UTC, both ends inclusive.
// If only from is provided -> from..today.
// If neither is provided   -> the whole history.
func (s *Service) ExportHistoryXLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	fromDate, toDate := dateWindow(from, to)
	entries, err := s.history.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}

	row := 2
	for _, e := range entries {
		day := truncateDay(e.Timestamp)
		if fromDate != nil && day.Before(*fromDate) {
			continue
		}
		if toDate != nil && day.After(*toDate) {
			continue
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}

		sum := e.Summary
		write(1, e.Index)
		write(2, e.Timestamp.UTC().Format(time.RFC3339))
		write(3, sum.PatientName)
		write(4, string(e.InputMethod))
		write(5, string(e.ExtractionQuality))
		write(6, truncate(joinDiagnoses(sum.Section1Diagnoses.Diagnoses), 200))
		write(7, truncate(joinMedications(sum.Section2Medications.Medications), 200))
		write(8, joinAbbreviations(sum.Section6Glossary.Abbreviations))
		if e.Feedback != nil {
			write(9, e.Feedback.Clarity)
			write(10, e.Feedback.Helpfulness)
			write(11, e.Feedback.Completeness)
		}
		if e.Reward != nil {
			write(12, *e.Reward)
		}
		write(13, e.ID.String())
		row++
	}

	_ = f.SetColWidth(SheetName, "A", "A", 8)
	_ = f.SetColWidth(SheetName, "B", "B", 22)
	_ = f.SetColWidth(SheetName, "C", "C", 22)
	_ = f.SetColWidth(SheetName, "D", "E", 16)
	_ = f.SetColWidth(SheetName, "F", "G", 48)
	_ = f.SetColWidth(SheetName, "H", "H", 22)
	_ = f.SetColWidth(SheetName, "I", "L", 12)
	_ = f.SetColWidth(SheetName, "M", "M", 38)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", row-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func dateWindow(from, to *time.Time) (*time.Time, *time.Time) {
	var fromDate, toDate *time.Time
	if from != nil {
		f := truncateDay(*from)
		fromDate = &f
	}
	if to != nil {
		t := truncateDay(*to)
		toDate = &t
	}
	if fromDate != nil && toDate == nil {
		t := truncateDay(time.Now())
		toDate = &t
	}
	return fromDate, toDate
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func joinDiagnoses(dx []entity.ExplainedDiagnosis) string {
	names := make([]string, len(dx))
	for i, d := range dx {
		names[i] = d.Diagnosis
	}
	return strings.Join(names, "; ")
}

func joinMedications(meds []entity.ExplainedMedication) string {
	names := make([]string, len(meds))
	for i, m := range meds {
		names[i] = fmt.Sprintf("%s (%s)", m.Medication, m.Dosage)
	}
	return strings.Join(names, "; ")
}

func joinAbbreviations(abbr []entity.ExplainedAbbreviation) string {
	codes := make([]string, len(abbr))
	for i, a := range abbr {
		codes[i] = a.Abbreviation
	}
	return strings.Join(codes, ", ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
