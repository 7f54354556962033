package ocr

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/health-summary/constants"
)

type fakeRunner struct {
	outputs map[string]string // binary name -> stdout
	fail    map[string]bool
	calls   []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	if f.fail[name] {
		return nil, []byte("boom"), errors.New("exit status 1")
	}
	return []byte(f.outputs[name]), nil, nil
}

func TestExtract_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("  DIAGNOSES:\r\n\t1. Asthma  \n\n\n\nBP: 120/80"), 0o644))

	res, err := NewExtractorWithRunner(Config{}, &fakeRunner{}, nil).Extract(t.Context(), path)
	require.NoError(t, err)
	assert.Equal(t, "DIAGNOSES:\n1. Asthma\n\nBP: 120/80", res.Text)
	assert.Equal(t, constants.TEXT, res.SourceType)
	assert.Equal(t, constants.FreeText, res.InputMethod())
}

func TestExtract_ImageUsesTesseract(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{"tesseract": "MEDICATIONS:\n• Furosemide 40mg daily\n-----\n"}}
	e := NewExtractorWithRunner(Config{TessdataDir: "/td"}, r, nil)

	res, err := e.Extract(t.Context(), "/scans/rx.JPG")
	require.NoError(t, err)
	assert.Equal(t, "MEDICATIONS:\n- Furosemide 40mg daily", res.Text)
	assert.Equal(t, constants.PhotoOCR, res.InputMethod())
	assert.Equal(t, "eng", res.Language)
	require.Len(t, r.calls, 1)
	assert.Equal(t, "tesseract /scans/rx.JPG stdout -l eng --tessdata-dir /td", r.calls[0])
}

func TestExtract_PDFFallsBackToOCRWhenTextLayerEmpty(t *testing.T) {
	r := &fakeRunner{
		outputs: map[string]string{"pdftotext": "\f", "tesseract": "unused"},
	}
	e := NewExtractorWithRunner(Config{}, r, nil)

	// pdftoppm is faked, so no page images appear and OCR reports an error.
	_, err := e.Extract(t.Context(), "/docs/discharge.pdf")
	require.Error(t, err)
	require.Len(t, r.calls, 2)
	assert.True(t, strings.HasPrefix(r.calls[1], "pdftoppm -r 300 -png /docs/discharge.pdf"))
}

func TestExtract_PDFTextLayer(t *testing.T) {
	text := "DISCHARGE SUMMARY\nDIAGNOSES:\n1. Hypertension\nBlood Pressure: 150/95 mmHg\f"
	r := &fakeRunner{outputs: map[string]string{"pdftotext": text}}
	res, err := NewExtractorWithRunner(Config{}, r, nil).Extract(t.Context(), "/docs/d.pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf-text", res.Method)
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, constants.FreeText, res.InputMethod())
}

func TestExtract_Errors(t *testing.T) {
	e := NewExtractorWithRunner(Config{}, &fakeRunner{fail: map[string]bool{"tesseract": true}}, nil)
	_, err := e.Extract(t.Context(), "x.png")
	assert.Error(t, err)

	_, err = e.Extract(t.Context(), "x.docx")
	assert.ErrorContains(t, err, "unsupported extension")

	_, err = e.Extract(t.Context(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMeanTSVConfidence(t *testing.T) {
	tsv := "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
		"5\t1\t1\t1\t1\t1\t0\t0\t10\t10\t90\tBP\n" +
		"5\t1\t1\t1\t1\t2\t0\t0\t10\t10\t70\t120/80\n" +
		"4\t1\t1\t1\t1\t0\t0\t0\t10\t10\t-1\t\n"
	assert.InDelta(t, 0.8, meanTSVConfidence(tsv), 1e-6)
	assert.Zero(t, meanTSVConfidence("header only\n"))
}

func TestHeuristicConfidence(t *testing.T) {
	clean := "MEDICATIONS:\n1. Lisinopril 20mg daily\nBlood Pressure: 142/88 mmHg\nA1C: 8.2%\nFollow up with your doctor in one week for a recheck of your labs."
	noisy := "#@$ ~~ ^^ {{ }} ## @@ !!"
	assert.Greater(t, heuristicConfidence(clean), heuristicConfidence(noisy))
	assert.LessOrEqual(t, heuristicConfidence(clean), float32(1))
	assert.GreaterOrEqual(t, heuristicConfidence(noisy), float32(0))
}

func TestExecRunner_MissingTool(t *testing.T) {
	_, _, err := execRunner{logger: slog.Default()}.Run(t.Context(), "definitely-not-an-ocr-tool-4711")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrToolMissing)
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
	assert.Equal(t, "a...", truncate("aé", 2), "é is two bytes and must not be split")
}
