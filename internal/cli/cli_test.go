package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/health-summary/internal/common"
	"github.com/joseph-ayodele/health-summary/internal/entity"
)

const dischargeNote = `DISCHARGE SUMMARY
Diagnoses:
1. Hypertension
2. Type 2 Diabetes
Medications:
- Lisinopril 20mg daily
Vitals:
BP: 150/95
A1C: 7.5%
Patient counseled on DM and HTN.`

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// bindContext hands ctx to every command. Cobra only fills in a
// subcommand's context when it has none, so package-level commands would
// otherwise keep the first test's context after that test ends.
func bindContext(c *cobra.Command, ctx context.Context) {
	c.SetContext(ctx)
	for _, sub := range c.Commands() {
		bindContext(sub, ctx)
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	bindContext(rootCmd, t.Context())
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()
	err := rootCmd.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

// writeConfig points history at a sqlite file so state survives between runs.
func writeConfig(t *testing.T) (configFile, dir string) {
	t.Helper()
	dir = t.TempDir()
	configFile = filepath.Join(dir, "config.toml")
	content := `
[app]
output_dir = "` + filepath.ToSlash(dir) + `"
log_level = "error"

[history]
backend = "sqlite"
sqlite_path = "` + filepath.ToSlash(filepath.Join(dir, "history.db")) + `"

[batch]
workers = 2
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))
	return configFile, dir
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "health-summary version test-version-1.0.0")
}

func TestExecute_FreshContextPerRun(t *testing.T) {
	t.Run("first", func(t *testing.T) {
		_, _, err := execute(t, "version")
		require.NoError(t, err)
	})
	_, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.NoError(t, versionCmd.Context().Err())
	assert.NoError(t, summarizeCmd.Context().Err())
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"summarize", "batch", "watch", "serve", "feedback", "history", "export", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestSummarizeCmd_TextJSON(t *testing.T) {
	configFile, _ := writeConfig(t)

	out, errOut, err := execute(t, "--config", configFile, "summarize", "--text", dischargeNote, "--patient", "Mary", "--json")
	require.NoError(t, err)

	var s entity.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, "Mary", s.PatientName)
	assert.Len(t, s.Section1Diagnoses.Diagnoses, 2)
	assert.Contains(t, errOut, "History index: 0")
}

func TestSummarizeCmd_NeedsExactlyOneSource(t *testing.T) {
	configFile, dir := writeConfig(t)

	_, _, err := execute(t, "--config", configFile, "summarize")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "either a file or --text")

	_, _, err = execute(t, "--config", configFile, "summarize", "--text", "x", filepath.Join(dir, "note.txt"))
	require.Error(t, err)
}

func TestSummarizeCmd_RejectsUnknownInputMethod(t *testing.T) {
	configFile, _ := writeConfig(t)
	_, _, err := execute(t, "--config", configFile, "summarize", "--text", dischargeNote, "--input-method", "fax")
	require.Error(t, err)
}

func TestSummarizeFeedbackHistoryExport(t *testing.T) {
	configFile, dir := writeConfig(t)
	note := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(note, []byte(dischargeNote), 0o644))
	saved := filepath.Join(dir, "summary.json")

	out, errOut, err := execute(t, "--config", configFile, "summarize", note, "--out", saved)
	require.NoError(t, err)
	assert.Contains(t, out, "YOUR HEALTH SUMMARY")
	assert.Contains(t, errOut, "Summary saved to: "+saved)
	assert.FileExists(t, saved)

	out, _, err = execute(t, "--config", configFile, "feedback", "0", "--clarity", "5", "--helpfulness", "5", "--completeness", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "reward 4.80")

	out, _, err = execute(t, "--config", configFile, "history", "--json")
	require.NoError(t, err)
	var entries []entity.RunHistoryEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Reward)
	assert.InDelta(t, 4.8, *entries[0].Reward, 1e-9)

	out, _, err = execute(t, "--config", configFile, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "INDEX")
	assert.Contains(t, out, "4.80")

	xlsxPath := filepath.Join(dir, "history.xlsx")
	_, _, err = execute(t, "--config", configFile, "export", "--out", xlsxPath)
	require.NoError(t, err)
	f, err := excelize.OpenFile(xlsxPath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("History")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestFeedbackCmd_InvalidIndex(t *testing.T) {
	configFile, _ := writeConfig(t)

	_, _, err := execute(t, "--config", configFile, "feedback", "7", "--clarity", "3")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidFeedbackIndex)

	_, _, err = execute(t, "--config", configFile, "feedback", "first")
	require.Error(t, err)
}

func TestExportCmd_BadDate(t *testing.T) {
	configFile, _ := writeConfig(t)
	_, _, err := execute(t, "--config", configFile, "export", "--from", "2025/01/01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--from")
}

func TestBatchCmd_DedupsAndExports(t *testing.T) {
	configFile, dir := writeConfig(t)
	docs := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(docs, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "a.txt"), []byte(dischargeNote), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "b.txt"), []byte(dischargeNote), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "c.txt"), []byte("Diagnosis: Asthma\nMedications:\n- Albuterol 2 puffs as needed"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(docs, ".draft.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "notes.docx"), []byte("ignored"), 0o644))
	xlsxPath := filepath.Join(dir, "batch.xlsx")

	out, _, err := execute(t, "--config", configFile, "batch", docs, "--out", xlsxPath)
	require.NoError(t, err)
	assert.Contains(t, out, "3 matched, 2 queued, 1 duplicates, 0 failed to queue")
	assert.Contains(t, out, "Summarized 2 documents, 0 failed")
	assert.FileExists(t, xlsxPath)

	out, _, err = execute(t, "--config", configFile, "history", "--json")
	require.NoError(t, err)
	var entries []entity.RunHistoryEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Len(t, entries, 2)
}

func TestLoadConfig_RejectsInvalidBackend(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(configFile, []byte("[history]\nbackend = \"redis\"\n"), 0o644))

	_, _, err := execute(t, "--config", configFile, "history")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestOCRAndExtractCmds(t *testing.T) {
	configFile, dir := writeConfig(t)
	note := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(note, []byte(dischargeNote), 0o644))

	out, errOut, err := execute(t, "--config", configFile, "ocr", note)
	require.NoError(t, err)
	assert.Contains(t, out, "Lisinopril 20mg daily")
	assert.Contains(t, errOut, "method=plain-text")

	out, _, err = execute(t, "--config", configFile, "extract", note)
	require.NoError(t, err)
	var data entity.ExtractedData
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	assert.Len(t, data.Diagnoses, 2)
	require.NotEmpty(t, data.Medications)
	assert.Contains(t, out, "Lisinopril")

	_, _, err = execute(t, "--config", configFile, "ocr", filepath.Join(dir, "notes.docx"))
	require.Error(t, err)
}

func TestDBCheckCmd(t *testing.T) {
	configFile, _ := writeConfig(t)
	out, _, err := execute(t, "--config", configFile, "dbcheck")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite: OK (0 entries)")
}
