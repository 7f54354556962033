package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/health-summary/internal/async"
	"github.com/joseph-ayodele/health-summary/internal/ingest"
	"github.com/joseph-ayodele/health-summary/internal/pipeline"
)

var (
	batchPatient string
	batchOut     string
	batchFrom    string
	batchTo      string
	batchNoXLSX  bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Summarize every document in a directory",
	Long: `Walks a directory, skipping hidden files and duplicate content, summarizes
each supported document on the worker pool and exports the resulting history
to an XLSX workbook.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchPatient, "patient", "p", "", "patient name shown in every summary")
	batchCmd.Flags().StringVarP(&batchOut, "out", "o", "", "output XLSX path (default <dir>/../health_history.xlsx)")
	batchCmd.Flags().StringVar(&batchFrom, "from", "", "first day to export, YYYY-MM-DD")
	batchCmd.Flags().StringVar(&batchTo, "to", "", "last day to export, YYYY-MM-DD")
	batchCmd.Flags().BoolVar(&batchNoXLSX, "no-export", false, "skip the XLSX export")
	rootCmd.AddCommand(batchCmd)
}

// batchTally counts queue outcomes reported from worker goroutines.
type batchTally struct {
	mu        sync.Mutex
	processed int
	failed    int
	lowconf   int
}

func (t *batchTally) record(_ async.Job, res pipeline.FileResult, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.failed++
		return
	}
	t.processed++
	if res.LowQuality {
		t.lowconf++
	}
}

func newQueue(a *app, onResult async.ResultHandler) *async.ProcessorQueue {
	return async.NewProcessorQueue(a.files, logger,
		async.WithWorkers(cfg.Batch.Workers),
		async.WithQueueSize(cfg.Batch.QueueSize),
		async.WithProcessTimeout(cfg.Batch.ProcessTimeout.Duration),
		async.WithResultHandler(onResult),
	)
}

func submitTo(q async.Queue, patient string) ingest.SubmitFunc {
	return func(ctx context.Context, path string) error {
		return q.Enqueue(ctx, async.Job{
			Path:        path,
			PatientName: patient,
			SubmittedAt: time.Now(),
			TraceID:     uuid.NewString(),
		})
	}
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	from, err := parseDate("from", batchFrom)
	if err != nil {
		return err
	}
	to, err := parseDate("to", batchTo)
	if err != nil {
		return err
	}
	out := batchOut
	if out == "" {
		out = filepath.Join(filepath.Dir(filepath.Clean(dir)), "health_history.xlsx")
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var tally batchTally
	q := newQueue(a, tally.record)
	ingestor := ingest.NewFSIngestor(submitTo(q, batchPatient), nil, logger)

	logger.Info("starting ingestion", "dir", dir)
	_, stats, err := ingestor.IngestDirectory(ctx, dir, true)
	q.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", dir, err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Scanned %d entries: %d matched, %d queued, %d duplicates, %d failed to queue\n",
		stats.Scanned, stats.Matched, stats.Succeeded-stats.Deduplicated, stats.Deduplicated, stats.Failed)
	fmt.Fprintf(w, "Summarized %d documents, %d failed", tally.processed, tally.failed)
	if tally.lowconf > 0 {
		fmt.Fprintf(w, ", %d with low OCR confidence", tally.lowconf)
	}
	fmt.Fprintln(w)

	if batchNoXLSX {
		return nil
	}
	xlsx, err := a.export.ExportHistoryXLSX(ctx, from, to)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if err := writeFile(out, xlsx); err != nil {
		return err
	}
	fmt.Fprintf(w, "Exported history to %s\n", out)
	return nil
}
