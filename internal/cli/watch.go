package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/health-summary/internal/async"
	"github.com/joseph-ayodele/health-summary/internal/ingest"
	"github.com/joseph-ayodele/health-summary/internal/pipeline"
)

var (
	watchPatient     string
	watchInitialScan bool
	watchDebounce    time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>...",
	Short: "Summarize documents as they appear in directories",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchPatient, "patient", "p", "", "patient name shown in every summary")
	watchCmd.Flags().BoolVar(&watchInitialScan, "initial-scan", true, "summarize files already present at startup")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "wait for writes to settle before reading a file")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	w := cmd.OutOrStdout()
	q := newQueue(a, func(job async.Job, res pipeline.FileResult, err error) {
		if err != nil {
			fmt.Fprintf(w, "FAILED %s: %v\n", job.Path, err)
			return
		}
		fmt.Fprintf(w, "OK %s -> history index %d\n", job.Path, res.Entry.Index)
	})
	// ctx is already done on exit; let in-flight jobs finish.
	defer q.Shutdown(context.Background())
	ingestor := ingest.NewFSIngestor(submitTo(q, watchPatient), nil, logger)

	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       args,
		InitialScan: watchInitialScan,
		Debounce:    watchDebounce,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	logger.Info("watching", "roots", args)

	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-events:
			if !ok {
				return nil
			}
			if res, err := ingestor.IngestPath(ctx, path); err != nil {
				logger.Warn("watch.ingest.failed", "path", path, "error", err)
			} else if res.Deduplicated {
				logger.Info("watch.ingest.duplicate", "path", path)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watch.error", "error", err)
		}
	}
}
