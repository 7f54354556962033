package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/health-summary/constants"
)

var ocrCmd = &cobra.Command{
	Use:   "ocr <file>",
	Short: "Print the text read from a document file",
	Args:  cobra.ExactArgs(1),
	RunE:  runOCR,
}

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the medical facts extracted from a document file as JSON",
	Long: `Runs only text reading and extraction, without explaining or coaching. Uses
the configured extractor, so with extractor.kind = "openai" this exercises the
model call.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

var dbcheckTimeout time.Duration

var dbcheckCmd = &cobra.Command{
	Use:   "dbcheck",
	Short: "Check that the configured history backend is reachable",
	Args:  cobra.NoArgs,
	RunE:  runDBCheck,
}

func init() {
	dbcheckCmd.Flags().DurationVar(&dbcheckTimeout, "timeout", 5*time.Second, "how long to wait for the backend")
	rootCmd.AddCommand(ocrCmd, extractCmd, dbcheckCmd)
}

func runOCR(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	start := time.Now()
	res, err := a.reader.Extract(ctx, args[0])
	if err != nil {
		return fmt.Errorf("text extraction failed: %w", err)
	}
	errOut := cmd.ErrOrStderr()
	fmt.Fprintf(errOut, "method=%s pages=%d confidence=%.2f input_method=%s duration=%s\n",
		res.Method, res.Pages, res.Confidence, res.InputMethod, time.Since(start).Round(time.Millisecond))
	for _, w := range res.Warnings {
		fmt.Fprintf(errOut, "warning: %s\n", w)
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Text)
	return nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.reader.Extract(ctx, args[0])
	if err != nil {
		return fmt.Errorf("text extraction failed: %w", err)
	}
	method := res.InputMethod
	if method == "" {
		method = constants.FreeText
	}
	data, err := a.extractor.ExtractAll(ctx, res.Text, method)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal extraction: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

func runDBCheck(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), dbcheckTimeout)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return fmt.Errorf("%s: FAIL (%w)", cfg.History.Backend, err)
	}
	defer a.Close()

	n, err := a.history.Len(ctx)
	if err != nil {
		return fmt.Errorf("%s: FAIL (%w)", cfg.History.Backend, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: OK (%d entries)\n", cfg.History.Backend, n)
	return nil
}
