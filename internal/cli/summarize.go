package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/health-summary/constants"
	"github.com/joseph-ayodele/health-summary/internal/entity"
	"github.com/joseph-ayodele/health-summary/internal/pipeline"
)

var (
	summarizeText        string
	summarizeInputMethod string
	summarizePatient     string
	summarizeSave        bool
	summarizeOut         string
	summarizeJSON        bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarize one medical document",
	Long: `Summarizes a document file (.txt, .pdf or an image) or text given with
--text. Pass --text - to read the document from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVar(&summarizeText, "text", "", "document text instead of a file (- reads stdin)")
	summarizeCmd.Flags().StringVar(&summarizeInputMethod, "input-method", string(constants.FreeText), "how --text was captured: photo_ocr, free_text or guided_form")
	summarizeCmd.Flags().StringVarP(&summarizePatient, "patient", "p", "", "patient name shown in the summary")
	summarizeCmd.Flags().BoolVar(&summarizeSave, "save", false, "write the summary as JSON to the output directory")
	summarizeCmd.Flags().StringVarP(&summarizeOut, "out", "o", "", "write the summary JSON to this path (implies --save)")
	summarizeCmd.Flags().BoolVar(&summarizeJSON, "json", false, "print the summary as JSON instead of text")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	if (len(args) == 0) == (summarizeText == "") {
		return errors.New("provide either a file or --text")
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var entry entity.RunHistoryEntry
	if len(args) == 1 {
		res, err := a.files.ProcessFile(ctx, args[0], summarizePatient)
		if err != nil {
			return fmt.Errorf("summarize %s: %w", args[0], err)
		}
		if res.LowQuality {
			fmt.Fprintln(cmd.ErrOrStderr(), "Warning: the image text was hard to read, so this summary may be incomplete.")
		}
		entry = res.Entry
	} else {
		text := summarizeText
		if text == "-" {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			text = string(b)
		}
		method, err := constants.ParseInputMethod(summarizeInputMethod)
		if err != nil {
			return err
		}
		entry, err = a.pipeline.Process(ctx, pipeline.DocumentRequest{
			Text:        text,
			InputMethod: method,
			PatientName: summarizePatient,
		})
		if err != nil {
			return fmt.Errorf("summarize: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if summarizeJSON {
		b, err := json.MarshalIndent(entry.Summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		fmt.Fprintln(out, string(b))
	} else {
		fmt.Fprint(out, pipeline.FormatSummaryForDisplay(entry.Summary))
	}

	if summarizeSave || strings.TrimSpace(summarizeOut) != "" {
		path, err := a.pipeline.SaveSummaryToFile(entry.Summary, summarizeOut)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Summary saved to: %s\n", path)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "History index: %d\n", entry.Index)
	return nil
}
