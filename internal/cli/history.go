package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var historyJSON bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List processed summaries",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output entries as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.history.List(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if historyJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No summaries yet.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tPROCESSED\tPATIENT\tINPUT\tQUALITY\tREWARD")
	for _, e := range entries {
		reward := "-"
		if e.Reward != nil {
			reward = fmt.Sprintf("%.2f", *e.Reward)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			e.Index,
			e.Timestamp.Local().Format(time.DateTime),
			e.Summary.PatientName,
			e.InputMethod,
			e.ExtractionQuality,
			reward,
		)
	}
	return tw.Flush()
}
