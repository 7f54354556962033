package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	exportOut  string
	exportFrom string
	exportTo   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export history to an XLSX workbook",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "health_history.xlsx", "output XLSX path")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "first day to include, YYYY-MM-DD")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "last day to include, YYYY-MM-DD")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	from, err := parseDate("from", exportFrom)
	if err != nil {
		return err
	}
	to, err := parseDate("to", exportTo)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	xlsx, err := a.export.ExportHistoryXLSX(ctx, from, to)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if err := writeFile(exportOut, xlsx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported history to %s\n", exportOut)
	return nil
}
