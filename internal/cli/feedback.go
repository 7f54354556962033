package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/health-summary/internal/entity"
)

var (
	feedbackClarity      int
	feedbackHelpfulness  int
	feedbackCompleteness int
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback <index>",
	Short: "Rate a summary from history",
	Long: `Records 0-5 ratings for the summary at the given history index and
prints the resulting reward. Needs a persistent history backend to rate
summaries produced by earlier runs.`,
	Args: cobra.ExactArgs(1),
	RunE: runFeedback,
}

func init() {
	feedbackCmd.Flags().IntVar(&feedbackClarity, "clarity", 0, "how clear the summary was (0-5)")
	feedbackCmd.Flags().IntVar(&feedbackHelpfulness, "helpfulness", 0, "how helpful the summary was (0-5)")
	feedbackCmd.Flags().IntVar(&feedbackCompleteness, "completeness", 0, "how complete the summary was (0-5)")
	rootCmd.AddCommand(feedbackCmd)
}

func runFeedback(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("index must be an integer: %w", err)
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	reward, err := a.pipeline.CollectFeedback(ctx, index, entity.Feedback{
		Clarity:      feedbackClarity,
		Helpfulness:  feedbackHelpfulness,
		Completeness: feedbackCompleteness,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Feedback recorded for summary %d (reward %.2f)\n", index, reward)
	return nil
}
