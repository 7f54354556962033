// Package cli implements the health-summary command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/health-summary/internal/common"
)

// version is set at build time with -ldflags "-X .../internal/cli.version=...".
var version = "dev"

var (
	configPath string
	logLevel   string

	cfg    *common.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "health-summary",
	Short: "Turn medical documents into plain-language health summaries",
	Long: `Reads discharge notes, lab reports and prescriptions and produces a
patient-friendly summary: what each diagnosis means, what the medications
are for, an action plan, warning signs and questions for the doctor.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file (default $"+common.ConfigFileEnv+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := common.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.App.LogLevel = logLevel
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	logger = common.NewLogger(c.App, cmd.ErrOrStderr())
	slog.SetDefault(logger)
	return nil
}

func parseDate(flag, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s date, use YYYY-MM-DD: %w", flag, err)
	}
	return &t, nil
}

func writeFile(path string, b []byte) error {
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
