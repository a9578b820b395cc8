package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayo6706/payment-batch/internal/app"
	"github.com/ayo6706/payment-batch/internal/config"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the payment batch job",
		Args:  cobra.NoArgs,
		RunE:  runBatch,
	}
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := app.Run(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d validated, %d invalid, %d reported, %d rejected\n",
		summary.RunID, summary.Validated, summary.Invalid, summary.Reported, summary.Rejected)
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
