package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Running the root command with no
// subcommand runs the batch job.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "paymentbatch",
		Short: "Validate, report and route a payment file",
		Long: `paymentbatch reads a flat payment file and runs three stages in order:
validate-and-route, report, and rejected-drain. Valid payments get commission
and USD amounts; invalid ones are written to the rejected file with a reason.`,
		RunE:          runBatch,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "YAML config file")
	flags.String("input", "", "input payment file")
	flags.String("validated-out", "", "validated payments output file")
	flags.String("report-out", "", "report output file")
	flags.String("rejected-out", "", "rejected payments output file")
	flags.String("commission-rate", "", "commission rate applied to valid payments")
	flags.Int("chunk-size", 0, "records per chunk")
	flags.String("log-level", "", "debug, info, warn or error")

	root.AddCommand(newRunCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd(version))
	return root
}

// Execute runs the root command
func Execute(version string) error {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
