// =============================================================================
// Finance Ledger Export - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI.
//
// COBRA CLI STRUCTURE:
//   ledger-export
//   ├── process  - transform a source workbook into the import workbook
//   ├── inspect  - detect a workbook's type and show its layout
//   └── version  - display the application version
//
// The root command owns the global flags (--policy, --verbose) and the
// logger setup; subcommands pull the loaded policy and logger from here.
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/liyongcheng94/finance-app/internal/config"
)

// policyFile holds the path to an optional policy override file. An empty
// path runs on the embedded defaults.
var policyFile string

// verbose enables debug logging when set to true.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ledger-export",
	Short: "Transform finance workbooks into ERP import workbooks",
	Long: `ledger-export turns the finance team's daily workbooks - vendor payment
schedules (排单) and employee expense claims (报销) - into balanced
double-entry vouchers, serialized as the two-sheet workbook the ERP
import expects.

Example Usage:
  ledger-export process --file 3月排单.xlsx            # auto-detects the type
  ledger-export process --file claims.xlsx --mode reimbursement
  ledger-export inspect --file upload.xlsx             # what would this be?`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&policyFile,
		"policy",
		"",
		"Path to a policy override file (defaults apply when omitted)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// newLogger builds the logger subcommands run with.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadPolicy loads the accounting policy honoring the --policy flag.
func loadPolicy() (*config.Policy, error) {
	policy, err := config.Load(policyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}
	return policy, nil
}
