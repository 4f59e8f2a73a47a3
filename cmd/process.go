// =============================================================================
// Finance Ledger Export - Process Command
// =============================================================================
//
// This file defines the 'process' command, the main command of the tool. It
// runs the full pipeline for one workbook:
//
//   1. Load the accounting policy
//   2. Open the source workbook and detect (or accept) its type
//   3. Parse, cross-reference and post the records as vouchers
//   4. Write the two-sheet import workbook into the output directory
//
// The output file name carries the export type, a timestamp and a short
// random qualifier, so repeated runs never overwrite each other.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/liyongcheng94/finance-app/internal/processor"
	"github.com/liyongcheng94/finance-app/internal/types"
	"github.com/liyongcheng94/finance-app/pkg/utils"
)

// inputFile is the source workbook to process.
var inputFile string

// processMode selects the pipeline: payment, reimbursement or auto.
var processMode string

// preparer is the voucher preparer's display name.
var preparer string

// outputDir is where the import workbook is written.
var outputDir string

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Transform a source workbook into the ERP import workbook",
	Long: `The process command reads a vendor payment schedule (排单) or an employee
expense claim workbook (报销), cross-references its lookup sheets, posts the
records as balanced double-entry vouchers and writes the two-sheet import
workbook (t_Schema + Page1).

With --mode auto (the default) the type is detected from the file name, the
sheet names and finally the sheet contents. Cross-reference failures abort
the run and report every missing supplier, project and fee type at once; no
output file is written on failure.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess()
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(
		&inputFile,
		"file",
		"",
		"Path to the source workbook (required)",
	)
	processCmd.MarkFlagRequired("file")

	processCmd.Flags().StringVar(
		&processMode,
		"mode",
		"auto",
		"Processing mode: payment, reimbursement or auto",
	)

	processCmd.Flags().StringVar(
		&preparer,
		"preparer",
		"",
		"Voucher preparer display name (policy default when omitted)",
	)

	processCmd.Flags().StringVar(
		&outputDir,
		"output-dir",
		"outputs",
		"Directory for the generated workbook",
	)
}

// runProcess executes the processing pipeline for one workbook.
func runProcess() error {
	logger := newLogger()

	policy, err := loadPolicy()
	if err != nil {
		return err
	}

	mode := types.Mode(processMode)
	if mode != types.ModeAuto && !mode.Valid() {
		return fmt.Errorf("invalid mode %q: expected payment, reimbursement or auto", processMode)
	}

	logger.Info("processing workbook", "file", inputFile, "mode", mode)

	proc := processor.New(policy, processor.WithLogger(logger))
	result, err := proc.ProcessFile(inputFile, mode, preparer)
	if err != nil {
		return err
	}

	outputPath := filepath.Join(outputDir, result.SuggestedName)
	if err := utils.WriteFileAtomic(outputPath, result.Output); err != nil {
		return err
	}

	logger.Info("workbook written",
		"output", outputPath,
		"mode", result.Mode,
		"records", result.RecordCount)

	fmt.Printf("Processed %d records (%s)\n", result.RecordCount, result.Mode)
	fmt.Printf("Output: %s\n", outputPath)
	return nil
}
