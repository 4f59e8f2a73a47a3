// =============================================================================
// Finance Ledger Export - Inspect Command
// =============================================================================
//
// This file defines the 'inspect' command, a dry look at a workbook: which
// pipeline the detector would pick and what sheets the file carries. Useful
// when an upload is being processed as the wrong type.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/liyongcheng94/finance-app/internal/processor"
	"github.com/liyongcheng94/finance-app/internal/sheetparser"
)

// Preview size for the per-sheet row dump.
const (
	sampleRows  = 3
	sampleWidth = 12
)

// inspectFile is the workbook to inspect.
var inspectFile string

// inspectCmd represents the 'inspect' command.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Detect a workbook's type and list its sheets",
	Long: `The inspect command opens a workbook without processing it, reports which
type the detector would choose (payment or reimbursement) and lists the
worksheets it found. No output file is written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect()
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(
		&inspectFile,
		"file",
		"",
		"Path to the workbook to inspect (required)",
	)
	inspectCmd.MarkFlagRequired("file")
}

// runInspect classifies the workbook and prints its layout.
func runInspect() error {
	policy, err := loadPolicy()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(inspectFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	proc := processor.New(policy, processor.WithLogger(newLogger()))
	mode, err := proc.Detect(data, filepath.Base(inspectFile))
	if err != nil {
		return err
	}

	wb, err := sheetparser.OpenBytes(data)
	if err != nil {
		return err
	}
	defer wb.Close()

	fmt.Printf("File:     %s\n", inspectFile)
	fmt.Printf("Detected: %s\n", mode)
	fmt.Println("Sheets:")
	for _, name := range wb.SheetNames() {
		fmt.Printf("  - %s\n", name)
		for _, row := range wb.SampleRows(name, sampleRows, sampleWidth) {
			if text := strings.TrimSpace(strings.Join(row, " | ")); strings.Trim(text, " |") != "" {
				fmt.Printf("      %s\n", text)
			}
		}
	}
	return nil
}
