// =============================================================================
// Finance Ledger Export - Main Entry Point
// =============================================================================
//
// This is the main entry point for the ledger-export CLI. It initializes
// the Cobra CLI framework and delegates command execution to the cmd
// package.
//
// USAGE:
//   ledger-export process   - Transform a source workbook
//   ledger-export inspect   - Detect a workbook's type without processing
//   ledger-export version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Core pipeline (parser, resolver, rules, serializer)
//   - pkg/       : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/liyongcheng94/finance-app/cmd"
)

func main() {
	cmd.Execute()
}
