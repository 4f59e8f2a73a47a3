// =============================================================================
// Finance Ledger Export - Workbook Serializer
// =============================================================================
//
// This module renders ledger lines into the two-sheet import workbook:
//
//   t_Schema  - the importer's column metadata, headers plus the rows of
//               the bundled schema resource. Written first.
//   Page1     - the ledger lines under the fixed 35-column header.
//
// Cells are written only for keys a line actually carries: an absent key
// renders as an untouched cell, which the importer treats differently from
// an explicit empty string. Expense-claim exports write the FAmountFor
// column as a live SUM formula over the debit and credit cells, which is
// what the ERP template historically shipped with.
//
// =============================================================================

package ledgerwriter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/liyongcheng94/finance-app/internal/types"
)

// Options controls the rendering of the data sheet.
type Options struct {
	// AmountForFormula switches the FAmountFor column from literal values
	// to a per-row SUM formula over the debit and credit columns.
	AmountForFormula bool
}

// Serialize renders ledger lines into a workbook document. schemaRows is
// the decoded schema resource; a nil slice produces a headers-only schema
// sheet. Any failure is wrapped in a SerializationError and no output is
// produced.
func Serialize(lines []types.LedgerLine, schemaRows []map[string]any, opts Options) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSchemaSheet(f, schemaRows); err != nil {
		return nil, &types.SerializationError{Err: err}
	}
	if err := writeDataSheet(f, lines, opts); err != nil {
		return nil, &types.SerializationError{Err: err}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, &types.SerializationError{Err: err}
	}
	return buf.Bytes(), nil
}

// writeSchemaSheet writes the t_Schema sheet: header row plus one row per
// schema entry, cells written only for keys the entry carries.
func writeSchemaSheet(f *excelize.File, schemaRows []map[string]any) error {
	if err := f.SetSheetName("Sheet1", types.SchemaSheetName); err != nil {
		return fmt.Errorf("failed to create schema sheet: %w", err)
	}

	if err := writeHeader(f, types.SchemaSheetName, types.SchemaHeaders); err != nil {
		return err
	}

	for i, row := range schemaRows {
		for j, header := range types.SchemaHeaders {
			value, ok := row[header]
			if !ok {
				continue
			}
			if err := writeCell(f, types.SchemaSheetName, j+1, i+2, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeDataSheet writes the Page1 sheet with one row per ledger line.
func writeDataSheet(f *excelize.File, lines []types.LedgerLine, opts Options) error {
	if _, err := f.NewSheet(types.DataSheetName); err != nil {
		return fmt.Errorf("failed to create data sheet: %w", err)
	}

	if err := writeHeader(f, types.DataSheetName, types.LedgerHeaders); err != nil {
		return err
	}

	for i, line := range lines {
		rowNum := i + 2
		for j, header := range types.LedgerHeaders {
			if header == types.FieldAmountFor && opts.AmountForFormula {
				cell, err := excelize.CoordinatesToCellName(j+1, rowNum)
				if err != nil {
					return err
				}
				formula := fmt.Sprintf("SUM(K%d+L%d)", rowNum, rowNum)
				if err := f.SetCellFormula(types.DataSheetName, cell, formula); err != nil {
					return fmt.Errorf("failed to write formula at %s: %w", cell, err)
				}
				continue
			}
			value, ok := line[header]
			if !ok {
				continue
			}
			if err := writeCell(f, types.DataSheetName, j+1, rowNum, value); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	for i, header := range headers {
		if err := writeCell(f, sheet, i+1, 1, header); err != nil {
			return err
		}
	}
	return nil
}

func writeCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to write cell %s!%s: %w", sheet, cell, err)
	}
	return nil
}
