// =============================================================================
// Finance Ledger Export - Workbook Parser
// =============================================================================
//
// This module wraps excelize with the row-access patterns the pipeline
// needs. Source workbooks are hand-maintained, so the parser is deliberately
// forgiving about ragged rows: every returned row is padded (or truncated)
// to a fixed column count so downstream indexing never bounds-checks.
//
// Two access styles are provided:
//   - Rows:    header-driven sheets. Skips any row whose first cell is
//              blank, which is how the finance team marks spacer rows.
//   - RawRows: positional sheets (the reimbursement layout) where blank
//              leading cells are meaningful and every row must survive.
//
// =============================================================================

package sheetparser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/liyongcheng94/finance-app/internal/types"
)

// =============================================================================
// WORKBOOK
// =============================================================================

// Workbook is an open source workbook. It is not safe for concurrent use.
type Workbook struct {
	file *excelize.File
}

// Open opens a workbook from disk.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return &Workbook{file: f}, nil
}

// OpenBytes opens a workbook from an in-memory document, which is how the
// processor receives uploads.
func OpenBytes(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return &Workbook{file: f}, nil
}

// Close releases the underlying file resources.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// SheetNames returns all worksheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// HasSheet reports whether the workbook contains the named worksheet.
func (w *Workbook) HasSheet(sheet string) bool {
	idx, err := w.file.GetSheetIndex(sheet)
	return err == nil && idx >= 0
}

// =============================================================================
// ROW ACCESS
// =============================================================================

// Options controls how Rows slices a header-driven sheet. Row numbers are
// 1-based, matching what the finance team sees in Excel.
type Options struct {
	// MaxColumns is the fixed width every returned row is normalized to.
	MaxColumns int

	// StartRow is the first data row.
	StartRow int

	// HeaderRow is the row holding the column headers.
	HeaderRow int
}

// Header returns the header row of a sheet, normalized to opts.MaxColumns
// cells with surrounding whitespace trimmed.
func (w *Workbook) Header(sheet string, opts Options) ([]string, error) {
	rows, err := w.sheetRows(sheet)
	if err != nil {
		return nil, err
	}
	if opts.HeaderRow < 1 || opts.HeaderRow > len(rows) {
		return nil, &types.EmptyDataError{Sheet: sheet}
	}

	header := normalizeRow(rows[opts.HeaderRow-1], opts.MaxColumns)
	for i, cell := range header {
		header[i] = strings.TrimSpace(cell)
	}
	return header, nil
}

// Rows returns the data rows of a header-driven sheet, starting at
// opts.StartRow. Rows whose first cell is blank are dropped; they are the
// spacer rows of the hand-maintained layouts.
func (w *Workbook) Rows(sheet string, opts Options) ([][]string, error) {
	rows, err := w.sheetRows(sheet)
	if err != nil {
		return nil, err
	}

	var out [][]string
	for i := opts.StartRow - 1; i >= 0 && i < len(rows); i++ {
		row := normalizeRow(rows[i], opts.MaxColumns)
		if strings.TrimSpace(row[0]) == "" {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// RawRows returns every row of a sheet normalized to maxColumns cells,
// with no filtering. Positional layouts depend on seeing blank cells.
func (w *Workbook) RawRows(sheet string, maxColumns int) ([][]string, error) {
	rows, err := w.sheetRows(sheet)
	if err != nil {
		return nil, err
	}

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, normalizeRow(row, maxColumns))
	}
	return out, nil
}

// SampleRows returns up to limit leading rows of a sheet, for content
// sniffing. A missing sheet yields nil rather than an error.
func (w *Workbook) SampleRows(sheet string, limit, maxColumns int) [][]string {
	rows, err := w.RawRows(sheet, maxColumns)
	if err != nil {
		return nil
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// sheetRows fetches the raw cell matrix, mapping a missing sheet onto the
// pipeline's sheet-not-found error.
func (w *Workbook) sheetRows(sheet string) ([][]string, error) {
	if !w.HasSheet(sheet) {
		return nil, &types.SheetNotFoundError{Sheet: sheet}
	}
	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// normalizeRow pads or truncates a row to exactly width cells.
func normalizeRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}
