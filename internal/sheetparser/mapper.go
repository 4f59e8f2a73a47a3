// =============================================================================
// Finance Ledger Export - Record Mapper
// =============================================================================
//
// This module turns normalized rows into Records keyed by semantic field
// names. Header-driven sheets use a header-text dictionary from the policy;
// positional sheets use a column-index dictionary. Header cells that are
// not in the dictionary are ignored, which keeps the pipeline stable when
// the finance team appends scratch columns to their sheets.
//
// =============================================================================

package sheetparser

import (
	"strings"

	"github.com/liyongcheng94/finance-app/internal/types"
)

// MapByHeader converts rows to Records using a header-text to field-name
// dictionary. Cells under unmapped headers are dropped; mapped fields are
// always present, so a short row still yields every field (as "").
func MapByHeader(header []string, rows [][]string, fieldMap map[string]string) []types.Record {
	records := make([]types.Record, 0, len(rows))
	for _, row := range rows {
		rec := make(types.Record, len(fieldMap))
		for _, field := range fieldMap {
			rec[field] = ""
		}
		for i, cell := range row {
			if i >= len(header) {
				break
			}
			if field, ok := fieldMap[header[i]]; ok {
				rec[field] = strings.TrimSpace(cell)
			}
		}
		records = append(records, rec)
	}
	return records
}

// MapByHeaderFiltered is MapByHeader restricted to records the keep
// predicate accepts. Lookup sheets are large; filtering at mapping time
// keeps only the rows the current batch references.
func MapByHeaderFiltered(header []string, rows [][]string, fieldMap map[string]string, keep func(types.Record) bool) []types.Record {
	mapped := MapByHeader(header, rows, fieldMap)
	records := mapped[:0]
	for _, rec := range mapped {
		if keep(rec) {
			records = append(records, rec)
		}
	}
	return records
}

// MapByIndex converts rows to Records using a column-index to field-name
// dictionary, for positional layouts that carry no header row.
func MapByIndex(rows [][]string, indexMap map[int]string) []types.Record {
	records := make([]types.Record, 0, len(rows))
	for _, row := range rows {
		rec := make(types.Record, len(indexMap))
		for idx, field := range indexMap {
			if idx >= 0 && idx < len(row) {
				rec[field] = strings.TrimSpace(row[idx])
			} else {
				rec[field] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}
