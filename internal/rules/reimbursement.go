// =============================================================================
// Finance Ledger Export - Reimbursement Posting Rules
// =============================================================================
//
// Expense claims post as one voucher per claimant. The claim sheet carries
// a block of claimant header rows (date, claimant, reimbursing bank) above
// a positional detail table. Each detail of a claimant becomes a debit on
// its fee account; the claimant's total is credited to the bank from their
// header row. Amounts are rounded to 2 decimal places at every step so the
// credit equals the sum of the debits exactly.
//
// =============================================================================

package rules

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/liyongcheng94/finance-app/internal/resolver"
	"github.com/liyongcheng94/finance-app/internal/types"
)

// Positional detail columns. The claim sheet carries no machine-readable
// header, so positions are part of the layout contract with the finance
// team.
const (
	colPerson            = 0
	colDepartment        = 1
	colProject           = 2
	colFeeType           = 4
	colFeeCode           = 6
	colAmount            = 7
	colSummary           = 8
	colDepartmentProject = 9
)

// TopInfo is one claimant header row: who gets reimbursed and from which
// bank account.
type TopInfo struct {
	// Date keeps the raw cell text; explanations concatenate it verbatim.
	Date     string
	Person   string
	Bank     string
	BankCode string
	Summary  string
}

// Detail is one expense line of the claim sheet.
type Detail struct {
	Person            string
	Department        string
	Project           string
	FeeType           string
	FeeCode           string
	Amount            float64
	Summary           string
	DepartmentProject string
}

// ParseTopInfos scans the leading rows of the claim sheet for claimant
// header rows, which start with the literal 日期 marker. Scanning stops at
// the first non-marker row after the block.
func ParseTopInfos(raw [][]string) []TopInfo {
	var tops []TopInfo
	for _, row := range raw {
		if len(row) > 0 && row[0] == "日期" {
			tops = append(tops, TopInfo{
				Date:     cell(row, 1),
				Person:   cell(row, 3),
				Bank:     cell(row, 5),
				BankCode: cell(row, 7),
				Summary:  cell(row, 9),
			})
			continue
		}
		if len(tops) > 0 {
			break
		}
	}
	return tops
}

// detailStartRow is the fixed 0-based row where the detail table begins
// (row 4 of the sheet). The table does not move with the claimant header
// count; the layout reserves rows 1-3 for headers and spacers.
const detailStartRow = 3

// ParseDetails extracts the positional detail table. Rows without a
// claimant are skipped; a missing amount is an expense of zero, never an
// error.
func (e *Engine) ParseDetails(raw [][]string) []Detail {
	if detailStartRow > len(raw) {
		return nil
	}

	var details []Detail
	for _, row := range raw[detailStartRow:] {
		person := cell(row, colPerson)
		if person == "" {
			continue
		}

		amount, err := decimal.NewFromString(strings.ReplaceAll(cell(row, colAmount), ",", ""))
		if err != nil {
			amount = decimal.Zero
		}

		d := Detail{
			Person:            person,
			Department:        cell(row, colDepartment),
			Project:           cell(row, colProject),
			FeeType:           cell(row, colFeeType),
			FeeCode:           cell(row, colFeeCode),
			Amount:            amount.InexactFloat64(),
			Summary:           cell(row, colSummary),
			DepartmentProject: cell(row, colDepartmentProject),
		}

		// A broken formula renders as #REF! or similar; treat it like an
		// empty item rather than exporting the error text.
		if d.DepartmentProject == "" || strings.HasPrefix(d.DepartmentProject, "#") {
			if d.Project != "" {
				e.logger.Warn("claim row has no usable department+project item",
					"person", d.Person,
					"project", d.Project,
					"value", d.DepartmentProject)
			}
			d.DepartmentProject = ""
		}

		details = append(details, d)
	}
	return details
}

// ReimbursementLines posts one voucher per claimant. feeNames maps fee code
// to the chart-of-accounts name; details whose code is unmapped fall back
// to the sheet's fee-type text. The date of the first claimant header rules
// the whole batch.
func (e *Engine) ReimbursementLines(tops []TopInfo, details []Detail, feeNames map[string]string, now time.Time) ([]types.LedgerLine, error) {
	if len(tops) == 0 {
		return nil, errors.New("no claimant header rows found")
	}

	rawDate := tops[0].Date
	date, err := resolver.ParseDate(rawDate, now)
	if err != nil {
		return nil, err
	}

	var lines []types.LedgerLine
	for personIndex, top := range tops {
		number := personIndex + 1
		base := e.baseLine(date, number, 1)

		entryID := 0
		total := decimal.Zero
		for _, d := range details {
			if d.Person != top.Person {
				continue
			}

			amount := decimal.NewFromFloat(d.Amount).Round(2)
			total = total.Add(amount).Round(2)

			name := feeNames[d.FeeCode]
			if name == "" {
				name = d.FeeType
			}

			amt := amount.InexactFloat64()
			line := apply(base, entry{d.FeeCode, name, amt, amt, 0, d.DepartmentProject}, entryID)
			line[types.FieldExplanation] = rawDate + d.Summary
			lines = append(lines, line)
			entryID++
		}

		if total.IsPositive() {
			amt := total.InexactFloat64()
			line := apply(base, entry{top.BankCode, top.Bank, amt, 0, amt, ""}, entryID)
			line[types.FieldExplanation] = rawDate + top.Summary
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// cell reads a column defensively from a possibly short row.
func cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}
