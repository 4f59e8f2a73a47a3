// =============================================================================
// Finance Ledger Export - Accounting Rule Engine
// =============================================================================
//
// This module turns enriched source records into balanced ledger lines for
// the ERP import. Every line starts from a common voucher skeleton (date,
// currency, identities, the fixed placeholder fields the importer expects)
// and each posting rule fills in the account, amount and item columns.
//
// The engine is pure: it never touches the workbook, only records in and
// ledger lines out. Line layouts live in payment.go and reimbursement.go.
//
// =============================================================================

package rules

import (
	"log/slog"
	"time"

	"github.com/liyongcheng94/finance-app/internal/config"
	"github.com/liyongcheng94/finance-app/internal/types"
)

// Engine applies the accounting policy to enriched records.
type Engine struct {
	policy   *config.Policy
	preparer string
	logger   *slog.Logger
}

// New builds an engine. An empty preparer falls back to the policy default;
// a nil logger falls back to slog.Default.
func New(policy *config.Policy, preparer string, logger *slog.Logger) *Engine {
	if preparer == "" {
		preparer = policy.Identities.DefaultPreparer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{policy: policy, preparer: preparer, logger: logger}
}

// baseLine builds the common voucher skeleton shared by every ledger line.
// number is the 1-based transaction number, serial the FSerialNum value
// (equal to number for payments, always 1 for reimbursements).
func (e *Engine) baseLine(date time.Time, number, serial int) types.LedgerLine {
	dateStr := date.Format("2006-01-02")
	return types.LedgerLine{
		types.FieldDate:         dateStr,
		types.FieldYear:         date.Year(),
		types.FieldPeriod:       int(date.Month()),
		types.FieldGroupID:      "记",
		types.FieldNumber:       number,
		types.FieldCurrencyNum:  "RMB",
		types.FieldCurrencyName: "人民币",
		types.FieldPreparerID:   e.preparer,
		types.FieldCheckerID:    e.policy.Identities.Checker,
		types.FieldApproveID:    e.policy.Identities.Approver,
		types.FieldCashierID:    e.policy.Identities.Cashier,
		"FHandler":              "",
		types.FieldSettleTypeID: "*",
		"FSettleNo":             "",
		"FQuantity":             0,
		"FMeasureUnitID":        "*",
		"FUnitPrice":            0,
		"FReference":            "",
		types.FieldTransDate:    dateStr,
		"FTransNo":              "",
		"FAttachments":          0,
		types.FieldSerialNum:    serial,
		"FObjectName":           "",
		"FParameter":            "",
		types.FieldExchangeRate: 1,
		"FPosted":               0,
		"FInternalInd":          "",
		"FCashFlow":             "",
	}
}

// entry is the per-line variable part of a posting.
type entry struct {
	accountNum  string
	accountName string
	amount      float64
	debit       float64
	credit      float64
	item        string
}

// apply clones the skeleton and writes one entry into it.
func apply(base types.LedgerLine, ent entry, entryID int) types.LedgerLine {
	line := make(types.LedgerLine, len(base)+7)
	for k, v := range base {
		line[k] = v
	}
	line[types.FieldAccountNum] = ent.accountNum
	line[types.FieldAccountName] = ent.accountName
	line[types.FieldAmountFor] = ent.amount
	line[types.FieldDebit] = ent.debit
	line[types.FieldCredit] = ent.credit
	line[types.FieldEntryID] = entryID
	line[types.FieldItem] = ent.item
	return line
}
