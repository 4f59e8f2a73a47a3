// =============================================================================
// Finance Ledger Export - Payment Posting Rules
// =============================================================================
//
// Vendor payments post as one voucher per payment row. The line layout
// depends on the payment kind:
//
//   deposit (定金), 5 lines:
//     fee account        debit  tax      item: department,project
//     goods in transit   debit  remain
//     supplier payable   credit total    item: supplier,project
//     supplier payable   debit  tax      item: supplier,project
//     bank               credit tax
//
//   full payment (全款) without tax, 4 lines:
//     fee account        debit  total    item: department,project
//     supplier payable   credit total    item: supplier,project
//     supplier payable   debit  total    item: supplier,project
//     bank               credit total
//
//   full payment with tax, 5 lines: as above plus an input-VAT debit
//   between the fee line and the payable lines.
//
// Each layout debits exactly what it credits, so every voucher balances.
//
// =============================================================================

package rules

import (
	"github.com/liyongcheng94/finance-app/internal/resolver"
	"github.com/liyongcheng94/finance-app/internal/types"
)

// PaymentLines posts one payment record as a voucher. number is the 1-based
// position of the record in the batch; it becomes FNumber and FSerialNum.
// An unrecognized payment kind yields no lines and logs a warning so the
// batch keeps going.
func (e *Engine) PaymentLines(rec resolver.PaymentRecord, number int) []types.LedgerLine {
	supplierItem := "供应商---" + rec.SupplierCode + "---" + rec.SupplierName
	projectItem := "项目---" + rec.ProjectCode + "---" + rec.ProjectName
	depProject := e.policy.Department.ItemString() + "," + projectItem
	supplierProject := supplierItem + "," + projectItem

	var entries []entry
	switch rec.Kind {
	case resolver.KindPartial:
		entries = []entry{
			{rec.FeeCode, rec.FeeType, rec.Tax, rec.Tax, 0, depProject},
			{e.policy.Accounts.TransitGoods, "在途物资", rec.Remain, rec.Remain, 0, ""},
			{e.policy.Accounts.SupplierPayable, "应付供应商", rec.Total, 0, rec.Total, supplierProject},
			{e.policy.Accounts.SupplierPayable, "应付供应商", rec.Tax, rec.Tax, 0, supplierProject},
			{rec.BankAccount, "银行", rec.Tax, 0, rec.Tax, ""},
		}
	case resolver.KindFull:
		entries = []entry{
			{rec.FeeCode, rec.FeeType, rec.Remain, rec.Remain, 0, depProject},
			{e.policy.Accounts.SupplierPayable, "应付供应商", rec.Total, 0, rec.Total, supplierProject},
			{e.policy.Accounts.SupplierPayable, "应付供应商", rec.Total, rec.Total, 0, supplierProject},
			{rec.BankAccount, "银行", rec.Total, 0, rec.Total, ""},
		}
		if rec.Tax != 0 {
			taxed := make([]entry, 0, 5)
			taxed = append(taxed, entries[0])
			taxed = append(taxed, entry{e.policy.Accounts.InputTax, "进项税额", rec.Tax, rec.Tax, 0, ""})
			taxed = append(taxed, entries[1:]...)
			entries = taxed
		}
	default:
		e.logger.Warn("unrecognized payment method, no lines posted",
			"supplier", rec.SupplierName,
			"number", number)
		return nil
	}

	base := e.baseLine(rec.Date, number, number)
	base[types.FieldExplanation] = rec.Explanation

	lines := make([]types.LedgerLine, 0, len(entries))
	for i, ent := range entries {
		lines = append(lines, apply(base, ent, i))
	}
	return lines
}
