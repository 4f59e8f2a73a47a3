// =============================================================================
// Finance Ledger Export - Shared Types
// =============================================================================
//
// This package contains the types shared across the processing pipeline to
// avoid import cycles. It also owns the output wire contract: the exact
// column headers of the "t_Schema" and "Page1" sheets consumed by the
// downstream ERP import. Those header strings and their order are load
// bearing; the importer matches on them verbatim.
//
// =============================================================================

package types

// Mode selects which transformation pipeline a file is run through.
type Mode string

const (
	// ModePayment processes a vendor payment schedule (排单) workbook.
	ModePayment Mode = "payment"

	// ModeReimbursement processes an employee expense claim (报销) workbook.
	ModeReimbursement Mode = "reimbursement"

	// ModeAuto lets the classifier decide between the two.
	ModeAuto Mode = "auto"
)

// Valid reports whether m is one of the explicit processing modes.
func (m Mode) Valid() bool {
	return m == ModePayment || m == ModeReimbursement
}

// Record is a mapped input row: semantic field name -> raw cell value.
// Each pipeline stage derives new data from a Record instead of mutating it.
type Record map[string]string

// LedgerLine is one output row of the Page1 sheet, keyed by output column
// name. A key that is absent renders as an empty cell; a key that is present
// with an empty string renders as an explicitly empty value. The serializer
// relies on that distinction, so lines are built by the rule engine and never
// patched afterwards.
type LedgerLine map[string]any

// Debit returns the FDebit amount, 0 when absent.
func (l LedgerLine) Debit() float64 { return l.amount(FieldDebit) }

// Credit returns the FCredit amount, 0 when absent.
func (l LedgerLine) Credit() float64 { return l.amount(FieldCredit) }

// EntryID returns the zero-based entry sequence number within a transaction.
func (l LedgerLine) EntryID() int { return l.intField(FieldEntryID) }

// Number returns the 1-based transaction number.
func (l LedgerLine) Number() int { return l.intField(FieldNumber) }

func (l LedgerLine) amount(key string) float64 {
	switch v := l[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func (l LedgerLine) intField(key string) int {
	switch v := l[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Result is the outcome of one engine invocation. It is returned to the
// caller and not retained by the engine.
type Result struct {
	// Output is the generated workbook.
	Output []byte

	// RecordCount is the number of records processed: source records in
	// payment mode, emitted ledger lines in reimbursement mode.
	RecordCount int

	// Mode is the pipeline that actually ran (resolved when auto-detected).
	Mode Mode

	// SuggestedName is a collision-free file name for Output.
	SuggestedName string
}

// Output column names referenced by the rule engine and tests. The full
// ordered header lives in LedgerHeaders.
const (
	FieldDate         = "FDate"
	FieldYear         = "FYear"
	FieldPeriod       = "FPeriod"
	FieldGroupID      = "FGroupID"
	FieldNumber       = "FNumber"
	FieldAccountNum   = "FAccountNum"
	FieldAccountName  = "FAccountName"
	FieldCurrencyNum  = "FCurrencyNum"
	FieldCurrencyName = "FCurrencyName"
	FieldAmountFor    = "FAmountFor"
	FieldDebit        = "FDebit"
	FieldCredit       = "FCredit"
	FieldPreparerID   = "FPreparerID"
	FieldCheckerID    = "FCheckerID"
	FieldApproveID    = "FApproveID"
	FieldCashierID    = "FCashierID"
	FieldSettleTypeID = "FSettleTypeID"
	FieldExplanation  = "FExplanation"
	FieldTransDate    = "FTransDate"
	FieldSerialNum    = "FSerialNum"
	FieldExchangeRate = "FExchangeRate"
	FieldEntryID      = "FEntryID"
	FieldItem         = "FItem"
)

// LedgerHeaders is the fixed 36-column header of the Page1 sheet, in output
// order. Do not reorder.
var LedgerHeaders = []string{
	"FDate",
	"FYear",
	"FPeriod",
	"FGroupID",
	"FNumber",
	"FAccountNum",
	"FAccountName",
	"FCurrencyNum",
	"FCurrencyName",
	"FAmountFor",
	"FDebit",
	"FCredit",
	"FPreparerID",
	"FCheckerID",
	"FApproveID",
	"FCashierID",
	"FHandler",
	"FSettleTypeID",
	"FSettleNo",
	"FExplanation",
	"FQuantity",
	"FMeasureUnitID",
	"FUnitPrice",
	"FReference",
	"FTransDate",
	"FTransNo",
	"FAttachments",
	"FSerialNum",
	"FObjectName",
	"FParameter",
	"FExchangeRate",
	"FEntryID",
	"FItem",
	"FPosted",
	"FInternalInd",
	"FCashFlow",
}

// SchemaHeaders is the fixed 20-column header of the t_Schema sheet, in
// output order. Do not reorder.
var SchemaHeaders = []string{
	"FType",
	"FKey",
	"FFieldName",
	"FCaption",
	"FValueType",
	"FNeedSave",
	"FColIndex",
	"FSrcTableName",
	"FSrcFieldName",
	"FExpFieldName",
	"FImpFieldName",
	"FDefaultVal",
	"FSearch",
	"FItemPageName",
	"FTrueType",
	"FPrecision",
	"FSearchName",
	"FIsShownList",
	"FViewMask",
	"FPage",
}

// SchemaSheetName and DataSheetName are the two sheets of the output
// workbook, written in this order.
const (
	SchemaSheetName = "t_Schema"
	DataSheetName   = "Page1"
)
