// =============================================================================
// Finance Ledger Export - Reference Resolver
// =============================================================================
//
// This module cross-references the mapped payment rows against the lookup
// sheets (suppliers, projects, fee codes) and enriches each row into a fully
// typed PaymentRecord: resolved codes, parsed date, classified payment kind
// and the tax/remainder split.
//
// Resolution runs in two passes. The first pass only collects broken
// references, across the whole batch, so one failure report names every
// supplier and project that needs fixing in the lookup sheets. Enrichment
// starts only after the batch is known to be fully resolvable. Fee types
// are softer: an unmatched fee type posts an empty account number rather
// than aborting the batch.
//
// =============================================================================

package resolver

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/liyongcheng94/finance-app/internal/config"
	"github.com/liyongcheng94/finance-app/internal/types"
)

// =============================================================================
// TYPES
// =============================================================================

// Tables holds the mapped lookup sheets of one source workbook.
type Tables struct {
	Suppliers []types.Record
	Projects  []types.Record
	FeeCodes  []types.Record
}

// PaymentKind classifies how a payment row is posted.
type PaymentKind int

const (
	// KindUnknown is a payment method the rules do not recognize. Such
	// rows produce no ledger lines and are surfaced as a warning.
	KindUnknown PaymentKind = iota

	// KindPartial is a deposit payment (定金): the remark carries the
	// tax/remainder split and the remainder stays in transit.
	KindPartial

	// KindFull is a full payment (全款): the whole amount is settled,
	// optionally with a separate input-tax amount.
	KindFull
)

// PaymentRecord is one enriched payment row, ready for the rule engine.
type PaymentRecord struct {
	Date time.Time
	Kind PaymentKind

	Company     string
	BankAccount string

	SupplierCode string
	SupplierName string
	ProjectCode  string
	ProjectName  string

	// FeeCode is the resolved account number; FeeType keeps the sheet's
	// original wording, which is what the voucher shows as account name.
	FeeCode string
	FeeType string

	Total  float64
	Tax    float64
	Remain float64

	Explanation string
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Resolve cross-references and enriches a batch of mapped payment rows.
// All reference failures are accumulated into one UnresolvedReferenceError
// before any row is enriched; date and remark failures abort on first hit.
func Resolve(base []types.Record, tables Tables, policy *config.Policy, now time.Time) ([]PaymentRecord, error) {
	suppliers := indexBy(tables.Suppliers, "shortName")
	projects := indexBy(tables.Projects, "shortName")
	fees := indexFees(tables.FeeCodes)

	// Pass 1: every broken reference in the batch, reported together.
	var missing []string
	seen := make(map[string]bool)
	report := func(kind, name string) {
		key := kind + ":" + name
		if !seen[key] {
			seen[key] = true
			missing = append(missing, fmt.Sprintf("%s %q", kind, name))
		}
	}
	for _, rec := range base {
		if _, ok := suppliers[rec["supplier"]]; !ok {
			report("供应商", rec["supplier"])
		}
		if _, ok := projects[rec["project"]]; !ok {
			report("项目", rec["project"])
		}
	}
	if len(missing) > 0 {
		return nil, &types.UnresolvedReferenceError{Missing: missing}
	}

	// Pass 2: enrichment.
	records := make([]PaymentRecord, 0, len(base))
	for _, rec := range base {
		enriched, err := enrich(rec, suppliers, projects, fees, policy, now)
		if err != nil {
			return nil, err
		}
		records = append(records, enriched)
	}
	return records, nil
}

// enrich builds one PaymentRecord from a resolvable row.
func enrich(rec types.Record, suppliers, projects map[string]types.Record, fees map[string]types.Record, policy *config.Policy, now time.Time) (PaymentRecord, error) {
	date, err := ParseDate(rec["date"], now)
	if err != nil {
		return PaymentRecord{}, err
	}

	supplier := suppliers[rec["supplier"]]
	project := projects[rec["project"]]
	// A fee-type miss posts an empty account number; the voucher is still
	// importable and the account is filled in by hand.
	feeCode, _ := lookupFee(fees, rec["feeType"])

	total, err := parseAmount(rec["totalAmount"])
	if err != nil {
		return PaymentRecord{}, fmt.Errorf("invalid total amount %q: %w", rec["totalAmount"], err)
	}

	kind := classifyKind(rec["paymentType"])

	var tax float64
	switch kind {
	case KindPartial:
		tax, err = parseTaxRemark(rec["remark2"])
		if err != nil {
			return PaymentRecord{}, err
		}
	case KindFull:
		tax, err = parseAmount(rec["tax"])
		if err != nil {
			return PaymentRecord{}, fmt.Errorf("invalid tax %q: %w", rec["tax"], err)
		}
	}

	return PaymentRecord{
		Date:         date,
		Kind:         kind,
		Company:      rec["company"],
		BankAccount:  policy.BankAccountFor(rec["company"]),
		SupplierCode: supplier["code"],
		SupplierName: supplier["name"],
		ProjectCode:  project["code"],
		ProjectName:  project["name"],
		FeeCode:      feeCode,
		FeeType:      rec["feeType"],
		Total:        total,
		Tax:          tax,
		Remain:       total - tax,
		Explanation:  rec["explanation"],
	}, nil
}

// =============================================================================
// LOOKUP TABLES
// =============================================================================

// indexBy builds a lookup keyed by one field of each record. Later rows win
// on duplicate keys, matching how the lookup sheets are maintained.
func indexBy(records []types.Record, field string) map[string]types.Record {
	idx := make(map[string]types.Record, len(records))
	for _, rec := range records {
		if key := rec[field]; key != "" {
			idx[key] = rec
		}
	}
	return idx
}

// indexFees keys the fee-code table by both the account name and the alias,
// so either spelling in the payment sheet resolves.
func indexFees(records []types.Record) map[string]types.Record {
	idx := make(map[string]types.Record, 2*len(records))
	for _, rec := range records {
		if name := rec["name"]; name != "" {
			idx[name] = rec
		}
		if alias := rec["alias"]; alias != "" {
			idx[alias] = rec
		}
	}
	return idx
}

// lookupFee resolves a fee type with the team's shorthand tolerated: the
// payment sheet often writes 管理费 where the fee table only lists the alias
// 管理. The text is tried verbatim and with its trailing 费 stripped against
// both the name and alias keys.
func lookupFee(fees map[string]types.Record, feeType string) (code string, ok bool) {
	keys := []string{feeType}
	if stripped := strings.TrimSuffix(feeType, "费"); stripped != feeType {
		keys = append(keys, stripped)
	}
	for _, key := range keys {
		if rec, found := fees[key]; found {
			return rec["code"], true
		}
	}
	return "", false
}

// =============================================================================
// FIELD PARSERS
// =============================================================================

// classifyKind maps the free-text payment method onto a posting kind.
func classifyKind(paymentType string) PaymentKind {
	switch {
	case strings.Contains(paymentType, "定金"):
		return KindPartial
	case strings.Contains(paymentType, "全款"):
		return KindFull
	default:
		return KindUnknown
	}
}

// ParseDate parses the sheet's "month.day" shorthand against the current
// year. The reimbursement pipeline reuses it for the claimant header date.
func ParseDate(value string, now time.Time) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(value), ".")
	if len(parts) != 2 {
		return time.Time{}, &types.DateFormatError{Value: value}
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, &types.DateFormatError{Value: value}
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, &types.DateFormatError{Value: value}
	}
	return time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, time.Local), nil
}

// parseTaxRemark extracts the tax amount from a deposit remark of the shape
// （tax+remainder）. A remark without the parenthesized split is an input
// error; silently posting zero tax produced unbalanced vouchers in the past.
func parseTaxRemark(remark string) (float64, error) {
	remark = strings.TrimSpace(remark)
	if remark == "" || !strings.Contains(remark, "（") || !strings.Contains(remark, "）") {
		return 0, &types.RemarkFormatError{Remark: remark}
	}

	inner := strings.NewReplacer("（", "", "）", "").Replace(remark)
	first := strings.SplitN(inner, "+", 2)[0]
	tax, err := strconv.ParseFloat(strings.TrimSpace(first), 64)
	if err != nil {
		return 0, &types.RemarkFormatError{Remark: remark}
	}
	return tax, nil
}

// parseAmount parses a numeric cell, treating blank as zero.
func parseAmount(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
}
