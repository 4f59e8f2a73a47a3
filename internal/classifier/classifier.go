// =============================================================================
// Finance Ledger Export - File Type Classifier
// =============================================================================
//
// This module decides whether a workbook is a vendor payment schedule
// (排单) or an expense claim (报销) when the caller does not say. Detection
// runs in three tiers, each cheaper signal first:
//
//   1. file name   - 报销/reimbursement or 排单/payment in the name wins
//   2. sheet names - a claim-flavored sheet name wins
//   3. content     - keyword scan over the leading rows of each sheet,
//                    claim keywords checked before payment keywords
//
// When nothing matches, payment is assumed; it is by far the more common
// upload.
//
// =============================================================================

package classifier

import (
	"strings"

	"github.com/liyongcheng94/finance-app/internal/types"
)

// SampleLimit is how many leading rows per sheet the content tier reads.
// Callers assembling their own samples should use this bound.
const SampleLimit = 10

var reimbursementKeywords = []string{
	"报销人",
	"银行",
	"FAmountFor",
	"报销",
	"部门代码",
	"费用类型",
}

var paymentKeywords = []string{
	"支付公司",
	"供应商",
	"排单",
	"付款方式",
	"户型",
}

// Classify decides the processing mode for a workbook. filename is the
// original upload name, sheetNames the workbook's sheets and samples the
// leading rows of each sheet keyed by sheet name.
func Classify(filename string, sheetNames []string, samples map[string][][]string) types.Mode {
	if mode, ok := byFilename(filename); ok {
		return mode
	}
	if mode, ok := bySheetNames(sheetNames); ok {
		return mode
	}
	return byContent(sheetNames, samples)
}

// byFilename is the first tier: explicit naming in the upload.
func byFilename(filename string) (types.Mode, bool) {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(name, "报销") || strings.Contains(name, "reimbursement"):
		return types.ModeReimbursement, true
	case strings.Contains(name, "排单") || strings.Contains(name, "payment"):
		return types.ModePayment, true
	}
	return "", false
}

// bySheetNames is the second tier. Only claim markers are checked here:
// payment workbooks and claim workbooks share most lookup sheet names, so
// a payment-flavored sheet name proves nothing.
func bySheetNames(sheetNames []string) (types.Mode, bool) {
	joined := strings.ToLower(strings.Join(sheetNames, " "))
	if strings.Contains(joined, "报销") || strings.Contains(joined, "reimbursement") {
		return types.ModeReimbursement, true
	}
	return "", false
}

// byContent is the last tier: a keyword scan over the sampled rows, sheet
// by sheet in workbook order. Claim keywords are checked first on each row
// because 供应商 appears in claim lookup sheets too.
func byContent(sheetNames []string, samples map[string][][]string) types.Mode {
	for _, sheet := range sheetNames {
		rows := samples[sheet]
		if len(rows) > SampleLimit {
			rows = rows[:SampleLimit]
		}
		for _, row := range rows {
			text := rowText(row)
			if text == "" {
				continue
			}
			if containsAny(text, reimbursementKeywords) {
				return types.ModeReimbursement
			}
			if containsAny(text, paymentKeywords) {
				return types.ModePayment
			}
		}
	}
	return types.ModePayment
}

func rowText(row []string) string {
	var parts []string
	for _, cell := range row {
		if cell != "" {
			parts = append(parts, cell)
		}
	}
	return strings.Join(parts, " ")
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
