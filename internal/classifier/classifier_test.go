package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/liyongcheng94/finance-app/internal/types"
)

func TestClassifyByFilename(t *testing.T) {
	cases := []struct {
		filename string
		want     types.Mode
	}{
		{"3月报销.xlsx", types.ModeReimbursement},
		{"Reimbursement_March.xlsx", types.ModeReimbursement},
		{"3月排单.xlsx", types.ModePayment},
		{"payment_0315.xlsx", types.ModePayment},
	}
	for _, tc := range cases {
		t.Run(tc.filename, func(t *testing.T) {
			got := Classify(tc.filename, nil, nil)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClassifyFilenameBeatsSheetNames(t *testing.T) {
	// The name says payment even though a sheet smells like a claim.
	got := Classify("3月排单.xlsx", []string{"报销  (每日)"}, nil)
	assert.Equal(t, types.ModePayment, got)
}

func TestClassifyBySheetNames(t *testing.T) {
	got := Classify("upload.xlsx", []string{"报销  (每日)", "核算项目_费用代码"}, nil)
	assert.Equal(t, types.ModeReimbursement, got)

	// Payment sheet names alone decide nothing; content decides instead.
	got = Classify("upload.xlsx", []string{"付款(每日)"}, map[string][][]string{
		"付款(每日)": {{"日期", "支付公司", "供应商"}},
	})
	assert.Equal(t, types.ModePayment, got)
}

func TestClassifyByContent(t *testing.T) {
	sheets := []string{"Sheet1"}

	got := Classify("upload.xlsx", sheets, map[string][][]string{
		"Sheet1": {{"日期", "3.15", "报销人", "张三"}},
	})
	assert.Equal(t, types.ModeReimbursement, got)

	got = Classify("upload.xlsx", sheets, map[string][][]string{
		"Sheet1": {{"日期", "支付公司", "项目简称（保持一致）", "户型"}},
	})
	assert.Equal(t, types.ModePayment, got)
}

func TestClassifyContentChecksClaimKeywordsFirst(t *testing.T) {
	// 供应商 is a payment keyword, but 费用类型 on the same row marks a claim.
	got := Classify("upload.xlsx", []string{"Sheet1"}, map[string][][]string{
		"Sheet1": {{"供应商", "费用类型"}},
	})
	assert.Equal(t, types.ModeReimbursement, got)
}

func TestClassifyDefaultsToPayment(t *testing.T) {
	got := Classify("upload.xlsx", []string{"Sheet1"}, map[string][][]string{
		"Sheet1": {{"无关内容"}},
	})
	assert.Equal(t, types.ModePayment, got)

	got = Classify("upload.xlsx", nil, nil)
	assert.Equal(t, types.ModePayment, got)
}

func TestClassifyContentLimitsSampleRows(t *testing.T) {
	rows := make([][]string, 0, SampleLimit+2)
	for i := 0; i < SampleLimit; i++ {
		rows = append(rows, []string{"无关内容"})
	}
	// Beyond the sample window; must not be read.
	rows = append(rows, []string{"报销人"})

	got := Classify("upload.xlsx", []string{"Sheet1"}, map[string][][]string{"Sheet1": rows})
	assert.Equal(t, types.ModePayment, got)
}
