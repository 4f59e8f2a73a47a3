package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liyongcheng94/finance-app/internal/types"
)

var reimburseNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)

func claimSheet() [][]string {
	return [][]string{
		{"日期", "3.15", "报销人", "张三", "银行", "招商银行", "代码", "1002.05", "摘要", "报销张三"},
		{"日期", "3.15", "报销人", "李四", "银行", "建设银行", "代码", "1002.06", "摘要", "报销李四"},
		{"报销人", "部门代码", "项目简称", "备注", "费用类型", "", "费用代码", "金额", "摘要", "部门+项目"},
		{},
		{"张三", "02", "项目X", "", "差旅费", "", "6602.01", "100", "出差", "部门---02---采购部,项目---XM001---项目X一期"},
		{"张三", "02", "项目X", "", "办公费", "", "6602.02", "50", "文具", "部门---02---采购部,项目---XM001---项目X一期"},
		{"李四", "02", "项目Y", "", "差旅费", "", "6602.01", "200", "出差", "#REF!"},
	}
}

func TestParseTopInfos(t *testing.T) {
	tops := ParseTopInfos(claimSheet())
	require.Len(t, tops, 2)
	assert.Equal(t, "3.15", tops[0].Date)
	assert.Equal(t, "张三", tops[0].Person)
	assert.Equal(t, "招商银行", tops[0].Bank)
	assert.Equal(t, "1002.05", tops[0].BankCode)
	assert.Equal(t, "报销张三", tops[0].Summary)
	assert.Equal(t, "李四", tops[1].Person)
}

func TestParseTopInfosStopsAfterBlock(t *testing.T) {
	raw := [][]string{
		{"日期", "3.15", "报销人", "张三", "银行", "招商银行", "代码", "1002.05", "摘要", "报销"},
		{"报销人", "部门代码"},
		{"日期", "4.20", "报销人", "王五", "银行", "工商银行", "代码", "1002.07", "摘要", "不应读取"},
	}
	tops := ParseTopInfos(raw)
	require.Len(t, tops, 1)
	assert.Equal(t, "张三", tops[0].Person)
}

func TestParseDetails(t *testing.T) {
	details := testEngine().ParseDetails(claimSheet())
	require.Len(t, details, 3)

	assert.Equal(t, "张三", details[0].Person)
	assert.Equal(t, "6602.01", details[0].FeeCode)
	assert.InDelta(t, 100.0, details[0].Amount, 1e-9)
	assert.Equal(t, "出差", details[0].Summary)
	assert.Equal(t, "部门---02---采购部,项目---XM001---项目X一期", details[0].DepartmentProject)

	// Broken formula text is cleared, never exported.
	assert.Equal(t, "", details[2].DepartmentProject)
}

func TestParseDetailsSkipsRowsWithoutClaimant(t *testing.T) {
	raw := [][]string{
		{"日期", "3.15", "报销人", "张三", "银行", "招商银行", "代码", "1002.05", "摘要", ""},
		{"表头"},
		{},
		{"", "", "", "", "", "", "", "999", "", ""},
		{"张三", "", "", "", "差旅费", "", "6602.01", "", "", ""},
	}
	details := testEngine().ParseDetails(raw)
	require.Len(t, details, 1)
	// A missing amount is zero, not an error.
	assert.InDelta(t, 0.0, details[0].Amount, 1e-9)
}

// The detail table starts at row 4 of the sheet even when claimant header
// rows fill the block above it; a detail sitting directly under the column
// header must not be dropped.
func TestParseDetailsFixedStartRow(t *testing.T) {
	raw := [][]string{
		{"日期", "3.15", "报销人", "张三", "银行", "招商银行", "代码", "1002.05", "摘要", "报销张三"},
		{"日期", "3.15", "报销人", "李四", "银行", "建设银行", "代码", "1002.06", "摘要", "报销李四"},
		{"报销人", "部门代码", "项目简称", "备注", "费用类型", "", "费用代码", "金额", "摘要", "部门+项目"},
		{"张三", "02", "项目X", "", "差旅费", "", "6602.01", "100", "出差", ""},
	}
	details := testEngine().ParseDetails(raw)
	require.Len(t, details, 1)
	assert.Equal(t, "张三", details[0].Person)
	assert.InDelta(t, 100.0, details[0].Amount, 1e-9)
}

func TestReimbursementLinesGroupsByClaimant(t *testing.T) {
	engine := testEngine()
	tops := ParseTopInfos(claimSheet())
	details := engine.ParseDetails(claimSheet())
	feeNames := map[string]string{"6602.01": "差旅费用", "6602.02": "办公费用"}

	lines, err := engine.ReimbursementLines(tops, details, feeNames, reimburseNow)
	require.NoError(t, err)
	// 张三: two debits + credit; 李四: one debit + credit.
	require.Len(t, lines, 5)
	assertBalanced(t, lines)

	// 张三's voucher.
	assert.Equal(t, 1, lines[0].Number())
	assert.Equal(t, 0, lines[0].EntryID())
	assert.Equal(t, "6602.01", lines[0][types.FieldAccountNum])
	assert.Equal(t, "差旅费用", lines[0][types.FieldAccountName])
	assert.InDelta(t, 100.0, lines[0].Debit(), 1e-9)
	assert.Equal(t, "3.15出差", lines[0][types.FieldExplanation])

	assert.Equal(t, 1, lines[1].EntryID())
	assert.InDelta(t, 50.0, lines[1].Debit(), 1e-9)

	credit := lines[2]
	assert.Equal(t, 2, credit.EntryID())
	assert.Equal(t, "1002.05", credit[types.FieldAccountNum])
	assert.Equal(t, "招商银行", credit[types.FieldAccountName])
	assert.InDelta(t, 150.0, credit.Credit(), 1e-9)
	assert.Equal(t, "3.15报销张三", credit[types.FieldExplanation])
	assert.Equal(t, "", credit[types.FieldItem])

	// 李四's voucher restarts the entry sequence.
	assert.Equal(t, 2, lines[3].Number())
	assert.Equal(t, 0, lines[3].EntryID())
	assert.InDelta(t, 200.0, lines[3].Debit(), 1e-9)
	assert.Equal(t, "1002.06", lines[4][types.FieldAccountNum])
	assert.InDelta(t, 200.0, lines[4].Credit(), 1e-9)

	// All lines share the first header's date and a serial of 1.
	for _, line := range lines {
		assert.Equal(t, "2024-03-15", line[types.FieldDate])
		assert.Equal(t, 1, line[types.FieldSerialNum])
	}
}

func TestReimbursementLinesFeeNameFallback(t *testing.T) {
	engine := testEngine()
	tops := []TopInfo{{Date: "3.15", Person: "张三", Bank: "招商银行", BankCode: "1002.05"}}
	details := []Detail{{Person: "张三", FeeType: "差旅费", FeeCode: "9999.99", Amount: 10}}

	lines, err := engine.ReimbursementLines(tops, details, map[string]string{}, reimburseNow)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "差旅费", lines[0][types.FieldAccountName])
}

func TestReimbursementLinesRounding(t *testing.T) {
	engine := testEngine()
	tops := []TopInfo{{Date: "3.15", Person: "张三", Bank: "招商银行", BankCode: "1002.05"}}
	details := []Detail{
		{Person: "张三", FeeCode: "6602.01", Amount: 0.105},
		{Person: "张三", FeeCode: "6602.01", Amount: 0.205},
		{Person: "张三", FeeCode: "6602.01", Amount: 0.305},
	}

	lines, err := engine.ReimbursementLines(tops, details, nil, reimburseNow)
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assertBalanced(t, lines)

	var sum float64
	for _, line := range lines[:3] {
		sum += line.Debit()
	}
	assert.InDelta(t, sum, lines[3].Credit(), 1e-9)
}

func TestReimbursementLinesZeroTotalSkipsCredit(t *testing.T) {
	engine := testEngine()
	tops := []TopInfo{{Date: "3.15", Person: "张三", Bank: "招商银行", BankCode: "1002.05"}}
	details := []Detail{{Person: "张三", FeeCode: "6602.01", Amount: 0}}

	lines, err := engine.ReimbursementLines(tops, details, nil, reimburseNow)
	require.NoError(t, err)
	// One zero debit, no bank credit.
	require.Len(t, lines, 1)
	assert.InDelta(t, 0.0, lines[0].Debit(), 1e-9)
}

func TestReimbursementLinesNoClaimants(t *testing.T) {
	_, err := testEngine().ReimbursementLines(nil, nil, nil, reimburseNow)
	require.Error(t, err)
}

func TestReimbursementLinesBadHeaderDate(t *testing.T) {
	tops := []TopInfo{{Date: "三月", Person: "张三"}}
	_, err := testEngine().ReimbursementLines(tops, nil, nil, reimburseNow)
	require.Error(t, err)
}
