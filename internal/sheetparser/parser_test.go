package sheetparser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/liyongcheng94/finance-app/internal/types"
)

// buildWorkbook renders sheets into an in-memory xlsx document. Keys are
// sheet names, values are row matrices starting at A1.
func buildWorkbook(t *testing.T, sheets map[string][][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestRowsSkipsBlankFirstCell(t *testing.T) {
	data := buildWorkbook(t, map[string][][]any{
		"付款(每日)": {
			{"标题"},
			{"日期", "供应商", "总金额"},
			{"3.15", "供应商A", "1000"},
			{"", "备注行", ""},
			{"3.16", "供应商B", "2000"},
		},
	})

	wb, err := OpenBytes(data)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.Rows("付款(每日)", Options{MaxColumns: 3, StartRow: 3, HeaderRow: 2})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "3.15", rows[0][0])
	assert.Equal(t, "3.16", rows[1][0])
}

func TestRowsNormalizesWidth(t *testing.T) {
	data := buildWorkbook(t, map[string][][]any{
		"表": {
			{"h1", "h2", "h3", "h4"},
			{"a"},
			{"b", "c", "d", "e", "f"},
		},
	})

	wb, err := OpenBytes(data)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.Rows("表", Options{MaxColumns: 4, StartRow: 2, HeaderRow: 1})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"a", "", "", ""}, rows[0])
	assert.Equal(t, []string{"b", "c", "d", "e"}, rows[1])
}

func TestHeaderTrimsCells(t *testing.T) {
	data := buildWorkbook(t, map[string][][]any{
		"表": {
			{" 日期 ", "供应商", "总金额 "},
		},
	})

	wb, err := OpenBytes(data)
	require.NoError(t, err)
	defer wb.Close()

	header, err := wb.Header("表", Options{MaxColumns: 3, HeaderRow: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"日期", "供应商", "总金额"}, header)
}

func TestMissingSheetError(t *testing.T) {
	data := buildWorkbook(t, map[string][][]any{
		"其他": {{"x"}},
	})

	wb, err := OpenBytes(data)
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.Rows("付款(每日)", Options{MaxColumns: 3, StartRow: 2, HeaderRow: 1})
	var notFound *types.SheetNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "付款(每日)", notFound.Sheet)
}

func TestRawRowsKeepsBlankLeadingCells(t *testing.T) {
	data := buildWorkbook(t, map[string][][]any{
		"报销  (每日)": {
			{"日期", "3.15"},
			{"", "间隔行"},
			{"", "张三", "", "100"},
		},
	})

	wb, err := OpenBytes(data)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.RawRows("报销  (每日)", 4)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "", rows[1][0])
	assert.Equal(t, "张三", rows[2][1])
}

func TestSampleRowsLimitsAndToleratesMissingSheet(t *testing.T) {
	data := buildWorkbook(t, map[string][][]any{
		"表": {
			{"r1"}, {"r2"}, {"r3"},
		},
	})

	wb, err := OpenBytes(data)
	require.NoError(t, err)
	defer wb.Close()

	assert.Len(t, wb.SampleRows("表", 2, 1), 2)
	assert.Nil(t, wb.SampleRows("不存在", 2, 1))
}

func TestSheetNames(t *testing.T) {
	data := buildWorkbook(t, map[string][][]any{
		"付款(每日)": {{"x"}},
	})

	wb, err := OpenBytes(data)
	require.NoError(t, err)
	defer wb.Close()

	assert.Contains(t, wb.SheetNames(), "付款(每日)")
}
