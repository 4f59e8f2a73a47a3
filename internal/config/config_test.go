package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	policy := Default()

	assert.Equal(t, "付款(每日)", policy.Sheets.Payment)
	assert.Equal(t, "报销  (每日)", policy.Sheets.Reimbursement)
	assert.Equal(t, "2202.01", policy.Accounts.SupplierPayable)
	assert.Equal(t, "1402", policy.Accounts.TransitGoods)
	assert.Equal(t, "2221.01.01", policy.Accounts.InputTax)
	assert.Equal(t, "陈丽玲", policy.Identities.DefaultPreparer)
	assert.Equal(t, "date", policy.FieldMaps.Payment["日期"])
	assert.Equal(t, "code", policy.FieldMaps.Supplier["代码"])
}

func TestBankAccountFor(t *testing.T) {
	policy := Default()

	assert.Equal(t, "1002.21", policy.BankAccountFor("深蜜支付："))
	assert.Equal(t, "1002.30.01", policy.BankAccountFor("高定支付："))
	assert.Equal(t, "1002.16", policy.BankAccountFor("从未见过的公司"))
}

func TestDepartmentItemString(t *testing.T) {
	d := Department{Code: "02", Name: "采购部"}
	assert.Equal(t, "部门---02---采购部", d.ItemString())
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	policy, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), policy)
}

func TestLoadOverridesMergeWithDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	override := `
default_bank_account: "1002.99"
identities:
  default_preparer: "张三"
`
	require.NoError(t, os.WriteFile(path, []byte(override), 0o644))

	policy, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "1002.99", policy.DefaultBankAccount)
	assert.Equal(t, "张三", policy.Identities.DefaultPreparer)
	// Untouched sections keep their defaults.
	assert.Equal(t, "付款(每日)", policy.Sheets.Payment)
	assert.Equal(t, "2202.01", policy.Accounts.SupplierPayable)
	assert.Equal(t, "NONE", policy.Identities.Checker)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/policy.yaml")
	require.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sheets: [unterminated"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
