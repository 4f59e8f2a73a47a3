// =============================================================================
// Finance Ledger Export - Accounting Policy Configuration
// =============================================================================
//
// This module loads the accounting policy: the constant tables the rule
// engine posts against (bank-account mapping, fixed account codes, the
// purchasing-department item string, placeholder identities) plus the input
// layout (sheet names and header-to-field maps). Everything ships with an
// embedded default matching the finance team's workbook layout; an optional
// policy.yaml overrides individual values so tests and other entities can
// substitute their own tables.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy holds the full accounting policy for one processing run. It is
// immutable after Load; the engine receives it by pointer and never writes
// to it.
type Policy struct {
	// Sheets names the worksheets the engine reads.
	Sheets SheetNames `yaml:"sheets"`

	// FieldMaps translate source header text into semantic field names.
	FieldMaps FieldMaps `yaml:"field_maps"`

	// BankAccounts maps the paying-company cell text to a bank account
	// number. Companies not listed fall back to DefaultBankAccount.
	BankAccounts map[string]string `yaml:"bank_accounts"`

	// DefaultBankAccount is used when the paying company has no mapping.
	DefaultBankAccount string `yaml:"default_bank_account"`

	// Accounts are the fixed posting accounts of the payment rules.
	Accounts Accounts `yaml:"accounts"`

	// Department is the purchasing department rendered into FItem strings.
	Department Department `yaml:"department"`

	// Identities are the voucher identity fields.
	Identities Identities `yaml:"identities"`

	// SchemaFile is the path to the t_Schema.json resource. A missing file
	// degrades to a headers-only schema sheet.
	SchemaFile string `yaml:"schema_file"`
}

// SheetNames lists the worksheets of the two supported layouts.
type SheetNames struct {
	Payment          string `yaml:"payment"`
	Reimbursement    string `yaml:"reimbursement"`
	Supplier         string `yaml:"supplier"`
	Project          string `yaml:"project"`
	FeeCode          string `yaml:"fee_code"`
	FeeCodeNoProject string `yaml:"fee_code_no_project"`
}

// FieldMaps holds the header-text to field-name dictionaries for each
// header-mapped sheet. Keys are the exact (hand-maintained) header strings.
type FieldMaps struct {
	Payment  map[string]string `yaml:"payment"`
	Supplier map[string]string `yaml:"supplier"`
	Project  map[string]string `yaml:"project"`
	FeeCode  map[string]string `yaml:"fee_code"`
}

// Accounts are the fixed account numbers and captions used by the payment
// posting rules.
type Accounts struct {
	// SupplierPayable is the accounts-payable account (应付供应商).
	SupplierPayable string `yaml:"supplier_payable"`

	// TransitGoods is the goods-in-transit asset account (在途物资).
	TransitGoods string `yaml:"transit_goods"`

	// InputTax is the deductible input VAT account (进项税额).
	InputTax string `yaml:"input_tax"`
}

// Department describes the purchasing department referenced by payment
// postings.
type Department struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// ItemString renders the department in the FItem wire format.
func (d Department) ItemString() string {
	return "部门---" + d.Code + "---" + d.Name
}

// Identities holds voucher identity values. Checker, approver and cashier
// are fixed placeholders filled in downstream; the preparer default applies
// when the caller-supplied identity cannot be resolved.
type Identities struct {
	DefaultPreparer string `yaml:"default_preparer"`
	Checker         string `yaml:"checker"`
	Approver        string `yaml:"approver"`
	Cashier         string `yaml:"cashier"`
}

// Default returns the embedded policy matching the finance team's current
// workbook layout and chart of accounts.
func Default() *Policy {
	return &Policy{
		Sheets: SheetNames{
			Payment:          "付款(每日)",
			Reimbursement:    "报销  (每日)",
			Supplier:         "核算项目_供应商",
			Project:          "核算项目_项目",
			FeeCode:          "核算项目_费用代码",
			FeeCodeNoProject: "核算项目_费用代码无项目",
		},
		FieldMaps: FieldMaps{
			Payment: map[string]string{
				"日期":          "date",
				"支付公司":        "company",
				"项目简称（保持一致）":  "project",
				"户型":          "houseType",
				"供应商":         "supplier",
				"费用类型":        "feeType",
				"付款方式":        "paymentType",
				"总金额":         "totalAmount",
				"税":           "tax",
				"备注1":         "remark1",
				"备注2":         "remark2",
				"摘要":          "explanation",
			},
			Supplier: map[string]string{
				"简称": "shortName",
				"代码": "code",
				"名称": "name",
				"全名": "fullName",
			},
			Project: map[string]string{
				"项目简称": "shortName",
				"代码":   "code",
				"名称":   "name",
				"全名":   "fullName",
			},
			FeeCode: map[string]string{
				"别称":   "alias",
				"科目名称": "name",
				"科目代码": "code",
			},
		},
		BankAccounts: map[string]string{
			"东蜜代深蜜支付：": "1002.16",
			"深蜜代东蜜付：":  "1002.21",
			"深蜜支付：":    "1002.21",
			"高定支付：":    "1002.30.01",
			"高定付：":     "1002.30.02",
		},
		DefaultBankAccount: "1002.16",
		Accounts: Accounts{
			SupplierPayable: "2202.01",
			TransitGoods:    "1402",
			InputTax:        "2221.01.01",
		},
		Department: Department{Code: "02", Name: "采购部"},
		Identities: Identities{
			DefaultPreparer: "陈丽玲",
			Checker:         "NONE",
			Approver:        "NONE",
			Cashier:         "NONE",
		},
		SchemaFile: "t_Schema.json",
	}
}

// Load reads a policy override file and merges it over the defaults. An
// empty path returns the defaults unchanged.
func Load(path string) (*Policy, error) {
	policy := Default()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	if err := yaml.Unmarshal(data, policy); err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}

	applyDefaults(policy)
	return policy, nil
}

// applyDefaults backfills any field the override file left unset.
func applyDefaults(policy *Policy) {
	def := Default()

	if policy.Sheets.Payment == "" {
		policy.Sheets.Payment = def.Sheets.Payment
	}
	if policy.Sheets.Reimbursement == "" {
		policy.Sheets.Reimbursement = def.Sheets.Reimbursement
	}
	if policy.Sheets.Supplier == "" {
		policy.Sheets.Supplier = def.Sheets.Supplier
	}
	if policy.Sheets.Project == "" {
		policy.Sheets.Project = def.Sheets.Project
	}
	if policy.Sheets.FeeCode == "" {
		policy.Sheets.FeeCode = def.Sheets.FeeCode
	}
	if policy.Sheets.FeeCodeNoProject == "" {
		policy.Sheets.FeeCodeNoProject = def.Sheets.FeeCodeNoProject
	}

	if len(policy.FieldMaps.Payment) == 0 {
		policy.FieldMaps.Payment = def.FieldMaps.Payment
	}
	if len(policy.FieldMaps.Supplier) == 0 {
		policy.FieldMaps.Supplier = def.FieldMaps.Supplier
	}
	if len(policy.FieldMaps.Project) == 0 {
		policy.FieldMaps.Project = def.FieldMaps.Project
	}
	if len(policy.FieldMaps.FeeCode) == 0 {
		policy.FieldMaps.FeeCode = def.FieldMaps.FeeCode
	}

	if len(policy.BankAccounts) == 0 {
		policy.BankAccounts = def.BankAccounts
	}
	if policy.DefaultBankAccount == "" {
		policy.DefaultBankAccount = def.DefaultBankAccount
	}
	if policy.Accounts.SupplierPayable == "" {
		policy.Accounts.SupplierPayable = def.Accounts.SupplierPayable
	}
	if policy.Accounts.TransitGoods == "" {
		policy.Accounts.TransitGoods = def.Accounts.TransitGoods
	}
	if policy.Accounts.InputTax == "" {
		policy.Accounts.InputTax = def.Accounts.InputTax
	}
	if policy.Department.Code == "" {
		policy.Department = def.Department
	}
	if policy.Identities.DefaultPreparer == "" {
		policy.Identities.DefaultPreparer = def.Identities.DefaultPreparer
	}
	if policy.Identities.Checker == "" {
		policy.Identities.Checker = def.Identities.Checker
	}
	if policy.Identities.Approver == "" {
		policy.Identities.Approver = def.Identities.Approver
	}
	if policy.Identities.Cashier == "" {
		policy.Identities.Cashier = def.Identities.Cashier
	}
	if policy.SchemaFile == "" {
		policy.SchemaFile = def.SchemaFile
	}
}

// BankAccountFor returns the bank account for a paying company, falling back
// to the default account when the company is not mapped.
func (p *Policy) BankAccountFor(company string) string {
	if acct, ok := p.BankAccounts[company]; ok {
		return acct
	}
	return p.DefaultBankAccount
}
