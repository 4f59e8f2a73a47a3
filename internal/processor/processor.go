// =============================================================================
// Finance Ledger Export - Processing Pipeline
// =============================================================================
//
// This module wires the pipeline together: open the uploaded workbook,
// decide (or accept) its type, parse and cross-reference the records, post
// them through the rule engine and serialize the import workbook.
//
// The two flows share nothing but the skeleton:
//
//   payment:       付款(每日) header-mapped rows + three lookup sheets,
//                  resolved and enriched, one voucher per payment row.
//   reimbursement: 报销  (每日) positional layout, claimant header block
//                  above a detail table, one voucher per claimant.
//
// =============================================================================

package processor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/liyongcheng94/finance-app/internal/classifier"
	"github.com/liyongcheng94/finance-app/internal/config"
	"github.com/liyongcheng94/finance-app/internal/ledgerwriter"
	"github.com/liyongcheng94/finance-app/internal/resolver"
	"github.com/liyongcheng94/finance-app/internal/rules"
	"github.com/liyongcheng94/finance-app/internal/sheetparser"
	"github.com/liyongcheng94/finance-app/internal/types"
	"github.com/liyongcheng94/finance-app/pkg/utils"
)

// Sheet geometry of the payment layout. Rows are 1-based.
const (
	paymentMaxColumns = 12
	paymentHeaderRow  = 2
	paymentStartRow   = 3

	lookupHeaderRow = 1
	lookupStartRow  = 2

	feeCodeMaxColumns  = 3
	projectMaxColumns  = 4
	supplierMaxColumns = 4

	// The claim sheet is scanned at its full printable width.
	claimMaxColumns = 16
)

// PreparerResolver turns an authenticated principal into the display name
// stamped on vouchers. Returning "" falls back to the policy default.
type PreparerResolver func(principal string) string

// Processor runs the transformation pipeline. It is safe for concurrent
// use: all state is read-only after construction.
type Processor struct {
	policy   *config.Policy
	logger   *slog.Logger
	resolver PreparerResolver
	now      func() time.Time
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) { p.logger = logger }
}

// WithPreparerResolver installs a principal-to-display-name resolver.
func WithPreparerResolver(r PreparerResolver) Option {
	return func(p *Processor) { p.resolver = r }
}

// WithClock replaces the time source. Dates in the source sheets carry no
// year, so tests pin the clock.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// New builds a Processor around an accounting policy.
func New(policy *config.Policy, opts ...Option) *Processor {
	p := &Processor{
		policy: policy,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// =============================================================================
// ENTRY POINTS
// =============================================================================

// Process transforms an uploaded workbook. filename is the original upload
// name (used by auto-detection), mode the requested pipeline (ModeAuto to
// detect) and preparer the principal preparing the vouchers.
func (p *Processor) Process(data []byte, filename string, mode types.Mode, preparer string) (*types.Result, error) {
	wb, err := sheetparser.OpenBytes(data)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	if !mode.Valid() {
		mode = p.classify(wb, filename)
		p.logger.Info("detected workbook type", "file", filename, "mode", mode)
	}

	engine := rules.New(p.policy, p.resolvePreparer(preparer), p.logger)

	switch mode {
	case types.ModeReimbursement:
		return p.processReimbursement(wb, engine)
	default:
		return p.processPayment(wb, engine)
	}
}

// ProcessFile is Process for a workbook on disk.
func (p *Processor) ProcessFile(path string, mode types.Mode, preparer string) (*types.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return p.Process(data, filepath.Base(path), mode, preparer)
}

// Detect classifies a workbook without processing it.
func (p *Processor) Detect(data []byte, filename string) (types.Mode, error) {
	wb, err := sheetparser.OpenBytes(data)
	if err != nil {
		return "", err
	}
	defer wb.Close()
	return p.classify(wb, filename), nil
}

// =============================================================================
// PAYMENT FLOW
// =============================================================================

func (p *Processor) processPayment(wb *sheetparser.Workbook, engine *rules.Engine) (*types.Result, error) {
	sheets := p.policy.Sheets
	maps := p.policy.FieldMaps

	base, err := p.mappedRows(wb, sheets.Payment, sheetparser.Options{
		MaxColumns: paymentMaxColumns,
		StartRow:   paymentStartRow,
		HeaderRow:  paymentHeaderRow,
	}, maps.Payment, nil)
	if err != nil {
		return nil, err
	}
	if len(base) == 0 {
		return nil, &types.EmptyDataError{Sheet: sheets.Payment}
	}

	// The supplier lookup sheet is large; only rows this batch references
	// are kept.
	wanted := make(map[string]bool, len(base))
	for _, rec := range base {
		wanted[rec["supplier"]] = true
	}

	tables := resolver.Tables{}
	tables.FeeCodes, err = p.mappedRows(wb, sheets.FeeCode, lookupOptions(feeCodeMaxColumns), maps.FeeCode, nil)
	if err != nil {
		return nil, err
	}
	tables.Projects, err = p.mappedRows(wb, sheets.Project, lookupOptions(projectMaxColumns), maps.Project, nil)
	if err != nil {
		return nil, err
	}
	tables.Suppliers, err = p.mappedRows(wb, sheets.Supplier, lookupOptions(supplierMaxColumns), maps.Supplier,
		func(rec types.Record) bool { return wanted[rec["shortName"]] })
	if err != nil {
		return nil, err
	}

	now := p.now()
	records, err := resolver.Resolve(base, tables, p.policy, now)
	if err != nil {
		return nil, err
	}

	var lines []types.LedgerLine
	for i, rec := range records {
		lines = append(lines, engine.PaymentLines(rec, i+1)...)
	}

	output, err := ledgerwriter.Serialize(lines, p.loadSchema(), ledgerwriter.Options{})
	if err != nil {
		return nil, err
	}

	return &types.Result{
		Output:        output,
		RecordCount:   len(records),
		Mode:          types.ModePayment,
		SuggestedName: utils.OutputFileName("排单", now),
	}, nil
}

// mappedRows reads a header-driven sheet and maps it to records, optionally
// filtered.
func (p *Processor) mappedRows(wb *sheetparser.Workbook, sheet string, opts sheetparser.Options, fieldMap map[string]string, keep func(types.Record) bool) ([]types.Record, error) {
	header, err := wb.Header(sheet, opts)
	if err != nil {
		return nil, err
	}
	rows, err := wb.Rows(sheet, opts)
	if err != nil {
		return nil, err
	}
	if keep != nil {
		return sheetparser.MapByHeaderFiltered(header, rows, fieldMap, keep), nil
	}
	return sheetparser.MapByHeader(header, rows, fieldMap), nil
}

func lookupOptions(maxColumns int) sheetparser.Options {
	return sheetparser.Options{
		MaxColumns: maxColumns,
		StartRow:   lookupStartRow,
		HeaderRow:  lookupHeaderRow,
	}
}

// =============================================================================
// REIMBURSEMENT FLOW
// =============================================================================

func (p *Processor) processReimbursement(wb *sheetparser.Workbook, engine *rules.Engine) (*types.Result, error) {
	sheets := p.policy.Sheets

	raw, err := wb.RawRows(sheets.Reimbursement, claimMaxColumns)
	if err != nil {
		return nil, err
	}

	tops := rules.ParseTopInfos(raw)
	details := engine.ParseDetails(raw)
	feeNames := p.feeNameTable(wb)

	now := p.now()
	lines, err := engine.ReimbursementLines(tops, details, feeNames, now)
	if err != nil {
		return nil, err
	}

	output, err := ledgerwriter.Serialize(lines, p.loadSchema(), ledgerwriter.Options{AmountForFormula: true})
	if err != nil {
		return nil, err
	}

	return &types.Result{
		Output:        output,
		RecordCount:   len(lines),
		Mode:          types.ModeReimbursement,
		SuggestedName: utils.OutputFileName("报销", now),
	}, nil
}

// feeNameTable builds the fee code to account-name map from the claim
// workbook's lookup sheets. The project-less sheet fills gaps but never
// overrides the main sheet. Both sheets are optional: details fall back to
// their own fee-type text.
func (p *Processor) feeNameTable(wb *sheetparser.Workbook) map[string]string {
	names := make(map[string]string)
	for _, sheet := range []string{p.policy.Sheets.FeeCode, p.policy.Sheets.FeeCodeNoProject} {
		rows, err := wb.RawRows(sheet, feeCodeMaxColumns)
		if err != nil {
			p.logger.Warn("fee code sheet not readable, using fee-type text", "sheet", sheet)
			continue
		}
		for i, row := range rows {
			if i == 0 {
				continue // header
			}
			code, name := strings.TrimSpace(row[2]), strings.TrimSpace(row[1])
			if code == "" || name == "" {
				continue
			}
			if _, exists := names[code]; !exists {
				names[code] = name
			}
		}
	}
	return names
}

// =============================================================================
// SHARED PIECES
// =============================================================================

// classify runs the three-tier type detection over an open workbook.
func (p *Processor) classify(wb *sheetparser.Workbook, filename string) types.Mode {
	sheetNames := wb.SheetNames()
	samples := make(map[string][][]string, len(sheetNames))
	for _, sheet := range sheetNames {
		samples[sheet] = wb.SampleRows(sheet, classifier.SampleLimit, claimMaxColumns)
	}
	return classifier.Classify(filename, sheetNames, samples)
}

// resolvePreparer maps the principal through the installed resolver.
func (p *Processor) resolvePreparer(principal string) string {
	if p.resolver == nil {
		return principal
	}
	return p.resolver(principal)
}

// loadSchema reads the t_Schema resource. A missing or broken file
// degrades to a headers-only schema sheet, matching what the importer
// tolerates.
func (p *Processor) loadSchema() []map[string]any {
	data, err := os.ReadFile(p.policy.SchemaFile)
	if err != nil {
		p.logger.Warn("schema resource not found, writing headers only", "path", p.policy.SchemaFile)
		return nil
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		p.logger.Warn("schema resource not parseable, writing headers only",
			"path", p.policy.SchemaFile, "error", err)
		return nil
	}
	return rows
}
