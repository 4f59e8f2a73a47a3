package types

import (
	"fmt"
	"strings"
)

// All processing failures are fatal for the batch: a ledger file either
// balances exactly or is not written at all. The error types below carry
// enough context for the caller to render a user-facing message; matching
// is done with errors.As.

// SheetNotFoundError reports a required worksheet missing from the input.
type SheetNotFoundError struct {
	Sheet string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("worksheet %q not found", e.Sheet)
}

// EmptyDataError reports a base data sheet that parsed to zero usable rows.
type EmptyDataError struct {
	Sheet string
}

func (e *EmptyDataError) Error() string {
	return fmt.Sprintf("worksheet %q contains no data rows", e.Sheet)
}

// UnresolvedReferenceError reports every supplier or project name that has
// no lookup-table match. The list is accumulated across the whole batch
// before failing so that one report names every broken cross-reference.
type UnresolvedReferenceError struct {
	Missing []string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved references: %s", strings.Join(e.Missing, ", "))
}

// DateFormatError reports a date cell that does not match the expected
// "month.day" numeric-text shape.
type DateFormatError struct {
	Value string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("invalid date %q: expected month.day", e.Value)
}

// RemarkFormatError reports a partial-payment tax remark that lacks the
// expected （A+B） parenthesized shape.
type RemarkFormatError struct {
	Remark string
}

func (e *RemarkFormatError) Error() string {
	if e.Remark == "" {
		return "tax remark is empty: expected （tax+remainder）"
	}
	return fmt.Sprintf("invalid tax remark %q: expected （tax+remainder）", e.Remark)
}

// SerializationError reports a failure writing the output workbook. No
// partial file is left behind when this is returned.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to write output workbook: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
