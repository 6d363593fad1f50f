package analyze

import (
	"fmt"

	"github.com/leapstack-labs/minisql/pkg/token"
)

// Severity indicates the importance of a diagnostic.
type Severity int

// Severity levels for diagnostics.
const (
	// SeverityError marks a statement that must not be applied.
	SeverityError Severity = iota
	// SeverityWarning marks a statement that is valid but suspicious.
	SeverityWarning
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Code identifies the check that produced a diagnostic.
type Code string

// Diagnostic codes.
const (
	CodeUnknownTable      Code = "unknown-table"
	CodeUnknownColumn     Code = "unknown-column"
	CodeTableExists       Code = "table-exists"
	CodeDuplicateColumn   Code = "duplicate-column"
	CodeZeroSize          Code = "zero-size"
	CodeValueCount        Code = "value-count"
	CodeTypeMismatch      Code = "type-mismatch"
	CodeValueTooLong      Code = "value-too-long"
	CodeConstantCondition Code = "constant-condition"
)

// Diagnostic is one finding of the analyzer.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Pos      token.Position
}

// String renders "line:col: severity: message [code]".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s [%s]", d.Pos, d.Severity, d.Message, d.Code)
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
