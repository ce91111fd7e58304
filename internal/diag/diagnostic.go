package diag

import "fmt"

// Stage identifies which front-end phase produced the diagnostic.
type Stage string

const (
	StageScanner   Stage = "scanner"
	StageParser    Stage = "parser"
	StageAssemble  Stage = "assemble"
	StageTypeCheck Stage = "typecheck"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Syntax errors
	CodeSyntaxUnexpectedToken    Code = "SYNTAX_UNEXPECTED_TOKEN"
	CodeSyntaxInvalidApplication Code = "SYNTAX_INVALID_FUN_APPLICATION"
	CodeSyntaxMalformedTopLevel  Code = "SYNTAX_MALFORMED_TOP_LEVEL"

	// Assembly errors
	CodeAsmModuleRename      Code = "ASM_MODULE_RENAME"
	CodeAsmMissingModule     Code = "ASM_MISSING_MODULE"
	CodeAsmMalformedTopLevel Code = "ASM_MALFORMED_TOP_LEVEL"
	CodeAsmDuplicateFunction Code = "ASM_DUPLICATE_FUNCTION"
	CodeAsmUnresolvedExport  Code = "ASM_UNRESOLVED_EXPORT"

	// Type errors
	CodeTypeMismatch         Code = "TYPE_MISMATCH"
	CodeTypeOccurs           Code = "TYPE_OCCURS"
	CodeTypeTupleArity       Code = "TYPE_TUPLE_ARITY"
	CodeTypeFunArity         Code = "TYPE_FUN_ARITY"
	CodeTypeUndefined        Code = "TYPE_UNDEFINED_IDENTIFIER"
	CodeTypeADTCoverage      Code = "TYPE_ADT_COVERAGE"
	CodeTypeReceiverConflict Code = "TYPE_RECEIVER_CONFLICT"
	CodeTypeSpawnNonReceiver Code = "TYPE_SPAWN_NON_RECEIVER"
	CodeTypeSendMismatch     Code = "TYPE_SEND_MISMATCH"
	CodeTypeBadGuard         Code = "TYPE_FOREIGN_GUARD"
)

// Diagnostic is a front-end diagnostic surfaced to end-users. Failures are
// returned as data: a *Diagnostic satisfies the error interface, and every
// stage fails whole with the first diagnostic it produces.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Line     int // 1-based source line, 0 when unknown
	Notes    []string
}

// New constructs an error-severity diagnostic.
func New(stage Stage, code Code, line int, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Stage:    stage,
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
	}
}

// Error satisfies the error interface.
func (d *Diagnostic) Error() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", d.Stage, d.Line, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Stage, d.Message)
}

// WithNote returns the diagnostic with an additional note attached.
func (d *Diagnostic) WithNote(format string, args ...any) *Diagnostic {
	d.Notes = append(d.Notes, fmt.Sprintf(format, args...))
	return d
}
