// Package diagnostic provides error reporting for the gulc middle-end.
//
// Every pass (L, P, V, R, I, S, C, G — spec.md §2) reports through this
// package so that the exit-condition format of spec.md §6 is produced in
// exactly one place:
//
//	gulc <phase> error[<file>, {l,c} to {l,c}]: <message>
package diagnostic

import (
	"fmt"
	"strings"

	"codeberg.org/saruga/gulc/internal/sourcemap"
)

// Severity represents the severity level of a diagnostic.
type Severity uint8

const (
	Error Severity = iota
	Warning
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// Phase identifies which pass of the pipeline raised the diagnostic,
// matching the single-letter pass names of spec.md §2.
type Phase uint8

const (
	PhaseLex Phase = iota
	PhaseParse
	PhaseDeclValidate
	PhaseResolve
	PhaseInstantiate
	PhaseOverload
	PhaseContract
	PhaseCodegen
)

func (p Phase) String() string {
	switch p {
	case PhaseLex:
		return "lex"
	case PhaseParse:
		return "parse"
	case PhaseDeclValidate:
		return "decl"
	case PhaseResolve:
		return "resolve"
	case PhaseInstantiate:
		return "instantiate"
	case PhaseOverload:
		return "overload"
	case PhaseContract:
		return "contract"
	case PhaseCodegen:
		return "codegen"
	default:
		return "unknown"
	}
}

// Code classifies a diagnostic by the error-kind table of spec.md §7.
type Code string

const (
	CodeUnexpectedToken     Code = "lex-unexpected-token"
	CodeUnterminatedString  Code = "lex-unterminated-string"
	CodeIllegalLiteral      Code = "lex-illegal-literal"
	CodeBadModifierPosition Code = "parse-bad-modifier"

	CodeRedefinition        Code = "decl-redefinition"
	CodeInvalidModifierComb Code = "decl-invalid-modifiers"
	CodeMissingBody         Code = "decl-missing-body"
	CodeExternWithBody      Code = "decl-extern-with-body"
	CodeAbstractWithBody    Code = "decl-abstract-with-body"

	CodeUnknownName      Code = "resolve-unknown-name"
	CodeAmbiguousName    Code = "resolve-ambiguous-name"
	CodeWrongArgCount    Code = "resolve-wrong-arg-count"
	CodeUnresolvedNested Code = "resolve-unresolved-nested"

	CodeConstraintUnsatisfied Code = "contract-unsatisfied"
	CodeHasOnUninstantiated   Code = "contract-has-on-uninstantiated"

	CodeNoMatchingOverload Code = "overload-no-match"
	CodeAmbiguousOverload  Code = "overload-ambiguous"

	CodeMutMismatch     Code = "type-mut-mismatch"
	CodeInvalidCast     Code = "type-invalid-cast"
	CodeSretOnNonStruct Code = "type-sret-non-struct"
	CodeRvalueExpected  Code = "type-rvalue-expected"

	CodeInternal Code = "internal-invariant-violation"
)

// Diagnostic is a single reported message.
type Diagnostic struct {
	Phase    Phase
	Severity Severity
	Code     Code
	Message  string
	File     string
	Start    sourcemap.Position
	End      sourcemap.Position
	Related  []RelatedInfo
	// RunID correlates every diagnostic produced by one compilation,
	// see internal/session.Session.RunID.
	RunID string
}

// RelatedInfo is a secondary location attached to a Diagnostic (e.g. "the
// other candidate declared here").
type RelatedInfo struct {
	File    string
	At      sourcemap.Position
	Message string
}

// Error implements the error interface using the exit-condition format of
// spec.md §6.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("gulc %s %s[%s, {%d,%d} to {%d,%d}]: %s",
		d.Phase, d.Severity, d.File, d.Start.Line, d.Start.Column,
		d.End.Line, d.End.Column, d.Message)
}

// List collects diagnostics produced during one compilation run.
//
// Propagation policy (spec.md §7): the first Error added should stop the
// session (internal/session.Session.HasAborted reports true once this list
// holds an Error) — List itself is purely the accumulator.
type List struct {
	items     []*Diagnostic
	hasErrors bool
}

// NewList creates an empty diagnostic list.
func NewList() *List {
	return &List{}
}

// Add appends a diagnostic.
func (l *List) Add(d *Diagnostic) {
	l.items = append(l.items, d)
	if d.Severity == Error {
		l.hasErrors = true
	}
}

// Errorf appends a fatal diagnostic built from a format string.
func (l *List) Errorf(phase Phase, code Code, file string, start, end sourcemap.Position, format string, args ...any) *Diagnostic {
	d := &Diagnostic{
		Phase: phase, Severity: Error, Code: code, File: file,
		Start: start, End: end, Message: fmt.Sprintf(format, args...),
	}
	l.Add(d)
	return d
}

// Warnf appends a non-fatal diagnostic.
func (l *List) Warnf(phase Phase, code Code, file string, start, end sourcemap.Position, format string, args ...any) *Diagnostic {
	d := &Diagnostic{
		Phase: phase, Severity: Warning, Code: code, File: file,
		Start: start, End: end, Message: fmt.Sprintf(format, args...),
	}
	l.Add(d)
	return d
}

// HasErrors returns true if any Error-severity diagnostic was added.
func (l *List) HasErrors() bool {
	return l.hasErrors
}

// Items returns every diagnostic added so far, in report order.
func (l *List) Items() []*Diagnostic {
	return l.items
}

// Format renders every diagnostic, one per line, in the exit-condition
// format of spec.md §6.
func (l *List) Format() string {
	var sb strings.Builder
	for _, d := range l.items {
		sb.WriteString(d.Error())
		for _, rel := range d.Related {
			sb.WriteString(fmt.Sprintf("\n  %s {%d,%d}: note: %s", rel.File, rel.At.Line, rel.At.Column, rel.Message))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
