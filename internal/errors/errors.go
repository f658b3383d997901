// Package errors implements the design's error handling design: compile-time
// ParseMessage accumulation and the runtime exception/stack-trace shape the
// interpreter raises and $catch intercepts. Internal plumbing failures
// (module I/O, malformed bytecode) are wrapped with github.com/pkg/errors so
// their original cause survives alongside the language-level Kind, the way
// a project that already carries that dependency in go.mod would use it.
package errors

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Kind is one of the design's named error-kind symbols.
type Kind string

const (
	ObjectSecurityError Kind = "object-security-error"
	PropertyError       Kind = "property-error"
	EvalError           Kind = "eval-error"
	NativeMethodError   Kind = "native-method-error"
	ParseError          Kind = "parse-error"
	TypeError           Kind = "type-error"
	ArithmeticError     Kind = "arithmetic-error"
	IOError             Kind = "io-error"
)

// Severity is a ParseMessage's level, per the design: "kind ∈ {INFO,
// WARNING, ERROR, FATAL}".
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Position is a resolved source location, shared between ParseMessage and
// runtime stack frames.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" && p.Line == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// ParseMessage is one compile-time diagnostic. The
// compiler accumulates a list of these instead of stopping at the first
// ERROR. The compiler does not stop early for any severity: it raises only
// ERROR messages, and a FATAL one is counted like an ERROR without
// aborting the compile.
type ParseMessage struct {
	Severity Severity
	Position Position
	Text     string
}

func NewParseMessage(sev Severity, pos Position, text string) *ParseMessage {
	return &ParseMessage{Severity: sev, Position: pos, Text: text}
}

func (m *ParseMessage) Error() string {
	if loc := m.Position.String(); loc != "" {
		return fmt.Sprintf("%s: %s: %s", loc, m.Severity, m.Text)
	}
	return fmt.Sprintf("%s: %s", m.Severity, m.Text)
}

// StackFrame is one entry of a runtime Exception's stack trace: the
// function name and source position active when the frame was captured.
type StackFrame struct {
	Function string
	Position Position
}

// Exception is the runtime, throwable error object the design describes:
// "the Throw primitive constructs an exception user-object { kind, message,
// stack-trace }". internal/value's UserObject is the actual heap
// representation a $new-constructed exception takes; this Go type is what
// internal/interp threads through its Step/escape-continuation machinery
// before (or instead of) materializing a UserObject, and what the CLI's
// EvalResult carries back to the embedder on an uncaught throw.
type Exception struct {
	ErrKind    Kind
	Message    string
	StackTrace []StackFrame
	Cause      error // wrapped host-level cause, if any (e.g. an external-function ABI violation)
}

func NewException(kind Kind, message string) *Exception {
	return &Exception{ErrKind: kind, Message: message}
}

func (e *Exception) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.ErrKind))
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	for _, f := range e.StackTrace {
		sb.WriteString("\n  at ")
		if f.Function != "" {
			sb.WriteString(f.Function)
			sb.WriteString(" (")
			sb.WriteString(f.Position.String())
			sb.WriteString(")")
		} else {
			sb.WriteString(f.Position.String())
		}
	}
	if e.Cause != nil {
		sb.WriteString("\ncaused by: ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

func (e *Exception) Unwrap() error { return e.Cause }

// WithFrame appends a stack frame, innermost first (the order Throw's
// closure-chain walk naturally produces frames in).
func (e *Exception) WithFrame(function string, pos Position) *Exception {
	e.StackTrace = append(e.StackTrace, StackFrame{Function: function, Position: pos})
	return e
}

// Wrap lifts a host-level error (file I/O, a malformed module) into an
// Exception of the given kind, preserving the original as Cause via
// github.com/pkg/errors so %+v printing still shows its stack.
func Wrap(kind Kind, cause error, message string) *Exception {
	return &Exception{
		ErrKind: kind,
		Message: message,
		Cause:   pkgerrors.Wrap(cause, message),
	}
}

// Cause is github.com/pkg/errors.Cause for callers that only have an
// `error`: it follows Cause() methods down the chain. *Exception has no
// Cause() method, so an *Exception is returned as is, not unwrapped to its
// Cause field.
func Cause(err error) error { return pkgerrors.Cause(err) }
