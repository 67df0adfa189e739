package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in verification the error occurred
type Phase string

const (
	PhaseConfig      Phase = "config"      // verifier configuration
	PhaseEncode      Phase = "encode"      // module assembly
	PhaseLoad        Phase = "load"        // reading and compiling a binary
	PhaseInstantiate Phase = "instantiate" // module instantiation
	PhaseEntry       Phase = "entry"       // running _start
	PhaseCall        Phase = "call"        // invoking an export
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidInput      Kind = "invalid_input"
	KindInvalidData       Kind = "invalid_data"
	KindNotFound          Kind = "not_found"
	KindSignatureMismatch Kind = "signature_mismatch"
	KindInstantiation     Kind = "instantiation"
	KindTrap              Kind = "trap"
	KindClosed            Kind = "closed"
)

// Error is the structured error type used throughout the module.
// Two errors match under errors.Is when Phase and Kind are equal.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Export string
	Detail string
}

// Error renders "[phase] kind in export: detail (caused by: cause)",
// leaving out empty parts.
func (e *Error) Error() string {
	parts := []string{"[" + string(e.Phase) + "] " + string(e.Kind)}
	if e.Export != "" {
		parts = append(parts, " in ", e.Export)
	}
	if e.Detail != "" {
		parts = append(parts, ": ", e.Detail)
	}
	if e.Cause != nil {
		parts = append(parts, " (caused by: ", e.Cause.Error(), ")")
	}
	return strings.Join(parts, "")
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder assembles an Error field by field.
type Builder struct {
	err Error
}

// New starts an error of the given phase and kind.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{err: Error{Phase: phase, Kind: kind}}
}

func (b *Builder) Export(name string) *Builder {
	b.err.Export = name
	return b
}

// Value records the offending input.
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the message, formatting it when args are given.
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	b.err.Detail = msg
	return b
}

func (b *Builder) Build() *Error {
	e := b.err
	return &e
}

// Wrap attaches phase, kind and detail to cause.
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return New(phase, kind).Cause(cause).Detail(detail).Build()
}

// NotFound reports a missing export.
func NotFound(phase Phase, export string) *Error {
	return New(phase, KindNotFound).Export(export).Detail("export %q not found", export).Build()
}

// InvalidInput reports a caller mistake.
func InvalidInput(phase Phase, detail string) *Error {
	return New(phase, KindInvalidInput).Detail(detail).Build()
}

// InvalidConfig wraps a configuration validation failure.
func InvalidConfig(cause error) *Error {
	return Wrap(PhaseConfig, KindInvalidInput, cause, "invalid verifier config")
}

// Load reports a binary that could not be compiled.
func Load(detail string, cause error) *Error {
	return Wrap(PhaseLoad, KindInvalidData, cause, detail)
}

// Instantiation reports a module that compiled but failed to instantiate.
func Instantiation(cause error) *Error {
	return Wrap(PhaseInstantiate, KindInstantiation, cause, "instantiate module")
}

// Trap reports a guest call that did not return normally.
func Trap(phase Phase, export string, cause error) *Error {
	return New(phase, KindTrap).Export(export).Cause(cause).Build()
}

// Closed reports use of a released session.
func Closed(export string) *Error {
	return New(PhaseCall, KindClosed).Export(export).Detail("session closed").Build()
}

// SignatureMismatch reports an export whose core signature differs from
// the expected one.
func SignatureMismatch(export, want, got string) *Error {
	return New(PhaseLoad, KindSignatureMismatch).Export(export).Detail("want %s, got %s", want, got).Build()
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
