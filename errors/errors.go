package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseValidate Phase = "validate" // input validation, before dispatch
	PhaseDispatch Phase = "dispatch" // dispatcher submission and lifecycle
	PhaseEngine   Phase = "engine"   // the thread-affine service itself
	PhaseProvider Phase = "provider" // provider bookkeeping
)

// Kind categorizes the error
type Kind string

const (
	KindOversizedInput      Kind = "oversized_input"
	KindInvalidUTF8         Kind = "invalid_utf8"
	KindMalformedTag        Kind = "malformed_tag"
	KindUnsupportedLanguage Kind = "unsupported_language"
	KindEngineFailure       Kind = "engine_failure"
	KindNotInitialized      Kind = "not_initialized"
	KindConcurrentAccess    Kind = "concurrent_access"
	KindClosed              Kind = "closed"
	KindInvalidHandle       Kind = "invalid_handle"
	KindDoubleFree          Kind = "double_free"
	KindPanic               Kind = "panic"
)

// Error is the structured error type used throughout the library
type Error struct {
	Input  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Opname string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Opname != "" {
		b.WriteString(" in ")
		b.WriteString(e.Opname)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the operation name
func (b *Builder) Op(name string) *Builder {
	b.err.Opname = name
	return b
}

// Input sets the offending input
func (b *Builder) Input(v any) *Builder {
	b.err.Input = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// OversizedInput creates an error for input exceeding the code-unit cap
func OversizedInput(op string, input string, maxUnits int) *Error {
	preview := input
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindOversizedInput,
		Opname: op,
		Input:  preview,
		Detail: fmt.Sprintf("input exceeds %d UTF-16 code units", maxUnits),
	}
}

// InvalidUTF8 creates an error for input that is not valid UTF-8
func InvalidUTF8(op string, input string) *Error {
	preview := input
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindInvalidUTF8,
		Opname: op,
		Input:  preview,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// MalformedTag creates an error for a language tag that fails validation
func MalformedTag(op, tag string, cause error) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindMalformedTag,
		Opname: op,
		Input:  tag,
		Detail: fmt.Sprintf("language tag %q is not well-formed", tag),
		Cause:  cause,
	}
}

// UnsupportedLanguage creates an error for a tag the service has no dictionary for
func UnsupportedLanguage(op, tag string) *Error {
	return &Error{
		Phase:  PhaseEngine,
		Kind:   KindUnsupportedLanguage,
		Opname: op,
		Input:  tag,
		Detail: fmt.Sprintf("no dictionary for language %q", tag),
	}
}

// EngineFailure wraps a failure reported by the thread-affine service
func EngineFailure(op string, cause error) *Error {
	return &Error{
		Phase:  PhaseEngine,
		Kind:   KindEngineFailure,
		Opname: op,
		Cause:  cause,
	}
}

// NotInitialized creates an error for operations on a missing component
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// ConcurrentAccess reports a thread-affinity violation on the service
func ConcurrentAccess(op string) *Error {
	return &Error{
		Phase:  PhaseEngine,
		Kind:   KindConcurrentAccess,
		Opname: op,
		Detail: "overlapping call on thread-affine resource",
	}
}

// Closed creates an error for operations after teardown
func Closed(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s is closed", component),
	}
}

// InvalidHandle creates an error for an unknown or already-released handle
func InvalidHandle(op string) *Error {
	return &Error{
		Phase:  PhaseProvider,
		Kind:   KindInvalidHandle,
		Opname: op,
		Detail: "handle is not live",
	}
}

// DoubleFree reports a release through an already-released handle
func DoubleFree(op string) *Error {
	return &Error{
		Phase:  PhaseProvider,
		Kind:   KindDoubleFree,
		Opname: op,
		Detail: "value was already freed",
	}
}

// DispatchPanic wraps a panic recovered from dispatched work
func DispatchPanic(v any) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindPanic,
		Detail: fmt.Sprintf("dispatched work panicked: %v", v),
	}
}
