package domain

import "fmt"

// ErrorKind classifies a failed operation
type ErrorKind int

const (
	// KindValidation covers bad extensions, empty or oversized files and malformed specifications
	KindValidation ErrorKind = iota + 1
	// KindExternalTool is a toolchain that exited non-zero with diagnostics
	KindExternalTool
	// KindInfrastructure means the environment, not the caller's input, is at fault
	KindInfrastructure
	// KindCancelled is a caller-initiated cancellation
	KindCancelled
	// KindNotSupported is an unknown chain selector
	KindNotSupported
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindExternalTool:
		return "external_tool"
	case KindInfrastructure:
		return "infrastructure"
	case KindCancelled:
		return "cancelled"
	case KindNotSupported:
		return "not_supported"
	default:
		return "unknown"
	}
}

// IsBadRequest reports whether the caller's input caused the failure
func (k ErrorKind) IsBadRequest() bool {
	return k == KindValidation || k == KindExternalTool || k == KindNotSupported
}

// Failure is the error side of a Result
type Failure struct {
	Kind    ErrorKind
	Message string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Result is either a success value or a typed failure, never both
type Result[T any] struct {
	value   T
	failure *Failure
}

// Ok wraps a success value
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Fail builds a failed result
func Fail[T any](kind ErrorKind, message string) Result[T] {
	return Result[T]{failure: &Failure{Kind: kind, Message: message}}
}

// Failf builds a failed result with a formatted message
func Failf[T any](kind ErrorKind, format string, args ...any) Result[T] {
	return Fail[T](kind, fmt.Sprintf(format, args...))
}

// FailWith carries an existing failure into a result of another type
func FailWith[T any](f *Failure) Result[T] {
	return Result[T]{failure: f}
}

// IsSuccess reports whether the result holds a value
func (r Result[T]) IsSuccess() bool {
	return r.failure == nil
}

// Value returns the success value, or the zero value on failure
func (r Result[T]) Value() T {
	return r.value
}

// Failure returns the failure, or nil on success
func (r Result[T]) Failure() *Failure {
	return r.failure
}

// Kind returns the failure kind, or zero on success
func (r Result[T]) Kind() ErrorKind {
	if r.failure == nil {
		return 0
	}
	return r.failure.Kind
}

// Unwrap converts the result into Go's value/error pair
func (r Result[T]) Unwrap() (T, error) {
	if r.failure != nil {
		var zero T
		return zero, r.failure
	}
	return r.value, nil
}
