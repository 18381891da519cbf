// Package nerr implements the process-wide "last error" channel described in
// spec.md §4.2 and exposed by spec.md §6. Every fallible operation elsewhere
// in this module returns an idiomatic Go (T, error) pair for callers that
// want to use errors.Is/errors.As directly, and also mirrors its taxonomy
// and formatted context into this package's single shared slot for callers
// that prefer the polling surface (IsSet/Raise/Print/Clear) the original
// specified.
//
// The slot is guarded by a mutex purely so the package is safe to use from
// parallel test goroutines; the array core itself is documented as
// single-threaded and synchronous (spec.md §5).
package nerr

import (
	"fmt"
	"sync"
)

// Kind is the error taxonomy from spec.md §4.2.
type Kind int

const (
	// NoError is the zero Kind: no error is currently set.
	NoError Kind = iota
	Memory
	Type
	Index
	Value
	IO
	ZeroDivision
	Import
	Attribute
	Key
	Assertion
	Runtime
	Overflow
)

var kindNames = map[Kind]string{
	NoError:      "NoError",
	Memory:       "Memory",
	Type:         "Type",
	Index:        "Index",
	Value:        "Value",
	IO:           "IO",
	ZeroDivision: "ZeroDivision",
	Import:       "Import",
	Attribute:    "Attribute",
	Key:          "Key",
	Assertion:    "Assertion",
	Runtime:      "Runtime",
	Overflow:     "Overflow",
}

// String renders the taxonomy name, e.g. "Value".
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the concrete error value carried in the last-error slot and
// returned by Raise, RaiseKind, and the convenience raisers. Operations that
// report through Mirror return their own wrapped error instead.
type Error struct {
	Kind    Kind
	Context string // formatted, human-readable context; may be empty
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Context == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Context)
}

// state is the package-level last-error slot.
var (
	mu   sync.Mutex
	last *Error
)

// Raise sets the last-error slot to kind with a printf-style formatted
// context, and returns the same error so call sites can write
// `return nil, nerr.Raise(nerr.Value, "bad shape %v", shape)`.
func Raise(kind Kind, format string, args ...any) error {
	e := &Error{Kind: kind, Context: fmt.Sprintf(format, args...)}
	mu.Lock()
	last = e
	mu.Unlock()
	return e
}

// RaiseKind sets the last-error slot to kind with no additional context.
func RaiseKind(kind Kind) error {
	e := &Error{Kind: kind}
	mu.Lock()
	last = e
	mu.Unlock()
	return e
}

// Mirror records an already-constructed error (typically a sentinel wrapped
// with fmt.Errorf by a caller) into the last-error slot under the given
// taxonomy, without changing the error value returned to the Go caller.
// Operations use this when their public signature returns a wrapped
// sentinel but must still update the polling surface.
func Mirror(kind Kind, err error) error {
	if err == nil {
		Clear()
		return nil
	}
	mu.Lock()
	last = &Error{Kind: kind, Context: err.Error()}
	mu.Unlock()
	return err
}

// IsSet reports whether an error is currently latched.
func IsSet() bool {
	mu.Lock()
	defer mu.Unlock()
	return last != nil
}

// Last returns the currently latched error, or nil if none is set.
func Last() *Error {
	mu.Lock()
	defer mu.Unlock()
	return last
}

// Clear resets the last-error slot to NoError.
func Clear() {
	mu.Lock()
	last = nil
	mu.Unlock()
}

// Print writes the current error (if any) to the returned string; it never
// panics on an unset slot.
func Print() string {
	mu.Lock()
	defer mu.Unlock()
	if last == nil {
		return "NoError"
	}
	return last.Error()
}

// Convenience raisers, one per non-NoError taxonomy value, matching the
// "convenience raisers for each taxonomy value" bullet in spec.md §6.

func RaiseMemory(format string, args ...any) error       { return Raise(Memory, format, args...) }
func RaiseType(format string, args ...any) error         { return Raise(Type, format, args...) }
func RaiseIndex(format string, args ...any) error        { return Raise(Index, format, args...) }
func RaiseValue(format string, args ...any) error        { return Raise(Value, format, args...) }
func RaiseIO(format string, args ...any) error           { return Raise(IO, format, args...) }
func RaiseZeroDivision(format string, args ...any) error { return Raise(ZeroDivision, format, args...) }
func RaiseImport(format string, args ...any) error       { return Raise(Import, format, args...) }
func RaiseAttribute(format string, args ...any) error    { return Raise(Attribute, format, args...) }
func RaiseKey(format string, args ...any) error          { return Raise(Key, format, args...) }
func RaiseAssertion(format string, args ...any) error    { return Raise(Assertion, format, args...) }
func RaiseRuntime(format string, args ...any) error      { return Raise(Runtime, format, args...) }
func RaiseOverflow(format string, args ...any) error     { return Raise(Overflow, format, args...) }
