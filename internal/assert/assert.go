// Package assert provides lightweight invariant checks. A failed assertion
// indicates a programming error, not a runtime condition callers should
// handle, so it panics rather than returning an error.
package assert

import "fmt"

// Assert panics with the formatted message if cond is false.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

// IsNil panics with the formatted message if err is non-nil.
func IsNil(err error, format string, args ...any) {
	if err != nil {
		panic(fmt.Sprintf(format, args...) + ": " + err.Error())
	}
}

// IsNotNil panics with the formatted message if v is nil.
func IsNotNil(v any, format string, args ...any) {
	if v == nil {
		panic(fmt.Sprintf(format, args...))
	}
}

// Never panics unconditionally. Used to mark code paths that must be
// unreachable.
func Never(format string, args ...any) {
	panic(fmt.Sprintf(format, args...))
}
