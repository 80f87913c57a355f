package interp

import (
	"fmt"

	"github.com/loxlang/golox/token"
)

// RuntimeError is a Lox-level runtime failure (type mismatch, unknown
// property, wrong arity...). It carries the offending token so the
// runner can report a line number the same way the parser does.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

// returnSignal is not an error in the Lox sense: it's the Go value a
// `return` statement uses to unwind back to the nearest function call
// boundary, carrying the returned Value. It implements error only so
// it can travel through the same (Value, error) return channel every
// other statement/expression uses, instead of a second out-of-band
// result path; Call() unwraps it with errors.As and never surfaces it
// to a caller as a real failure.
type returnSignal struct {
	Value interface{}
}

func (r *returnSignal) Error() string { return "return" }
