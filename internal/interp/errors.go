package interp

import "github.com/gophlox/glox/internal/token"

// RuntimeError is a failure detected during interpretation: a type mismatch,
// an undefined name, a bad call. It carries the offending token so the
// driver can report a line number. Unlike a static error, a RuntimeError is
// always fatal to the run that raised it.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// returnSignal carries a `return` statement's value up through the ordinary
// statement-execution call stack to the UserFn.call that invoked the
// function body. It is not an error: it is caught at exactly one place and
// must never be observed outside a function call.
type returnSignal struct {
	value Value
}
