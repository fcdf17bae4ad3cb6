// Package loxerr formats and accumulates the static errors produced while
// scanning, parsing and resolving a script.
//
// It plays the role of the teacher's internal/errors package — a small
// struct carrying a message and a source position, rendered on demand — but
// its Format output is pinned to the classic jlox wire format
// (`[line N] Error<where>: MESSAGE`) mandated by spec.md §6 rather than the
// teacher's caret-annotated source block, since the CLI's golden fixture
// tests assert on that exact text.
package loxerr

import (
	"fmt"
	"io"

	"github.com/gophlox/glox/internal/token"
)

// StaticError is a single scan/parse/resolve-time diagnostic.
type StaticError struct {
	Line    int
	Where   string // e.g. " at end" or " at 'foo'"; empty when not token-specific
	Message string
}

// Format renders the error exactly as jlox does: `[line N] Error<where>: MESSAGE`.
func (e StaticError) Format() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Line, e.Where, e.Message)
}

// Collector accumulates static errors across an entire pass (scanning,
// parsing, or resolving) instead of stopping at the first one, matching
// spec.md §7's "do not abort the current pass" requirement.
type Collector struct {
	errors []StaticError
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// ReportError records a plain line-based error (used by the lexer, which has
// no token to point at).
func (c *Collector) ReportError(line int, message string) {
	c.errors = append(c.errors, StaticError{Line: line, Message: message})
}

// ReportTokenError records an error anchored to a specific token, computing
// the "at end" / "at 'lexeme'" location the way jlox's Lox::Error(Token, ...)
// overload does.
func (c *Collector) ReportTokenError(tok token.Token, message string) {
	where := fmt.Sprintf(" at '%s'", tok.Lexeme)
	if tok.Kind == token.EOF {
		where = " at end"
	}
	c.errors = append(c.errors, StaticError{Line: tok.Line, Where: where, Message: message})
}

// HadError reports whether any error has been recorded.
func (c *Collector) HadError() bool {
	return len(c.errors) > 0
}

// Errors returns the accumulated errors in report order.
func (c *Collector) Errors() []StaticError {
	return c.errors
}

// Print writes every accumulated error to w, one per line.
func (c *Collector) Print(w io.Writer) {
	for _, e := range c.errors {
		fmt.Fprintln(w, e.Format())
	}
}
