// Package interp is the tree-walking evaluator: it consumes the AST and the
// resolver's locals table and executes a program directly, without an
// intermediate bytecode form.
package interp

import (
	"math"
	"strconv"
)

// Value is the runtime value of every Lox expression: a closed sum over nil,
// bool, number, string, and the four callable/object kinds (native function,
// user function, class, instance). Nil, Bool, Number, and String compare
// structurally; native functions, user functions, classes, and instances
// compare by identity, matching Go's own pointer-identity semantics for the
// pointer-shaped variants.
type Value interface {
	isValue()
}

// Nil is Lox's singular null value.
type Nil struct{}

func (Nil) isValue() {}

// Bool is a Lox boolean.
type Bool bool

func (Bool) isValue() {}

// Number is Lox's single numeric type, a 64-bit float.
type Number float64

func (Number) isValue() {}

// String is a Lox string.
type String string

func (String) isValue() {}

// isTruthy implements Lox's truthiness rule: nil and false are falsy,
// everything else is truthy.
func isTruthy(v Value) bool {
	switch v := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(v)
	default:
		return true
	}
}

// isEqual implements Lox's `==`/`!=` rule: structural equality for the
// primitive variants, identity for callables, classes, and instances.
func isEqual(a, b Value) bool {
	switch a := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && a == bv
	case Number:
		bv, ok := b.(Number)
		return ok && a == bv
	case String:
		bv, ok := b.(String)
		return ok && a == bv
	case *UserFn:
		bv, ok := b.(*UserFn)
		return ok && a == bv
	case *NativeFn:
		bv, ok := b.(*NativeFn)
		return ok && a == bv
	case *ClassRef:
		bv, ok := b.(*ClassRef)
		return ok && a == bv
	case *InstanceRef:
		bv, ok := b.(*InstanceRef)
		return ok && a == bv
	default:
		return false
	}
}

// stringify renders a Value the way `print` does (spec-mandated, not Go's
// default %v): nil, true/false, a number without a trailing ".0" for
// integral values, a raw string, and the callable/class/instance forms.
func stringify(v Value) string {
	switch v := v.(type) {
	case Nil:
		return "nil"
	case Bool:
		if v {
			return "true"
		}
		return "false"
	case Number:
		return formatNumber(float64(v))
	case String:
		return string(v)
	case *NativeFn:
		return "<native fn>"
	case *UserFn:
		return "<fn " + v.declaration.Name.Lexeme + ">"
	case *ClassRef:
		return v.name
	case *InstanceRef:
		return v.class.name + " instance"
	default:
		return "?"
	}
}

// formatNumber prints the shortest round-trippable decimal, with integral
// values rendered without a fractional part.
func formatNumber(f float64) string {
	// int64(f) is only well-defined once f fits in an int64; beyond that
	// (e.g. 1e20) the conversion's result is implementation-defined, so
	// route anything outside a safe magnitude through FormatFloat instead.
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
