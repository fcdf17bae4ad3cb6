package interp

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gophlox/glox/internal/ast"
	"github.com/gophlox/glox/internal/resolver"
	"github.com/gophlox/glox/internal/token"
)

// Option configures an Interpreter at construction time, in the
// functional-options pattern.
type Option func(*Interpreter)

// WithStdout redirects `print` output away from os.Stdout. Tests use this to
// capture a script's output without touching the real standard output.
func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) { i.stdout = w }
}

// WithClock overrides the clock used by the native clock() function, so
// tests can make it deterministic.
func WithClock(clock func() time.Time) Option {
	return func(i *Interpreter) { i.clock = clock }
}

// Interpreter walks a resolved AST and executes it. All mutable state is a
// single current-environment pointer, the globals environment, and the
// resolver's locals table; there is no other shared state, and no
// concurrency, so no synchronization is needed.
type Interpreter struct {
	globals *Environment
	env     *Environment
	locals  resolver.Locals

	stdout io.Writer
	clock  func() time.Time
}

// New creates an Interpreter with the given locals table (as produced by the
// resolver) and options applied.
func New(locals resolver.Locals, opts ...Option) *Interpreter {
	globals := NewEnvironment()
	globals.define("clock", &NativeFn{name: "clock", ar: 0, fn: func(i *Interpreter, args []Value) Value {
		return Number(float64(i.clock().UnixNano()) / 1e9)
	}})

	i := &Interpreter{
		globals: globals,
		env:     globals,
		locals:  locals,
		stdout:  os.Stdout,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Interpret runs every top-level statement in order. A runtime error
// terminates the run immediately and is returned to the caller; the caller
// (the script driver) is responsible for reporting it and choosing an exit
// code.
func (i *Interpreter) Interpret(stmts []ast.Stmt) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(*RuntimeError); ok {
				err = rerr
				return
			}
			panic(r)
		}
	}()
	for _, s := range stmts {
		i.execute(s)
	}
	return nil
}

func (i *Interpreter) execute(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		i.executeBlock(s.Statements, NewEnclosedEnvironment(i.env))

	case *ast.Class:
		i.executeClass(s)

	case *ast.Expression:
		i.evaluate(s.Expr)

	case *ast.Function:
		fn := &UserFn{declaration: s, closure: i.env}
		i.env.define(s.Name.Lexeme, fn)

	case *ast.If:
		if isTruthy(i.evaluate(s.Condition)) {
			i.execute(s.Then)
		} else if s.Else != nil {
			i.execute(s.Else)
		}

	case *ast.Print:
		v := i.evaluate(s.Expr)
		fmt.Fprintln(i.stdout, stringify(v))

	case *ast.Return:
		var value Value = Nil{}
		if s.Value != nil {
			value = i.evaluate(s.Value)
		}
		panic(returnSignal{value: value})

	case *ast.Var:
		var value Value = Nil{}
		if s.Initializer != nil {
			value = i.evaluate(s.Initializer)
		}
		i.env.define(s.Name.Lexeme, value)

	case *ast.While:
		for isTruthy(i.evaluate(s.Condition)) {
			i.execute(s.Body)
		}

	default:
		panic(fmt.Sprintf("interp: unhandled statement type %T", stmt))
	}
}

// executeBlock temporarily swaps the current environment, runs stmts in
// order, and restores the previous environment on every exit path,
// including a propagating returnSignal or RuntimeError panic.
func (i *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) {
	previous := i.env
	defer func() { i.env = previous }()
	i.env = env
	for _, s := range stmts {
		i.execute(s)
	}
}

func (i *Interpreter) executeClass(s *ast.Class) {
	var superclass *ClassRef
	if s.Superclass != nil {
		sc := i.evaluate(s.Superclass)
		var ok bool
		superclass, ok = sc.(*ClassRef)
		if !ok {
			panic(&RuntimeError{Token: s.Superclass.Name, Message: "Superclass must be a class."})
		}
	}

	i.env.define(s.Name.Lexeme, Nil{})

	classEnv := i.env
	if superclass != nil {
		classEnv = NewEnclosedEnvironment(i.env)
		classEnv.define("super", superclass)
	}

	methods := make(map[string]*UserFn, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &UserFn{
			declaration:   m,
			closure:       classEnv,
			isInitializer: m.Name.Lexeme == "init",
		}
	}

	class := &ClassRef{name: s.Name.Lexeme, superclass: superclass, methods: methods}
	i.env.assign(s.Name, class)
}

func (i *Interpreter) evaluate(expr ast.Expr) Value {
	switch e := expr.(type) {
	case *ast.Assign:
		value := i.evaluate(e.Value)
		if depth, ok := i.locals[e.ID()]; ok {
			i.env.assignAt(depth, e.Name, value)
		} else if err := i.globals.assign(e.Name, value); err != nil {
			panic(err)
		}
		return value

	case *ast.Binary:
		return i.evaluateBinary(e)

	case *ast.Call:
		return i.evaluateCall(e)

	case *ast.Get:
		object := i.evaluate(e.Object)
		inst, ok := object.(*InstanceRef)
		if !ok {
			panic(&RuntimeError{Token: e.Name, Message: "Only instances have properties."})
		}
		v, err := inst.get(e.Name)
		if err != nil {
			panic(err)
		}
		return v

	case *ast.Grouping:
		return i.evaluate(e.Inner)

	case *ast.Literal:
		return literalValue(e.Value)

	case *ast.Logical:
		left := i.evaluate(e.Left)
		if e.Operator.Kind == token.Or {
			if isTruthy(left) {
				return left
			}
		} else {
			if !isTruthy(left) {
				return left
			}
		}
		return i.evaluate(e.Right)

	case *ast.Set:
		object := i.evaluate(e.Object)
		inst, ok := object.(*InstanceRef)
		if !ok {
			panic(&RuntimeError{Token: e.Name, Message: "Only instances have fields."})
		}
		value := i.evaluate(e.Value)
		inst.set(e.Name, value)
		return value

	case *ast.Super:
		return i.evaluateSuper(e)

	case *ast.This:
		return i.lookUpVariable(e.Keyword, e)

	case *ast.Unary:
		return i.evaluateUnary(e)

	case *ast.Variable:
		return i.lookUpVariable(e.Name, e)

	default:
		panic(fmt.Sprintf("interp: unhandled expression type %T", expr))
	}
}

// literalValue converts a parsed literal (nil, bool, float64, or string, as
// produced by the lexer/parser) into the interpreter's Value representation.
func literalValue(v any) Value {
	switch v := v.(type) {
	case nil:
		return Nil{}
	case bool:
		return Bool(v)
	case float64:
		return Number(v)
	case string:
		return String(v)
	default:
		panic(fmt.Sprintf("interp: unhandled literal type %T", v))
	}
}

func (i *Interpreter) lookUpVariable(name token.Token, expr ast.Expr) Value {
	if depth, ok := i.locals[expr.ID()]; ok {
		return i.env.getAt(depth, name.Lexeme)
	}
	v, err := i.globals.get(name)
	if err != nil {
		panic(err)
	}
	return v
}

func (i *Interpreter) evaluateUnary(e *ast.Unary) Value {
	right := i.evaluate(e.Right)
	switch e.Operator.Kind {
	case token.Minus:
		n, ok := right.(Number)
		if !ok {
			panic(&RuntimeError{Token: e.Operator, Message: "Operand must be a number."})
		}
		return -n
	case token.Bang:
		return Bool(!isTruthy(right))
	default:
		panic(fmt.Sprintf("interp: unhandled unary operator %v", e.Operator.Kind))
	}
}

func (i *Interpreter) evaluateBinary(e *ast.Binary) Value {
	left := i.evaluate(e.Left)
	right := i.evaluate(e.Right)

	numberOperands := func() (Number, Number) {
		ln, lok := left.(Number)
		rn, rok := right.(Number)
		if !lok || !rok {
			panic(&RuntimeError{Token: e.Operator, Message: "Operands must be numbers."})
		}
		return ln, rn
	}

	switch e.Operator.Kind {
	case token.Greater:
		l, r := numberOperands()
		return Bool(l > r)
	case token.GreaterEqual:
		l, r := numberOperands()
		return Bool(l >= r)
	case token.Less:
		l, r := numberOperands()
		return Bool(l < r)
	case token.LessEqual:
		l, r := numberOperands()
		return Bool(l <= r)
	case token.BangEqual:
		return Bool(!isEqual(left, right))
	case token.EqualEqual:
		return Bool(isEqual(left, right))
	case token.Minus:
		l, r := numberOperands()
		return l - r
	case token.Slash:
		l, r := numberOperands()
		return l / r
	case token.Star:
		l, r := numberOperands()
		return l * r
	case token.Plus:
		if ln, ok := left.(Number); ok {
			if rn, ok := right.(Number); ok {
				return ln + rn
			}
		}
		if ls, ok := left.(String); ok {
			if rs, ok := right.(String); ok {
				return ls + rs
			}
		}
		panic(&RuntimeError{Token: e.Operator, Message: "Operands must be two numbers or two strings."})
	default:
		panic(fmt.Sprintf("interp: unhandled binary operator %v", e.Operator.Kind))
	}
}

func (i *Interpreter) evaluateCall(e *ast.Call) Value {
	callee := i.evaluate(e.Callee)

	args := make([]Value, len(e.Args))
	for idx, a := range e.Args {
		args[idx] = i.evaluate(a)
	}

	callable, ok := callee.(Callable)
	if !ok {
		panic(&RuntimeError{Token: e.Paren, Message: "Can only call functions and classes."})
	}
	if len(args) != callable.arity() {
		panic(&RuntimeError{Token: e.Paren, Message: fmt.Sprintf("Expected %d arguments but got %d.", callable.arity(), len(args))})
	}
	return callable.call(i, args)
}

func (i *Interpreter) evaluateSuper(e *ast.Super) Value {
	depth := i.locals[e.ID()]
	superclass := i.env.getAt(depth, "super").(*ClassRef)
	instance := i.env.getAt(depth-1, "this").(*InstanceRef)

	method, ok := superclass.findMethod(e.Method.Lexeme)
	if !ok {
		panic(&RuntimeError{Token: e.Method, Message: "Undefined property '" + e.Method.Lexeme + "'."})
	}
	return method.bind(instance)
}
