// Package resolver implements the static variable-resolution pass described
// in spec.md §4.3: a single depth-first walk over the parsed statement list
// that computes, for every variable-use expression, the number of
// environment hops from the point of use to its defining scope. The result
// is consumed by the interpreter instead of a runtime environment search.
//
// The resolver also enforces the scope and usage errors in spec.md's table
// (shadowing within a scope, reading a variable from its own initializer,
// `return`/`this`/`super` used outside their valid context, and classes that
// inherit from themselves). Like the parser, it collects every error it
// finds instead of stopping at the first one.
package resolver

import (
	"github.com/gophlox/glox/internal/ast"
	"github.com/gophlox/glox/internal/loxerr"
	"github.com/gophlox/glox/internal/token"
)

// functionType tags the kind of function body currently being resolved, so
// `return` can be validated against its enclosing context.
type functionType int

const (
	functionNone functionType = iota
	functionFunction
	functionInitializer
	functionMethod
)

// classType tags whether resolution is currently inside a class body, and
// whether that class has a superclass, for validating `this`/`super`.
type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// scope maps a name to whether its declaration has finished (been
// "defined"); false means "declared but its initializer is still resolving".
type scope map[string]bool

// Locals is the resolver's output: for every variable-use expression found
// to be local, the number of environment hops to its defining scope. An
// expression absent from this map refers to a global.
type Locals map[ast.NodeID]int

// Resolver performs the static variable-resolution pass over a parsed
// program.
type Resolver struct {
	reporter *loxerr.Collector
	locals   Locals

	scopes          []scope
	currentFunction functionType
	currentClass    classType
}

// New creates a Resolver that reports scope/usage errors to reporter.
func New(reporter *loxerr.Collector) *Resolver {
	return &Resolver{reporter: reporter, locals: make(Locals)}
}

// Resolve walks stmts and returns the locals table. The global scope is
// never pushed onto the scope stack: an unresolved name is treated by the
// interpreter as a lookup in the globals environment.
func (r *Resolver) Resolve(stmts []ast.Stmt) Locals {
	r.resolveStmts(stmts)
	return r.locals
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()

	case *ast.Class:
		r.resolveClass(s)

	case *ast.Expression:
		r.resolveExpr(s.Expr)

	case *ast.Function:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, functionFunction)

	case *ast.If:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *ast.Print:
		r.resolveExpr(s.Expr)

	case *ast.Return:
		if r.currentFunction == functionNone {
			r.reporter.ReportTokenError(s.Keyword, "Cannot return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunction == functionInitializer {
				r.reporter.ReportTokenError(s.Keyword, "Cannot return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}

	case *ast.Var:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)

	case *ast.While:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)

	default:
		panic("resolver: unhandled statement type")
	}
}

// resolveClass implements spec.md §4.3's class resolution protocol: declare
// the class, resolve the superclass expression (if any) with a `super`
// scope wrapping a `this` scope, then resolve each method tagged as an
// initializer or a plain method.
func (r *Resolver) resolveClass(s *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = classClass

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.reporter.ReportTokenError(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = classSubclass
		r.resolveExpr(s.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range s.Methods {
		declaration := functionMethod
		if method.Name.Lexeme == "init" {
			declaration = functionInitializer
		}
		r.resolveFunction(method, declaration)
	}

	r.endScope()

	if s.Superclass != nil {
		r.endScope()
	}

	r.currentClass = enclosingClass
}

// resolveFunction implements spec.md §4.3's function resolution protocol.
// The function's own name is declared by the caller beforehand so the body
// may refer to itself recursively.
func (r *Resolver) resolveFunction(fn *ast.Function, kind functionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)

	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}

	case *ast.Get:
		r.resolveExpr(e.Object)

	case *ast.Grouping:
		r.resolveExpr(e.Inner)

	case *ast.Literal:
		// Nothing to resolve.

	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ast.Super:
		switch r.currentClass {
		case classNone:
			r.reporter.ReportTokenError(e.Keyword, "Cannot use 'super' outside of a class.")
		case classClass:
			r.reporter.ReportTokenError(e.Keyword, "Cannot use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e, e.Keyword)

	case *ast.This:
		if r.currentClass == classNone {
			r.reporter.ReportTokenError(e.Keyword, "Cannot use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)

	case *ast.Unary:
		r.resolveExpr(e.Right)

	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; declared && !defined {
				r.reporter.ReportTokenError(e.Name, "Cannot read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)

	default:
		panic("resolver: unhandled expression type")
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(scope))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	current := r.scopes[len(r.scopes)-1]
	if _, exists := current[name.Lexeme]; exists {
		r.reporter.ReportTokenError(name, "Variable with this name already declared in this scope.")
	}
	current[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal walks the scope stack from innermost outward; the first
// match records the hop count. No match means the name is a global, and
// nothing is recorded.
func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr.ID()] = len(r.scopes) - 1 - i
			return
		}
	}
}
