package resolver

import (
	"testing"

	"github.com/gophlox/glox/internal/ast"
	"github.com/gophlox/glox/internal/lexer"
	"github.com/gophlox/glox/internal/loxerr"
	"github.com/gophlox/glox/internal/parser"
)

func resolveSource(t *testing.T, source string) ([]ast.Stmt, Locals, *loxerr.Collector) {
	t.Helper()
	reporter := loxerr.NewCollector()
	l := lexer.New(source, reporter)
	p := parser.New(l.ScanTokens(), reporter)
	stmts := p.Parse()
	if reporter.HadError() {
		t.Fatalf("unexpected parse errors: %v", reporter.Errors())
	}
	locals := New(reporter).Resolve(stmts)
	return stmts, locals, reporter
}

func TestGlobalVariableIsNotRecorded(t *testing.T) {
	stmts, locals, errs := resolveSource(t, "var a = 1; print a;")
	if errs.HadError() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	printStmt := stmts[1].(*ast.Print)
	variable := printStmt.Expr.(*ast.Variable)
	if _, ok := locals[variable.ID()]; ok {
		t.Errorf("expected a global variable use to be absent from locals, got depth %d", locals[variable.ID()])
	}
}

func TestLocalVariableRecordsDepthZero(t *testing.T) {
	stmts, locals, errs := resolveSource(t, "{ var a = 1; print a; }")
	if errs.HadError() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	block := stmts[0].(*ast.Block)
	printStmt := block.Statements[1].(*ast.Print)
	variable := printStmt.Expr.(*ast.Variable)
	if depth, ok := locals[variable.ID()]; !ok || depth != 0 {
		t.Errorf("got depth %d, ok %v, want 0, true", depth, ok)
	}
}

func TestNestedClosureRecordsDepthOne(t *testing.T) {
	stmts, locals, errs := resolveSource(t, `
		{
			var a = 1;
			{
				print a;
			}
		}
	`)
	if errs.HadError() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	outer := stmts[0].(*ast.Block)
	inner := outer.Statements[1].(*ast.Block)
	printStmt := inner.Statements[0].(*ast.Print)
	variable := printStmt.Expr.(*ast.Variable)
	if depth, ok := locals[variable.ID()]; !ok || depth != 1 {
		t.Errorf("got depth %d, ok %v, want 1, true", depth, ok)
	}
}

func TestReadInOwnInitializerIsAnError(t *testing.T) {
	_, _, errs := resolveSource(t, "{ var a = a; }")
	if !errs.HadError() {
		t.Fatalf("expected an error")
	}
	if errs.Errors()[0].Message != "Cannot read local variable in its own initializer." {
		t.Errorf("got message %q", errs.Errors()[0].Message)
	}
}

func TestDuplicateLocalDeclarationIsAnError(t *testing.T) {
	_, _, errs := resolveSource(t, "{ var a = 1; var a = 2; }")
	if !errs.HadError() {
		t.Fatalf("expected an error")
	}
	if errs.Errors()[0].Message != "Variable with this name already declared in this scope." {
		t.Errorf("got message %q", errs.Errors()[0].Message)
	}
}

func TestRedefiningAGlobalIsNotAnError(t *testing.T) {
	_, _, errs := resolveSource(t, "var a = 1; var a = 2;")
	if errs.HadError() {
		t.Errorf("unexpected errors: %v", errs.Errors())
	}
}

func TestReturnAtTopLevelIsAnError(t *testing.T) {
	_, _, errs := resolveSource(t, "return 1;")
	if !errs.HadError() || errs.Errors()[0].Message != "Cannot return from top-level code." {
		t.Fatalf("got errors: %v", errs.Errors())
	}
}

func TestReturnValueInInitializerIsAnError(t *testing.T) {
	_, _, errs := resolveSource(t, "class A { init() { return 1; } }")
	if !errs.HadError() || errs.Errors()[0].Message != "Cannot return a value from an initializer." {
		t.Fatalf("got errors: %v", errs.Errors())
	}
}

func TestBareReturnInInitializerIsFine(t *testing.T) {
	_, _, errs := resolveSource(t, "class A { init() { return; } }")
	if errs.HadError() {
		t.Errorf("unexpected errors: %v", errs.Errors())
	}
}

func TestThisOutsideClassIsAnError(t *testing.T) {
	_, _, errs := resolveSource(t, "print this;")
	if !errs.HadError() || errs.Errors()[0].Message != "Cannot use 'this' outside of a class." {
		t.Fatalf("got errors: %v", errs.Errors())
	}
}

func TestSuperOutsideClassIsAnError(t *testing.T) {
	_, _, errs := resolveSource(t, "super.method();")
	if !errs.HadError() || errs.Errors()[0].Message != "Cannot use 'super' outside of a class." {
		t.Fatalf("got errors: %v", errs.Errors())
	}
}

func TestSuperWithoutSuperclassIsAnError(t *testing.T) {
	_, _, errs := resolveSource(t, "class A { method() { super.method(); } }")
	if !errs.HadError() || errs.Errors()[0].Message != "Cannot use 'super' in a class with no superclass." {
		t.Fatalf("got errors: %v", errs.Errors())
	}
}

func TestClassInheritingFromItselfIsAnError(t *testing.T) {
	_, _, errs := resolveSource(t, "class Oops < Oops {}")
	if !errs.HadError() || errs.Errors()[0].Message != "A class can't inherit from itself." {
		t.Fatalf("got errors: %v", errs.Errors())
	}
}

func TestThisInsideMethodRecordsDepth(t *testing.T) {
	stmts, locals, errs := resolveSource(t, "class A { method() { return this; } }")
	if errs.HadError() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	cls := stmts[0].(*ast.Class)
	ret := cls.Methods[0].Body[0].(*ast.Return)
	thisExpr := ret.Value.(*ast.This)
	if depth, ok := locals[thisExpr.ID()]; !ok || depth != 1 {
		t.Errorf("got depth %d, ok %v, want 1, true", depth, ok)
	}
}

func TestSuperInSubclassRecordsDepthOneFromThis(t *testing.T) {
	stmts, locals, errs := resolveSource(t, `
		class A { method() { print 1; } }
		class B < A { test() { super.method(); } }
	`)
	if errs.HadError() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
	b := stmts[1].(*ast.Class)
	exprStmt := b.Methods[0].Body[0].(*ast.Expression)
	call := exprStmt.Expr.(*ast.Call)
	super := call.Callee.(*ast.Super)
	if depth, ok := locals[super.ID()]; !ok || depth != 2 {
		t.Errorf("got super depth %d, ok %v, want 2, true", depth, ok)
	}
}

func TestFunctionCanReferToItselfRecursively(t *testing.T) {
	_, _, errs := resolveSource(t, "fun fact(n) { if (n < 2) return 1; return n * fact(n - 1); }")
	if errs.HadError() {
		t.Errorf("unexpected errors: %v", errs.Errors())
	}
}

func TestResolverIsPureFunctionOfAST(t *testing.T) {
	source := `
		fun outer() {
			var a = 1;
			fun inner() { return a; }
			return inner;
		}
	`
	_, locals1, errs1 := resolveSource(t, source)
	_, locals2, errs2 := resolveSource(t, source)
	if errs1.HadError() || errs2.HadError() {
		t.Fatalf("unexpected errors")
	}
	if len(locals1) != len(locals2) {
		t.Fatalf("got differing locals table sizes %d vs %d across two resolves of the same source", len(locals1), len(locals2))
	}
}
