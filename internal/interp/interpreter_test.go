package interp

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/gophlox/glox/internal/lexer"
	"github.com/gophlox/glox/internal/loxerr"
	"github.com/gophlox/glox/internal/parser"
	"github.com/gophlox/glox/internal/resolver"
)

// testRun scans, parses, resolves, and interprets source, returning captured
// stdout and any runtime error. It fails the test on static errors, since
// those scenarios belong to the lexer/parser/resolver packages.
func testRun(t *testing.T, source string) (string, error) {
	t.Helper()
	reporter := loxerr.NewCollector()
	l := lexer.New(source, reporter)
	p := parser.New(l.ScanTokens(), reporter)
	stmts := p.Parse()
	if reporter.HadError() {
		t.Fatalf("unexpected static errors: %v", reporter.Errors())
	}
	locals := resolver.New(reporter).Resolve(stmts)
	if reporter.HadError() {
		t.Fatalf("unexpected resolver errors: %v", reporter.Errors())
	}

	var buf bytes.Buffer
	i := New(locals, WithStdout(&buf), WithClock(func() time.Time { return time.Unix(0, 0) }))
	err := i.Interpret(stmts)
	return buf.String(), err
}

func testOutput(t *testing.T, source, want string) {
	t.Helper()
	got, err := testRun(t, source)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if got != want {
		t.Errorf("got output %q, want %q", got, want)
	}
}

func TestArithmeticAndPrint(t *testing.T) {
	testOutput(t, "var a = 1; var b = 2; print a + b;", "3\n")
}

func TestClosureCounterIncrementsAcrossCalls(t *testing.T) {
	testOutput(t, `
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				return i;
			}
			return count;
		}
		var c = makeCounter();
		print c();
		print c();
		print c();
	`, "1\n2\n3\n")
}

func TestInstanceFieldAssignmentAndRead(t *testing.T) {
	testOutput(t, `
		class Bagel {}
		var b = Bagel();
		b.topping = "cream cheese";
		print b.topping;
	`, "cream cheese\n")
}

func TestSuperCallsOverriddenMethodBoundToCurrentThis(t *testing.T) {
	testOutput(t, `
		class A {
			method() { print "A"; }
		}
		class B < A {
			method() { print "B"; }
			test() { super.method(); }
		}
		class C < B {}
		C().test();
	`, "A\n")
}

func TestInitializerSetsFieldAndReturnsInstance(t *testing.T) {
	testOutput(t, `
		class Foo {
			init() { this.x = 42; }
		}
		print Foo().x;
	`, "42\n")
}

func TestRecursiveFibonacci(t *testing.T) {
	testOutput(t, `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		print fib(10);
	`, "55\n")
}

func TestStringification(t *testing.T) {
	testOutput(t, `print 1;`, "1\n")
	testOutput(t, `print 1.5;`, "1.5\n")
	testOutput(t, `print "a" + "b";`, "ab\n")
	testOutput(t, `print nil;`, "nil\n")
	testOutput(t, `print true;`, "true\n")
}

// TestLargeIntegralNumberDoesNotOverflowInt64Conversion guards against
// formatNumber routing a magnitude beyond int64's range through
// strconv.FormatInt(int64(f), ...), which would stringify to garbage instead
// of a round-trippable form.
func TestLargeIntegralNumberDoesNotOverflowInt64Conversion(t *testing.T) {
	testOutput(t, `print 100000000000000000000;`, "1e+20\n")
}

func TestShortCircuitOr(t *testing.T) {
	testOutput(t, `print nil or "hi";`, "hi\n")
}

func TestShortCircuitAnd(t *testing.T) {
	testOutput(t, `print "a" and "b";`, "b\n")
}

func TestShortCircuitAndDoesNotEvaluateRight(t *testing.T) {
	testOutput(t, `
		fun sideEffect() { print "called"; return true; }
		print false and sideEffect();
	`, "false\n")
}

func TestBlockRestoresEnvironmentAfterRuntimeError(t *testing.T) {
	source := `
		var a = "outer";
		fun f() {
			var a = "inner";
			print a;
			nope();
		}
		f();
	`
	out, err := testRun(t, source)
	if err == nil {
		t.Fatalf("expected a runtime error")
	}
	if out != "inner\n" {
		t.Fatalf("got output %q, want %q", out, "inner\n")
	}

	reporter := loxerr.NewCollector()
	stmts := parser.New(lexer.New(source, reporter).ScanTokens(), reporter).Parse()
	i := New(resolver.New(reporter).Resolve(stmts), WithStdout(&bytes.Buffer{}))
	if err := i.Interpret(stmts); err == nil {
		t.Fatalf("expected a runtime error")
	}
	if i.env != i.globals {
		t.Errorf("current environment was not restored to globals after the runtime error")
	}
}

func TestUndefinedVariableIsARuntimeError(t *testing.T) {
	_, err := testRun(t, "print undefined;")
	rerr, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("got error %v, want *RuntimeError", err)
	}
	if rerr.Message != "Undefined variable 'undefined'." {
		t.Errorf("got message %q", rerr.Message)
	}
}

func TestCallingANonCallableIsARuntimeError(t *testing.T) {
	_, err := testRun(t, `var a = 1; a();`)
	rerr, ok := err.(*RuntimeError)
	if !ok || rerr.Message != "Can only call functions and classes." {
		t.Fatalf("got error %v", err)
	}
}

func TestArityMismatchIsARuntimeError(t *testing.T) {
	_, err := testRun(t, `fun f(a, b) { return a + b; } f(1);`)
	rerr, ok := err.(*RuntimeError)
	if !ok || rerr.Message != "Expected 2 arguments but got 1." {
		t.Fatalf("got error %v", err)
	}
}

func TestAddingIncompatibleTypesIsARuntimeError(t *testing.T) {
	_, err := testRun(t, `print 1 + "a";`)
	rerr, ok := err.(*RuntimeError)
	if !ok || rerr.Message != "Operands must be two numbers or two strings." {
		t.Fatalf("got error %v", err)
	}
}

func TestGetPropertyOnNonInstanceIsARuntimeError(t *testing.T) {
	_, err := testRun(t, `var a = 1; print a.x;`)
	rerr, ok := err.(*RuntimeError)
	if !ok || rerr.Message != "Only instances have properties." {
		t.Fatalf("got error %v", err)
	}
}

func TestUndefinedPropertyIsARuntimeError(t *testing.T) {
	_, err := testRun(t, `class A {} print A().missing;`)
	rerr, ok := err.(*RuntimeError)
	if !ok || rerr.Message != "Undefined property 'missing'." {
		t.Fatalf("got error %v", err)
	}
}

func TestSuperclassMustBeAClassIsARuntimeError(t *testing.T) {
	_, err := testRun(t, `var NotAClass = 1; class A < NotAClass {}`)
	rerr, ok := err.(*RuntimeError)
	if !ok || rerr.Message != "Superclass must be a class." {
		t.Fatalf("got error %v", err)
	}
}

func TestClockIsANativeFunctionOfArityZero(t *testing.T) {
	out, err := testRun(t, `print clock();`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Fatalf("expected clock() to print a number")
	}
}

func TestBoundMethodPrintsAsFn(t *testing.T) {
	testOutput(t, `
		class A { greet() { print "hi"; } }
		var a = A();
		var m = a.greet;
		print m;
	`, "<fn greet>\n")
}

func TestInitializerCalledDirectlyStillReturnsInstance(t *testing.T) {
	testOutput(t, `
		class Foo {
			init() { this.x = 1; }
		}
		var f = Foo();
		var again = f.init();
		print again.x;
	`, "1\n")
}

func TestRedefiningAGlobalAtRuntimeIsAllowed(t *testing.T) {
	testOutput(t, `var a = 1; var a = 2; print a;`, "2\n")
}
