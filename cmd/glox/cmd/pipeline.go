package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/gophlox/glox/internal/interp"
	"github.com/gophlox/glox/internal/lexer"
	"github.com/gophlox/glox/internal/loxerr"
	"github.com/gophlox/glox/internal/parser"
	"github.com/gophlox/glox/internal/resolver"
)

// Exit codes, fixed by spec: 0 success, 64 usage error, 65 static error
// (scan/parse/resolve), 70 runtime error.
const (
	exitUsage   = 64
	exitStatic  = 65
	exitRuntime = 70
)

// runSource scans, parses, resolves, and interprets source, writing `print`
// output to stdout and any errors to stderr in jlox's wire format. It
// returns the process exit code the driver should use for this run.
func runSource(source string, stdout io.Writer) int {
	return runPipeline(source, stdout, os.Stderr)
}

// runFixture is runSource with stderr captured instead of sent to the
// process's actual stderr, so golden tests can assert on it.
func runFixture(source string, stdout, stderr io.Writer) int {
	return runPipeline(source, stdout, stderr)
}

func runPipeline(source string, stdout, stderr io.Writer) int {
	reporter := loxerr.NewCollector()

	l := lexer.New(source, reporter)
	tokens := l.ScanTokens()

	p := parser.New(tokens, reporter)
	stmts := p.Parse()

	if reporter.HadError() {
		reporter.Print(stderr)
		return exitStatic
	}

	locals := resolver.New(reporter).Resolve(stmts)
	if reporter.HadError() {
		reporter.Print(stderr)
		return exitStatic
	}

	i := interp.New(locals, interp.WithStdout(stdout))
	if err := i.Interpret(stmts); err != nil {
		reportRuntimeError(err, stderr)
		return exitRuntime
	}
	return 0
}

func reportRuntimeError(err error, stderr io.Writer) {
	rerr, ok := err.(*interp.RuntimeError)
	if !ok {
		fmt.Fprintln(stderr, err)
		return
	}
	fmt.Fprintf(stderr, "%s\n[line %d]\n", rerr.Message, rerr.Token.Line)
}
