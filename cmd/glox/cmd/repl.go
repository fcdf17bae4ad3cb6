package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const (
	promptStart      = "> "
	promptContinue   = "  "
	clearScreenBytes = "\x1b[H\x1b[2J"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run the REPL in golden-output mode",
	Long: `Reads lines from stdin exactly like the bare REPL, but exits non-zero on
the first reported error instead of continuing. Intended for driving
transcripts through stdin for golden-output comparisons.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return repl(os.Stdin, os.Stdout, true)
	},
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runREPL(exitOnFirstError bool) error {
	return repl(os.Stdin, os.Stdout, exitOnFirstError)
}

// repl reads lines from in, accumulating them into a single Lox statement by
// the completeness heuristic below, and runs each complete statement through
// the pipeline. It ends on a literal "exit" line or EOF.
func repl(in io.Reader, out io.Writer, exitOnFirstError bool) error {
	scanner := bufio.NewScanner(in)
	var pending []string
	consecutiveBlankLines := 0

	fmt.Fprint(out, promptStart)
	for scanner.Scan() {
		line := scanner.Text()

		if len(pending) == 0 {
			switch strings.TrimSpace(line) {
			case "exit":
				return nil
			case "clear":
				fmt.Fprint(out, clearScreenBytes)
				fmt.Fprint(out, promptStart)
				continue
			}
		}

		pending = append(pending, line)
		if strings.TrimSpace(line) == "" {
			consecutiveBlankLines++
		} else {
			consecutiveBlankLines = 0
		}

		source := strings.Join(pending, "\n")
		if !isComplete(source, consecutiveBlankLines) {
			fmt.Fprint(out, promptContinue)
			continue
		}

		pending = nil
		consecutiveBlankLines = 0
		if code := runSource(source, out); code != 0 && exitOnFirstError {
			return fmt.Errorf("glox test: script exited with code %d", code)
		}
		fmt.Fprint(out, promptStart)
	}
	return nil
}

// isComplete implements the REPL's input-completeness heuristic: braces and
// parentheses balance (ignoring characters inside string literals and line
// comments) and the last non-whitespace character is '}' or ';'. Three
// consecutive blank lines also complete the input, whether or not it
// balances.
func isComplete(source string, consecutiveBlankLines int) bool {
	if consecutiveBlankLines >= 3 {
		return true
	}

	depth := 0
	inString := false
	for i := 0; i < len(source); i++ {
		c := source[i]
		switch {
		case inString:
			if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '/' && i+1 < len(source) && source[i+1] == '/':
			for i < len(source) && source[i] != '\n' {
				i++
			}
		case c == '(' || c == '{':
			depth++
		case c == ')' || c == '}':
			depth--
		}
	}
	if depth != 0 || inString {
		return false
	}

	trimmed := strings.TrimRight(source, " \t\n\r")
	if trimmed == "" {
		return false
	}
	last := trimmed[len(trimmed)-1]
	return last == '}' || last == ';'
}
