package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var evalExpr string

var runCmd = &cobra.Command{
	Use:   "run [path]",
	Short: "Run a Lox script",
	Long: `Execute a Lox program from a file or an inline expression.

Examples:
  glox run script.lox
  glox run -e "print 1 + 2;"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "run inline source instead of reading a file")
}

func runScript(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "Usage: glox run [path]")
		os.Exit(exitUsage)
	}

	var source string
	switch {
	case evalExpr != "":
		source = evalExpr
	case len(args) == 1:
		content, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitUsage)
		}
		source = string(content)
	default:
		fmt.Fprintln(os.Stderr, "Usage: glox run [path]")
		os.Exit(exitUsage)
	}

	os.Exit(runSource(source, os.Stdout))
	return nil
}
