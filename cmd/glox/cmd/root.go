package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "glox",
	Short: "A tree-walking interpreter for Lox",
	Long: `glox is a tree-walking interpreter for Lox, the small dynamically-typed
scripting language from Crafting Interpreters.

With no arguments, glox starts a REPL. Given a single path, it runs that
script once and exits with the script's status.`,
	Version:       Version,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch len(args) {
		case 0:
			return runREPL(false)
		case 1:
			content, err := os.ReadFile(args[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(exitUsage)
			}
			os.Exit(runSource(string(content), os.Stdout))
			return nil
		default:
			fmt.Fprintln(os.Stderr, "Usage: glox [script]")
			os.Exit(exitUsage)
			return nil
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
