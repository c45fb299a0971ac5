package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "minic",
	Short: "A small teaching-language compiler front end",
	Long: `minic lexes, parses, type-checks, and executes programs written
in a small C-like teaching language: a single "main { ... }" block of
variable declarations and statements (if/while/do-until, cin/cout,
assignment, arithmetic and logical expressions).

Each pipeline stage can be run and inspected on its own (lex, parse,
compile) or chained end to end (run).`,
	Version: Version,
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

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
