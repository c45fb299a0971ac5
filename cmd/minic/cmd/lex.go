package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/surebria/minic/internal/artifact"
	"github.com/surebria/minic/internal/errors"
	"github.com/surebria/minic/internal/pipeline"
)

var (
	evalExpr   string
	onlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a program and print the resulting tokens",
	Long: `Tokenize a minic program and print the resulting tokens, one per
line, in the tokens.txt format: KIND('lexeme') en línea L, columna C.

If no file is provided, reads from stdin. Use -e to tokenize an
inline expression instead.

Examples:
  minic lex program.minic
  minic lex -e "main { int a; a = 1; }"
  minic lex --only-errors program.minic`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only lexical error diagnostics")
}

func runLex(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(args)
	if err != nil {
		return err
	}

	toks, diags := pipeline.Lex(input)

	if onlyErrors {
		fmt.Print(artifact.Diagnostics(diags))
		if len(diags) > 0 {
			return fmt.Errorf("found %d lexical error(s)", len(diags))
		}
		return nil
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Fprintf(os.Stderr, "Tokenizing %s (%d bytes)\n---\n", filename, len(input))
	}

	fmt.Print(artifact.Tokens(toks))

	if len(diags) > 0 {
		compilerErrors := errors.FromDiagnostics(diags, input, filename)
		fmt.Fprint(os.Stderr, errors.FormatErrors(compilerErrors, true))
		return fmt.Errorf("found %d lexical error(s)", len(diags))
	}
	return nil
}

// readSource resolves the -e flag, a file argument, or stdin into a
// source string and a display name, the precedence the lex, parse and
// run subcommands follow (compile takes a file argument only).
func readSource(args []string) (input, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, readErr := os.ReadFile(args[0])
		if readErr != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], readErr)
		}
		return string(content), args[0], nil
	}
	content, readErr := io.ReadAll(os.Stdin)
	if readErr != nil {
		return "", "", fmt.Errorf("failed to read stdin: %w", readErr)
	}
	return string(content), "<stdin>", nil
}
