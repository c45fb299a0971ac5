package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/surebria/minic/internal/artifact"
	"github.com/surebria/minic/internal/diag"
	"github.com/surebria/minic/internal/errors"
	"github.com/surebria/minic/internal/pipeline"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a program and print its syntax tree",
	Long: `Parse a minic program and print its syntax tree in ast.txt form:
one node kind per line, two-space indent per depth, with a ": value"
suffix for nodes that carry one.

If no file is provided, reads from stdin. Use -e to parse an inline
expression instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "parse inline code instead of reading from file")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(args)
	if err != nil {
		return err
	}

	toks, lexDiags := pipeline.Lex(input)
	root, parseDiags := pipeline.Parse(toks)

	fmt.Print(artifact.AST(root))

	diags := make([]diag.Diagnostic, 0, len(lexDiags)+len(parseDiags))
	diags = append(diags, lexDiags...)
	diags = append(diags, parseDiags...)
	if len(diags) > 0 {
		compilerErrors := errors.FromDiagnostics(diags, input, filename)
		fmt.Fprint(os.Stderr, errors.FormatErrors(compilerErrors, true))
		return fmt.Errorf("found %d error(s)", len(diags))
	}
	return nil
}
