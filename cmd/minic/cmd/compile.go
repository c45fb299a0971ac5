package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/surebria/minic/internal/artifact"
	"github.com/surebria/minic/internal/ast"
	"github.com/surebria/minic/internal/diag"
	"github.com/surebria/minic/internal/errors"
	"github.com/surebria/minic/internal/ir"
	"github.com/surebria/minic/internal/pipeline"
	"github.com/surebria/minic/internal/semantic"
	"github.com/surebria/minic/internal/token"
)

var (
	outputFile string
	compileFmt string
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Lex, parse, analyze and generate intermediate code for a program",
	Long: `Run every phase up to code generation and print the resulting
quadruple program, one instruction per line as "(op, a1, a2, a3)".

Pass --format=yaml or --format=json to dump the full pipeline state
(tokens, diagnostics, AST, symbol table, quadruples) instead, for
tooling that wants a single structured artifact.

Examples:
  minic compile program.minic
  minic compile program.minic --format=yaml
  minic compile program.minic -o program.ir`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the dump to this file instead of stdout")
	compileCmd.Flags().StringVar(&compileFmt, "format", "text", "output format: text, yaml, or json")
}

func runCompile(cmd *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	input := string(content)

	toks, lexDiags := pipeline.Lex(input)
	root, parseDiags := pipeline.Parse(toks)
	_, symbols, semDiags := pipeline.Analyze(root)
	quads := pipeline.Generate(root)

	diags := make([]diag.Diagnostic, 0, len(lexDiags)+len(parseDiags)+len(semDiags))
	diags = append(diags, lexDiags...)
	diags = append(diags, parseDiags...)
	diags = append(diags, semDiags...)

	var out string
	switch compileFmt {
	case "yaml":
		out, err = artifact.YAML(dumpOf(toks, diags, root, symbols, quads))
	case "json":
		out, err = artifact.JSON(dumpOf(toks, diags, root, symbols, quads))
	default:
		out = artifact.Quadruples(quads)
	}
	if err != nil {
		return fmt.Errorf("failed to render %s output: %w", compileFmt, err)
	}

	if outputFile != "" {
		if writeErr := os.WriteFile(outputFile, []byte(out), 0644); writeErr != nil {
			return fmt.Errorf("failed to write output file %s: %w", outputFile, writeErr)
		}
		fmt.Printf("Compiled %s -> %s\n", filename, outputFile)
	} else {
		fmt.Print(out)
	}

	if len(diags) > 0 {
		reportable := errors.FromDiagnostics(diags, input, filename)
		fmt.Fprint(os.Stderr, errors.FormatErrors(reportable, true))
		return fmt.Errorf("compilation reported %d diagnostic(s)", len(diags))
	}
	return nil
}

// lines splits a newline-terminated dump into its non-empty lines, the
// shape Dump's slice fields want from artifact's string renderers.
func lines(s string) []string {
	trimmed := strings.TrimRight(s, "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

func dumpOf(toks []token.Token, diags []diag.Diagnostic, root *ast.Node, symbols *semantic.SymbolTable, quads []ir.Quadruple) artifact.Dump {
	return artifact.Dump{
		Tokens:      lines(artifact.Tokens(toks)),
		Diagnostics: lines(artifact.Diagnostics(diags)),
		AST:         artifact.AST(root),
		Symbols:     artifact.FromSymbolTable(symbols),
		Quadruples:  lines(artifact.Quadruples(quads)),
	}
}
