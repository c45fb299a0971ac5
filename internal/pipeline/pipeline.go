// Package pipeline wires the five compiler phases into the
// programmatic lex/parse/analyze/generate/execute API the tooling needs:
// execute. Each function is a thin pass-through to its phase package;
// pipeline exists so callers (the CLI, tests, an embedding IDE) have
// one import instead of five.
package pipeline

import (
	"github.com/surebria/minic/internal/ast"
	"github.com/surebria/minic/internal/diag"
	"github.com/surebria/minic/internal/interp"
	"github.com/surebria/minic/internal/ir"
	"github.com/surebria/minic/internal/lexer"
	"github.com/surebria/minic/internal/parser"
	"github.com/surebria/minic/internal/semantic"
	"github.com/surebria/minic/internal/token"
)

// Lex scans source into tokens plus lexical diagnostics.
func Lex(source string) ([]token.Token, []diag.Diagnostic) {
	l := lexer.New(source)
	toks := l.Tokens()
	return toks, l.Errors()
}

// Parse builds an AST from a token sequence, filtering out ERROR
// tokens the way the parser's own constructor requires.
func Parse(toks []token.Token) (*ast.Node, []diag.Diagnostic) {
	return parser.New(toks).ParseProgram()
}

// Analyze annotates root with types and constant values, returning
// the populated symbol table alongside.
func Analyze(root *ast.Node) (*semantic.AnnotatedNode, *semantic.SymbolTable, []diag.Diagnostic) {
	return semantic.New().Analyze(root)
}

// Generate lowers the raw AST root into a quadruple program. It takes
// only an *ast.Node; the annotated tree from Analyze is a different
// type and is not accepted.
func Generate(root *ast.Node) []ir.Quadruple {
	return ir.New().Generate(root)
}

// Execute runs a quadruple program to completion or to a fatal
// runtime diagnostic.
func Execute(quads []ir.Quadruple, inputs []string, maxSteps int) (interp.Result, []diag.Diagnostic, error) {
	return interp.New().Execute(quads, inputs, maxSteps)
}

// Result bundles every phase's output for a single source string,
// the shape a CLI subcommand or an end-to-end test wants at once.
type Result struct {
	Tokens      []token.Token
	AST         *ast.Node
	Annotated   *semantic.AnnotatedNode
	Symbols     *semantic.SymbolTable
	Quadruples  []ir.Quadruple
	Exec        interp.Result
	Diagnostics []diag.Diagnostic
	// Err is non-nil only for interp.ErrNeedsInput: a cin ran out of
	// supplied inputs. It is not a diag.Diagnostic because it isn't
	// part of spec's diagnostic taxonomy — it's a signal for the
	// caller (typically the CLI's interactive run command) to supply
	// more input and retry, not a compile/runtime error to report.
	Err error
}

// Run executes the full pipeline over source. It always runs every
// phase whose prerequisites exist: parsing continues even with
// lexical diagnostics (ERROR tokens are simply filtered out),
// analysis and generation proceed even with parse diagnostics (panic
// mode always yields a usable tree), but execution is skipped if the
// AST is nil.
func Run(source string, inputs []string, maxSteps int) Result {
	var res Result

	toks, lexDiags := Lex(source)
	res.Tokens = toks
	res.Diagnostics = append(res.Diagnostics, lexDiags...)

	root, parseDiags := Parse(toks)
	res.AST = root
	res.Diagnostics = append(res.Diagnostics, parseDiags...)

	annotated, symbols, semDiags := Analyze(root)
	res.Annotated = annotated
	res.Symbols = symbols
	res.Diagnostics = append(res.Diagnostics, semDiags...)

	if root == nil {
		return res
	}
	res.Quadruples = Generate(root)

	execRes, execDiags, err := Execute(res.Quadruples, inputs, maxSteps)
	res.Exec = execRes
	res.Diagnostics = append(res.Diagnostics, execDiags...)
	res.Err = err
	return res
}
