package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/surebria/minic/internal/artifact"
	"github.com/surebria/minic/internal/diag"
	"github.com/surebria/minic/internal/errors"
	"github.com/surebria/minic/internal/interp"
	"github.com/surebria/minic/internal/pipeline"
)

var (
	dumpAST   bool
	typeCheck bool
	maxSteps  int
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a program end to end",
	Long: `Lex, parse, type-check, generate and execute a program in one
pass, printing the cout output once execution ends.

When a cin statement needs input, run reads one line from standard
input and executes the program again from the start with every line
read so far; it fails if standard input is closed.

Examples:
  minic run program.minic
  minic run -e "main { int a; cin >> a; cout << a; }"
  minic run --dump-ast program.minic`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the syntax tree before executing")
	runCmd.Flags().BoolVar(&typeCheck, "type-check", true, "perform semantic analysis before executing")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", interp.DefaultMaxSteps, "abort with a RUNAWAY diagnostic after this many instructions")
}

func runScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(args)
	if err != nil {
		return err
	}

	toks, lexDiags := pipeline.Lex(input)
	root, parseDiags := pipeline.Parse(toks)

	if dumpAST {
		fmt.Println(artifact.AST(root))
	}

	frontendDiags := append(append([]diag.Diagnostic{}, lexDiags...), parseDiags...)

	if typeCheck {
		_, _, semDiags := pipeline.Analyze(root)
		frontendDiags = append(frontendDiags, semDiags...)
	}

	if fatal := reportAndCheckFatal(input, filename, frontendDiags); fatal {
		return fmt.Errorf("analysis reported fatal diagnostics")
	}

	quads := pipeline.Generate(root)

	var inputs []string
	stdin := bufio.NewReader(os.Stdin)
	for {
		execRes, execDiags, execErr := pipeline.Execute(quads, inputs, maxSteps)
		if execErr == interp.ErrNeedsInput {
			line, readErr := stdin.ReadString('\n')
			if readErr != nil && line == "" {
				return fmt.Errorf("program requested input but stdin is closed")
			}
			inputs = append(inputs, trimNewline(line))
			continue
		}

		for _, v := range execRes.Output {
			fmt.Println(v)
		}

		if len(execDiags) > 0 {
			reportAndCheckFatal(input, filename, execDiags)
			return fmt.Errorf("execution reported %d runtime diagnostic(s)", len(execDiags))
		}
		return nil
	}
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// reportAndCheckFatal prints diags as CompilerErrors and reports
// whether any of them is Fatal.
func reportAndCheckFatal(source, filename string, diags []diag.Diagnostic) bool {
	if len(diags) == 0 {
		return false
	}
	fatal := false
	for _, d := range diags {
		if d.Fatal {
			fatal = true
		}
	}
	compilerErrors := errors.FromDiagnostics(diags, source, filename)
	fmt.Fprint(os.Stderr, errors.FormatErrors(compilerErrors, true))
	return fatal
}
