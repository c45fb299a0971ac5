package interp

import (
	"testing"

	"github.com/surebria/minic/internal/ir"
	"github.com/surebria/minic/internal/lexer"
	"github.com/surebria/minic/internal/parser"
	"github.com/surebria/minic/internal/semantic"
)

func generate(t *testing.T, src string) []ir.Quadruple {
	t.Helper()
	l := lexer.New(src)
	root, diags := parser.New(l.Tokens()).ParseProgram()
	if len(diags) != 0 {
		t.Fatalf("unexpected parse diagnostics for %q: %v", src, diags)
	}
	return ir.New().Generate(root)
}

func run(t *testing.T, src string, inputs []string) Result {
	t.Helper()
	code := generate(t, src)
	res, diags, err := New().Execute(code, inputs, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var fatal []string
	for _, d := range diags {
		if d.Fatal {
			fatal = append(fatal, string(d.Category))
		}
	}
	if len(fatal) != 0 {
		t.Fatalf("unexpected fatal diagnostics for %q: %v", src, fatal)
	}
	return res
}

// Scenario A — simple assignment and output.
func TestScenarioASimpleAssignmentAndOutput(t *testing.T) {
	res := run(t, `main { int a; a = 2 + 3; cout << a; }`, nil)
	if len(res.Output) != 1 || res.Output[0] != int64(5) {
		t.Fatalf("expected output [5], got %v", res.Output)
	}
}

// Scenario B — if/else.
func TestScenarioBIfElse(t *testing.T) {
	res := run(t, `main { int x; x = 10; if x > 5 then cout << x; else cout << 0; end }`, nil)
	if len(res.Output) != 1 || res.Output[0] != int64(10) {
		t.Fatalf("expected output [10], got %v", res.Output)
	}
}

func TestScenarioBIfElseTakesElseBranch(t *testing.T) {
	res := run(t, `main { int x; x = 1; if x > 5 then cout << x; else cout << 0; end }`, nil)
	if len(res.Output) != 1 || res.Output[0] != int64(0) {
		t.Fatalf("expected output [0], got %v", res.Output)
	}
}

// Scenario C — while loop with accumulation.
func TestScenarioCWhileLoopAccumulation(t *testing.T) {
	res := run(t, `main { int i; int s; i = 1; s = 0;
	       while i <= 3 s = s + i; i = i + 1; end
	       cout << s; }`, nil)
	if len(res.Output) != 1 || res.Output[0] != int64(6) {
		t.Fatalf("expected output [6], got %v", res.Output)
	}
}

// Scenario D — undeclared variable is a semantic-analyzer concern;
// the interpreter itself still executes whatever IR it is given and
// stores into "a" even though no declaration exists for it.
func TestScenarioDUndeclaredVariableStillExecutes(t *testing.T) {
	root, diags := parser.New(lexer.New(`main { a = 1; }`).Tokens()).ParseProgram()
	if len(diags) != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", diags)
	}
	_, _, semDiags := semantic.New().Analyze(root)
	found := false
	for _, d := range semDiags {
		if d.Category == "UNDECLARED" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an UNDECLARED diagnostic from semantic analysis, got %v", semDiags)
	}

	code := ir.New().Generate(root)
	res, _, err := New().Execute(code, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := res.Memory["a"]; v != int64(1) {
		t.Fatalf("expected a == 1 after execution, got %#v", v)
	}
}

// Scenario F — do-until.
func TestScenarioFDoUntil(t *testing.T) {
	res := run(t, `main { int i; i = 0; do i = i + 1; until i == 3 cout << i; }`, nil)
	if len(res.Output) != 1 || res.Output[0] != int64(3) {
		t.Fatalf("expected output [3], got %v", res.Output)
	}
}

func TestDivisionByZeroIsFatalRuntimeDiagnostic(t *testing.T) {
	code := []ir.Quadruple{
		{Op: "div", A1: "1", A2: "0", A3: "t1"},
		{Op: "halt", A1: "_", A2: "_", A3: "_"},
	}
	res, diags, err := New().Execute(code, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Completed {
		t.Fatalf("expected execution to abort on division by zero")
	}
	found := false
	for _, d := range diags {
		if d.Category == "DIV_BY_ZERO_RT" && d.Fatal {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a fatal DIV_BY_ZERO_RT diagnostic, got %v", diags)
	}
}

func TestModuloByZeroIsFatalRuntimeDiagnostic(t *testing.T) {
	code := []ir.Quadruple{
		{Op: "mod", A1: "5", A2: "0", A3: "t1"},
		{Op: "halt", A1: "_", A2: "_", A3: "_"},
	}
	_, diags, err := New().Execute(code, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, d := range diags {
		if d.Category == "DIV_BY_ZERO_RT" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a DIV_BY_ZERO_RT diagnostic, got %v", diags)
	}
}

func TestUnknownLabelIsFatalRuntimeDiagnostic(t *testing.T) {
	code := []ir.Quadruple{
		{Op: "goto", A1: "Lmissing", A2: "_", A3: "_"},
		{Op: "halt", A1: "_", A2: "_", A3: "_"},
	}
	_, diags, err := New().Execute(code, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, d := range diags {
		if d.Category == "LABEL_NOT_FOUND" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a LABEL_NOT_FOUND diagnostic, got %v", diags)
	}
}

func TestRunawayLoopHitsStepLimit(t *testing.T) {
	code := []ir.Quadruple{
		{Op: "lab", A1: "L1", A2: "_", A3: "_"},
		{Op: "goto", A1: "L1", A2: "_", A3: "_"},
	}
	res, diags, err := New().Execute(code, nil, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Completed {
		t.Fatalf("expected an incomplete run on step-limit overrun")
	}
	found := false
	for _, d := range diags {
		if d.Category == "RUNAWAY" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a RUNAWAY diagnostic, got %v", diags)
	}
}

func TestRdReadsSuppliedInputsInOrder(t *testing.T) {
	res := run(t, `main { int a; int b; cin >> a; cin >> b; cout << a; cout << b; }`, []string{"7", "9"})
	if len(res.Output) != 2 || res.Output[0] != int64(7) || res.Output[1] != int64(9) {
		t.Fatalf("expected output [7 9], got %v", res.Output)
	}
}

func TestRdWithoutInputOrStdinReturnsErrNeedsInput(t *testing.T) {
	code := generate(t, `main { int a; cin >> a; }`)
	_, _, err := New().Execute(code, nil, 0)
	if err != ErrNeedsInput {
		t.Fatalf("expected ErrNeedsInput, got %v", err)
	}
}

func TestStringLiteralOutput(t *testing.T) {
	res := run(t, `main { cout << "hi"; }`, nil)
	if len(res.Output) != 1 || res.Output[0] != "hi" {
		t.Fatalf(`expected output ["hi"], got %v`, res.Output)
	}
}

func TestLastLabelWinsOnDuplicateDefinition(t *testing.T) {
	code := []ir.Quadruple{
		{Op: "goto", A1: "L1", A2: "_", A3: "_"},
		{Op: "lab", A1: "L1", A2: "_", A3: "_"},
		{Op: "wri", A1: "1", A2: "_", A3: "_"},
		{Op: "lab", A1: "L1", A2: "_", A3: "_"},
		{Op: "wri", A1: "2", A2: "_", A3: "_"},
		{Op: "halt", A1: "_", A2: "_", A3: "_"},
	}
	res, _, err := New().Execute(code, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Output) != 1 || res.Output[0] != int64(2) {
		t.Fatalf("expected only the second L1 definition's body to run, got %v", res.Output)
	}
}
