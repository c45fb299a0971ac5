package ir

import (
	"testing"

	"github.com/surebria/minic/internal/lexer"
	"github.com/surebria/minic/internal/parser"
)

func generate(t *testing.T, src string) []Quadruple {
	t.Helper()
	l := lexer.New(src)
	root, diags := parser.New(l.Tokens()).ParseProgram()
	if len(diags) != 0 {
		t.Fatalf("unexpected parse diagnostics for %q: %v", src, diags)
	}
	return New().Generate(root)
}

func countOp(code []Quadruple, op string) int {
	n := 0
	for _, q := range code {
		if q.Op == op {
			n++
		}
	}
	return n
}

func TestLastInstructionIsHalt(t *testing.T) {
	code := generate(t, `main { int a; a = 1; }`)
	last := code[len(code)-1]
	if last.Op != "halt" {
		t.Fatalf("expected last instruction to be halt, got %v", last)
	}
}

func TestAssignmentEmitsAsnWithDestInA2(t *testing.T) {
	code := generate(t, `main { int a; a = 2 + 3; }`)
	var asn *Quadruple
	for i := range code {
		if code[i].Op == "asn" {
			asn = &code[i]
		}
	}
	if asn == nil {
		t.Fatalf("expected an asn instruction, got %v", code)
	}
	if asn.A2 != "a" {
		t.Fatalf("expected asn destination in A2, got %#v", asn)
	}
	add := code[0]
	if add.Op != "add" || add.A1 != "2" || add.A2 != "3" {
		t.Fatalf("expected add(2,3) first, got %v", add)
	}
	if asn.A1 != add.A3 {
		t.Fatalf("expected asn to reference add's result temp, got %#v vs %#v", asn, add)
	}
}

func TestIfElseLabelsAreUniqueAndJumpsResolve(t *testing.T) {
	code := generate(t, `main { int a; if a > 0 then a = 1; else a = 2; end }`)
	labels := map[string]int{}
	for _, q := range code {
		if q.Op == "lab" {
			labels[q.A1]++
		}
	}
	for name, count := range labels {
		if count != 1 {
			t.Fatalf("label %s defined %d times, want 1", name, count)
		}
	}
	for _, q := range code {
		if q.Op == "goto" {
			if _, ok := labels[q.A1]; !ok {
				t.Fatalf("jump target %s has no matching label", q.A1)
			}
		}
		if q.Op == "if_f" || q.Op == "if_t" {
			if _, ok := labels[q.A2]; !ok {
				t.Fatalf("jump target %s has no matching label", q.A2)
			}
		}
	}
}

func TestWhileLoopStructure(t *testing.T) {
	code := generate(t, `main { int a; while a < 10 a = a + 1; end }`)
	if countOp(code, "lab") != 2 {
		t.Fatalf("expected 2 labels (start, end), got %d", countOp(code, "lab"))
	}
	if countOp(code, "goto") != 1 {
		t.Fatalf("expected 1 goto back to loop start, got %d", countOp(code, "goto"))
	}
	if countOp(code, "if_f") != 1 {
		t.Fatalf("expected 1 if_f guarding loop exit, got %d", countOp(code, "if_f"))
	}
}

func TestDoUntilUsesIfFalsePolarity(t *testing.T) {
	code := generate(t, `main { int i; do i = i + 1; until i == 3 cout << i; }`)
	if countOp(code, "if_f") != 1 || countOp(code, "if_t") != 0 {
		t.Fatalf("expected do-until to use if_f, got %v", code)
	}
}

func TestDoWhileUsesIfTruePolarity(t *testing.T) {
	code := generate(t, `main { int i; do i = i + 1; while i < 3 cout << i; }`)
	if countOp(code, "if_t") != 1 || countOp(code, "if_f") != 0 {
		t.Fatalf("expected do-while to use if_t, got %v", code)
	}
}

func TestCinEmitsRdWithDestInA1(t *testing.T) {
	code := generate(t, `main { int a; cin >> a; }`)
	if code[0].Op != "rd" || code[0].A1 != "a" {
		t.Fatalf("expected rd(a,_,_), got %v", code[0])
	}
}

func TestCoutEmitsOneWriPerOutputItem(t *testing.T) {
	code := generate(t, `main { int a; cout << "value" << a; }`)
	wris := 0
	for _, q := range code {
		if q.Op == "wri" {
			wris++
		}
	}
	if wris != 2 {
		t.Fatalf("expected 2 wri instructions, got %d", wris)
	}
}

func TestStringLiteralOperandIsQuoted(t *testing.T) {
	code := generate(t, `main { cout << "hi"; }`)
	if code[0].Op != "wri" || code[0].A1 != `"hi"` {
		t.Fatalf(`expected wri("hi",_,_), got %v`, code[0])
	}
}

func TestUnaryMinusEmitsNeg(t *testing.T) {
	code := generate(t, `main { int a; a = -1; }`)
	if countOp(code, "neg") != 1 {
		t.Fatalf("expected 1 neg instruction, got %v", code)
	}
}

func TestLogicalNotEmitsNot(t *testing.T) {
	code := generate(t, `main { bool a; if !a then a = true; end }`)
	if countOp(code, "not") != 1 {
		t.Fatalf("expected 1 not instruction, got %v", code)
	}
}

func TestPowerWithLiteralExponentUnrollsToMul(t *testing.T) {
	code := generate(t, `main { int a; a = 2 ^ 3; }`)
	if countOp(code, "mul") != 2 {
		t.Fatalf("expected 2^3 to unroll into 2 muls, got %v", code)
	}
}
