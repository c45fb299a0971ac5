package errors

import (
	"strings"
	"testing"

	"github.com/surebria/minic/internal/diag"
	"github.com/surebria/minic/internal/token"
)

func TestCompilerError_Format(t *testing.T) {
	tests := []struct {
		name        string
		pos         token.Position
		message     string
		source      string
		file        string
		wantContain []string
	}{
		{
			name:    "simple error with file",
			pos:     token.Position{Line: 1, Column: 10},
			message: "undeclared variable 'x'",
			source:  "main { y = x + 5; }",
			file:    "test.minic",
			wantContain: []string{
				"test.minic:línea 1, columna 10",
				"   1 | main { y = x + 5; }",
				"^",
				"undeclared variable 'x'",
			},
		},
		{
			name:    "error without file",
			pos:     token.Position{Line: 5, Column: 15},
			message: "type mismatch",
			source:  "line1\nline2\nline3\nline4\nline5 with error here\nline6",
			file:    "",
			wantContain: []string{
				"línea 5, columna 15",
				"   5 | line5 with error here",
				"^",
				"type mismatch",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewCompilerError(tt.pos, tt.message, tt.source, tt.file)
			got := e.Format(false)
			for _, want := range tt.wantContain {
				if !strings.Contains(got, want) {
					t.Errorf("Format() = %q, want to contain %q", got, want)
				}
			}
		})
	}
}

func TestFromDiagnosticCarriesCategoryAndFatal(t *testing.T) {
	d := diag.NewFatal(diag.DivByZeroRT, "division by zero at runtime", token.Position{Line: 3, Column: 4})
	e := FromDiagnostic(d, "main { a = 1 / 0; }", "prog.minic")
	if e.Category != diag.DivByZeroRT || !e.Fatal {
		t.Fatalf("expected category/fatal to carry over, got %#v", e)
	}
	if got := e.Format(false); !strings.Contains(got, "DIV_BY_ZERO_RT") {
		t.Fatalf("expected category tag in formatted output, got %q", got)
	}
}

func TestFormatErrorsSummarizesMultiple(t *testing.T) {
	errs := []*CompilerError{
		NewCompilerError(token.Position{Line: 1, Column: 1}, "first", "", ""),
		NewCompilerError(token.Position{Line: 2, Column: 1}, "second", "", ""),
	}
	got := FormatErrors(errs, false)
	if !strings.Contains(got, "2 problem(s) found") {
		t.Fatalf("expected a summary count, got %q", got)
	}
	if !strings.Contains(got, "first") || !strings.Contains(got, "second") {
		t.Fatalf("expected both messages present, got %q", got)
	}
}

func TestFromStringErrorsParsesTrailingPosition(t *testing.T) {
	errs := FromStringErrors([]string{"unexpected token at 3:7"}, "", "")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].Pos.Line != 3 || errs[0].Pos.Column != 7 {
		t.Fatalf("expected position 3:7, got %#v", errs[0].Pos)
	}
	if errs[0].Message != "unexpected token" {
		t.Fatalf("expected message without position suffix, got %q", errs[0].Message)
	}
}
