package lexer

import (
	"testing"

	"github.com/surebria/minic/internal/token"
)

func TestNextTokenScenarioA(t *testing.T) {
	input := `main { int a; a = 2 + 3; cout << a; }`

	tests := []struct {
		expectedKind   token.Kind
		expectedLexeme string
	}{
		{token.ReservedWord, "main"},
		{token.Punctuation, "{"},
		{token.ReservedWord, "int"},
		{token.Identifier, "a"},
		{token.Punctuation, ";"},
		{token.Identifier, "a"},
		{token.AssignmentOp, "="},
		{token.IntLiteral, "2"},
		{token.ArithmeticOp, "+"},
		{token.IntLiteral, "3"},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Kind != tt.expectedKind {
			t.Fatalf("token %d: expected kind %v, got %v", i, tt.expectedKind, tok.Kind)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("token %d: expected lexeme %q, got %q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestDoubledArithmeticRuns(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"++", []string{"++"}},
		{"+++", []string{"++", "+"}},
		{"++++", []string{"++", "++"}},
		{"+++++", []string{"++", "++", "+"}},
		{"--", []string{"--"}},
		{"---", []string{"--", "-"}},
	}

	for _, tt := range tests {
		l := New(tt.input)
		var got []string
		for i := 0; i < len(tt.expected); i++ {
			tok := l.NextToken()
			if tok.Kind != token.ArithmeticOp {
				t.Fatalf("input %q: expected ArithmeticOp, got %v", tt.input, tok.Kind)
			}
			got = append(got, tok.Lexeme)
		}
		if len(got) != len(tt.expected) {
			t.Fatalf("input %q: expected %v, got %v", tt.input, tt.expected, got)
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Fatalf("input %q: expected %v, got %v", tt.input, tt.expected, got)
			}
		}
	}
}

func TestRelationalAndAssignmentOperators(t *testing.T) {
	tests := []struct {
		input        string
		expectedKind token.Kind
		expectedLex  string
	}{
		{"<", token.RelationalOp, "<"},
		{">", token.RelationalOp, ">"},
		{"<=", token.RelationalOp, "<="},
		{">=", token.RelationalOp, ">="},
		{"==", token.RelationalOp, "=="},
		{"!=", token.RelationalOp, "!="},
		{"<<", token.RelationalOp, "<<"},
		{">>", token.RelationalOp, ">>"},
		{"!", token.RelationalOp, "!"},
		{"=", token.AssignmentOp, "="},
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Kind != tt.expectedKind || tok.Lexeme != tt.expectedLex {
			t.Fatalf("input %q: expected (%v,%q), got (%v,%q)", tt.input, tt.expectedKind, tt.expectedLex, tok.Kind, tok.Lexeme)
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input        string
		expectedKind token.Kind
		expectedLex  string
	}{
		{"123", token.IntLiteral, "123"},
		{"1.5", token.RealLiteral, "1.5"},
		{"1.", token.Error, "1."},
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Kind != tt.expectedKind || tok.Lexeme != tt.expectedLex {
			t.Fatalf("input %q: expected (%v,%q), got (%v,%q)", tt.input, tt.expectedKind, tt.expectedLex, tok.Kind, tok.Lexeme)
		}
	}
}

func TestBlockCommentUnterminatedIsSilentlyAccepted(t *testing.T) {
	l := New("/* never closed")
	tok := l.NextToken()
	if tok.Kind != token.EOF {
		t.Fatalf("expected EOF, got %v", tok.Kind)
	}
	if len(l.Errors()) != 0 {
		t.Fatalf("expected no errors for unterminated block comment, got %v", l.Errors())
	}
}

func TestLineComment(t *testing.T) {
	l := New("// comment\nint")
	tok := l.NextToken()
	if tok.Kind != token.ReservedWord || tok.Lexeme != "int" {
		t.Fatalf("expected 'int' reserved word after comment, got %v %q", tok.Kind, tok.Lexeme)
	}
	if tok.Pos.Line != 2 {
		t.Fatalf("expected line 2, got %d", tok.Pos.Line)
	}
}

func TestStringLiteral(t *testing.T) {
	l := New(`"hello world"`)
	tok := l.NextToken()
	if tok.Kind != token.StringLiteral || tok.Lexeme != "hello world" {
		t.Fatalf("expected string literal 'hello world', got %v %q", tok.Kind, tok.Lexeme)
	}
}

func TestUnknownCharacterIsError(t *testing.T) {
	l := New("@")
	tok := l.NextToken()
	if tok.Kind != token.Error || tok.Lexeme != "@" {
		t.Fatalf("expected ERROR('@'), got %v %q", tok.Kind, tok.Lexeme)
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("expected one error, got %d", len(l.Errors()))
	}
}

func TestTokensEndWithEOF(t *testing.T) {
	input := "main { int a; a = 2+3; }"
	l := New(input)
	toks := l.Tokens()
	if toks[len(toks)-1].Kind != token.EOF {
		t.Fatalf("expected last token to be EOF")
	}
}
