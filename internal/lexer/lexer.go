// Package lexer implements a single-pass, single-character-lookahead
// scanner. It never panics: every byte of the input is represented by
// exactly one Token, possibly an Error token.
package lexer

import (
	"strings"

	"golang.org/x/text/width"

	"github.com/surebria/minic/internal/diag"
	"github.com/surebria/minic/internal/token"
)

// Lexer scans a small C-like teaching language's source text,
// tracking (line, column) as it goes.
type Lexer struct {
	input   []rune
	pos     int
	line    int
	column  int
	errors  []diag.Diagnostic
	pending []token.Token
}

// New creates a Lexer over the given source text.
func New(input string) *Lexer {
	return &Lexer{input: []rune(input), line: 1, column: 1}
}

// Errors returns the diagnostics accumulated so far (unterminated
// strings, malformed numbers, unknown characters — never unterminated
// block comments, which are silently accepted).
func (l *Lexer) Errors() []diag.Diagnostic {
	return l.errors
}

// Tokens scans the entire input and returns every token (including
// ERROR tokens) up to and including EOF.
func (l *Lexer) Tokens() []token.Token {
	var out []token.Token
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (l *Lexer) addError(cat diag.Category, msg string, pos token.Position) {
	l.errors = append(l.errors, diag.New(cat, msg, pos))
}

func (l *Lexer) cur() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return foldRune(l.input[l.pos])
}

func (l *Lexer) peek(n int) rune {
	idx := l.pos + n
	if idx >= len(l.input) {
		return 0
	}
	return foldRune(l.input[idx])
}

// advance consumes and returns the current rune, updating line/column.
func (l *Lexer) advance() rune {
	ch := l.cur()
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) pos0() token.Position {
	return token.Position{Line: l.line, Column: l.column}
}

// foldRune normalizes fullwidth/halfwidth Unicode variants (e.g. a
// fullwidth Latin letter pasted from a CJK input method) to their
// standard ASCII form before classification, so identifier and number
// rules behave consistently regardless of input source.
func foldRune(r rune) rune {
	if r < 0xFF00 {
		return r
	}
	folded := width.Fold.String(string(r))
	for _, fr := range folded {
		return fr
	}
	return r
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// punctuation is the closed set of single-character "special" tokens
// not otherwise claimed by an operator rule.
const punctuation = "(){}[];,:'°"

// NextToken returns the next token in the input, draining any queued
// tokens left over from a greedily-collapsed operator run first.
func (l *Lexer) NextToken() token.Token {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok
	}

	l.skipWhitespaceAndComments()

	pos := l.pos0()
	if l.pos >= len(l.input) {
		return token.Token{Kind: token.EOF, Pos: pos}
	}

	ch := l.cur()
	switch {
	case isLetter(ch):
		return l.scanIdentifier(pos)
	case isDigit(ch):
		return l.scanNumber(pos)
	case ch == '+' || ch == '-':
		return l.scanDoubledArithmetic(ch, pos)
	case ch == '*' || ch == '/' || ch == '%' || ch == '^':
		l.advance()
		return token.Token{Kind: token.ArithmeticOp, Lexeme: string(ch), Pos: pos}
	case ch == '<' || ch == '>' || ch == '!' || ch == '=':
		return l.scanRelationalOrAssignment(ch, pos)
	case ch == '&' || ch == '|':
		return l.scanLogicalRun(ch, pos)
	case ch == '"':
		return l.scanString(pos)
	case strings.ContainsRune(punctuation, ch):
		l.advance()
		return token.Token{Kind: token.Punctuation, Lexeme: string(ch), Pos: pos}
	default:
		l.advance()
		l.addError(diag.UnknownChar, "unexpected character '"+string(ch)+"'", pos)
		return token.Token{Kind: token.Error, Lexeme: string(ch), Pos: pos}
	}
}

// skipWhitespaceAndComments consumes spaces, tabs, newlines, line
// comments, and block comments in a loop, since any of them may
// immediately follow another.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.cur() == ' ' || l.cur() == '\t' || l.cur() == '\n':
			l.advance()
		case l.cur() == '/' && l.peek(1) == '/':
			l.advance()
			l.advance()
			for l.pos < len(l.input) && l.cur() != '\n' {
				l.advance()
			}
		case l.cur() == '/' && l.peek(1) == '*':
			l.skipBlockComment()
		default:
			return
		}
	}
}

// skipBlockComment consumes a /* ... */ comment, tracking newlines.
// If EOF is reached before the closing */, no error is emitted — this
// is a deliberate quirk of this language.
func (l *Lexer) skipBlockComment() {
	l.advance() // '/'
	l.advance() // '*'
	for l.pos < len(l.input) {
		if l.cur() == '*' && l.peek(1) == '/' {
			l.advance()
			l.advance()
			return
		}
		l.advance()
	}
}

func (l *Lexer) scanIdentifier(pos token.Position) token.Token {
	var sb strings.Builder
	for l.pos < len(l.input) && (isLetter(l.cur()) || isDigit(l.cur()) || l.cur() == '_') {
		sb.WriteRune(l.advance())
	}
	lexeme := sb.String()
	if token.ReservedWords[lexeme] {
		return token.Token{Kind: token.ReservedWord, Lexeme: lexeme, Pos: pos}
	}
	return token.Token{Kind: token.Identifier, Lexeme: lexeme, Pos: pos}
}

func (l *Lexer) scanNumber(pos token.Position) token.Token {
	var sb strings.Builder
	for l.pos < len(l.input) && isDigit(l.cur()) {
		sb.WriteRune(l.advance())
	}
	if l.cur() == '.' {
		if isDigit(l.peek(1)) {
			sb.WriteRune(l.advance()) // '.'
			for l.pos < len(l.input) && isDigit(l.cur()) {
				sb.WriteRune(l.advance())
			}
			return token.Token{Kind: token.RealLiteral, Lexeme: sb.String(), Pos: pos}
		}
		// '.' not followed by a digit: the partial text is an error.
		sb.WriteRune(l.advance())
		lexeme := sb.String()
		l.addError(diag.MalformedNumber, "malformed real literal '"+lexeme+"'", pos)
		return token.Token{Kind: token.Error, Lexeme: lexeme, Pos: pos}
	}
	return token.Token{Kind: token.IntLiteral, Lexeme: sb.String(), Pos: pos}
}

// scanDoubledArithmetic handles runs of '+' or '-': a run of length n
// collapses into n/2 doubled tokens plus, if n is odd, one trailing
// single-char token.
func (l *Lexer) scanDoubledArithmetic(ch rune, pos token.Position) token.Token {
	runLen := 0
	for l.cur() == ch {
		l.advance()
		runLen++
	}
	pairs := runLen / 2
	leftover := runLen % 2

	var toks []token.Token
	col := pos.Column
	for i := 0; i < pairs; i++ {
		toks = append(toks, token.Token{Kind: token.ArithmeticOp, Lexeme: string([]rune{ch, ch}), Pos: token.Position{Line: pos.Line, Column: col}})
		col += 2
	}
	if leftover == 1 {
		toks = append(toks, token.Token{Kind: token.ArithmeticOp, Lexeme: string(ch), Pos: token.Position{Line: pos.Line, Column: col}})
	}
	first := toks[0]
	l.pending = append(l.pending, toks[1:]...)
	return first
}

// scanLogicalRun handles runs of '&' or '|' the same way
// scanDoubledArithmetic handles '+'/'-', except the leftover single
// character is emitted as a punctuation-class special token rather
// than an arithmetic op, an implementer's-choice call.
func (l *Lexer) scanLogicalRun(ch rune, pos token.Position) token.Token {
	runLen := 0
	for l.cur() == ch {
		l.advance()
		runLen++
	}
	pairs := runLen / 2
	leftover := runLen % 2

	var toks []token.Token
	col := pos.Column
	for i := 0; i < pairs; i++ {
		toks = append(toks, token.Token{Kind: token.LogicalOp, Lexeme: string([]rune{ch, ch}), Pos: token.Position{Line: pos.Line, Column: col}})
		col += 2
	}
	if leftover == 1 {
		toks = append(toks, token.Token{Kind: token.Punctuation, Lexeme: string(ch), Pos: token.Position{Line: pos.Line, Column: col}})
	}
	first := toks[0]
	l.pending = append(l.pending, toks[1:]...)
	return first
}

// scanRelationalOrAssignment handles '<', '>', '!', '=': doubled with
// '=' for the four two-char relationals, '<'/'>' doubled with
// themselves for '<<'/'>>', and otherwise emitted as a single-char
// token (relational for '<','>','!', assignment for '=') — '!' is
// grouped with the relational family per original_source, which
// tokenizes a lone '!' as OPERADOR_RELACIONAL rather than a logical op.
func (l *Lexer) scanRelationalOrAssignment(ch rune, pos token.Position) token.Token {
	l.advance()
	switch ch {
	case '<':
		if l.cur() == '=' {
			l.advance()
			return token.Token{Kind: token.RelationalOp, Lexeme: "<=", Pos: pos}
		}
		if l.cur() == '<' {
			l.advance()
			return token.Token{Kind: token.RelationalOp, Lexeme: "<<", Pos: pos}
		}
		return token.Token{Kind: token.RelationalOp, Lexeme: "<", Pos: pos}
	case '>':
		if l.cur() == '=' {
			l.advance()
			return token.Token{Kind: token.RelationalOp, Lexeme: ">=", Pos: pos}
		}
		if l.cur() == '>' {
			l.advance()
			return token.Token{Kind: token.RelationalOp, Lexeme: ">>", Pos: pos}
		}
		return token.Token{Kind: token.RelationalOp, Lexeme: ">", Pos: pos}
	case '!':
		if l.cur() == '=' {
			l.advance()
			return token.Token{Kind: token.RelationalOp, Lexeme: "!=", Pos: pos}
		}
		return token.Token{Kind: token.RelationalOp, Lexeme: "!", Pos: pos}
	default: // '='
		if l.cur() == '=' {
			l.advance()
			return token.Token{Kind: token.RelationalOp, Lexeme: "==", Pos: pos}
		}
		return token.Token{Kind: token.AssignmentOp, Lexeme: "=", Pos: pos}
	}
}

// scanString reads a double-quoted string literal. Unterminated
// strings (EOF before the closing quote) are reported — unlike block
// comments, there is no silent-accept exemption for strings.
func (l *Lexer) scanString(pos token.Position) token.Token {
	l.advance() // opening '"'
	var sb strings.Builder
	for l.pos < len(l.input) && l.cur() != '"' {
		sb.WriteRune(l.advance())
	}
	if l.pos >= len(l.input) {
		l.addError(diag.StringUnclosed, "unterminated string literal", pos)
		return token.Token{Kind: token.StringLiteral, Lexeme: sb.String(), Pos: pos}
	}
	l.advance() // closing '"'
	return token.Token{Kind: token.StringLiteral, Lexeme: sb.String(), Pos: pos}
}
