// Package token defines the shared lexical data model: token kinds,
// source positions, and the immutable Token value every later stage
// of the pipeline reads but never mutates.
package token

import "fmt"

// Kind classifies a Token. The set mirrors the lexical categories of
// the source language: reserved words, identifiers, numeric literals,
// the four operator families, punctuation, and the error sentinel.
type Kind int

const (
	Error Kind = iota
	EOF
	ReservedWord
	Identifier
	IntLiteral
	RealLiteral
	ArithmeticOp
	RelationalOp
	LogicalOp
	AssignmentOp
	Punctuation
	StringLiteral
)

var kindNames = map[Kind]string{
	Error:         "ERROR",
	EOF:           "EOF",
	ReservedWord:  "PAL_RES",
	Identifier:    "ID",
	IntLiteral:    "NUM",
	RealLiteral:   "NUM_REAL",
	ArithmeticOp:  "ARIT",
	RelationalOp:  "REL",
	LogicalOp:     "LOG",
	AssignmentOp:  "ASG",
	Punctuation:   "ESP",
	StringLiteral: "CADENA",
}

// String renders the short mnemonic used by the tokens.txt artifact
// format: KIND('lexeme') en línea L, columna C.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND(%d)", int(k))
}

// Position is a 1-based (line, column) location in source text.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("línea %d, columna %d", p.Line, p.Column)
}

// Token is an immutable classified lexeme with its source position.
type Token struct {
	Kind    Kind
	Lexeme  string
	Pos     Position
}

// String renders a Token in the verbose artifact form:
// KIND('lexeme') en línea L, columna C.
func (t Token) String() string {
	return fmt.Sprintf("%s('%s') en %s", t.Kind, t.Lexeme, t.Pos)
}

// ReservedWords is the closed set of reserved identifiers recognized
// by the scanner. bool, true, false, and until are
// deliberately excluded — they are recognized only by literal value
// downstream, per the open issue resolved in SPEC_FULL.md.
var ReservedWords = map[string]bool{
	"if": true, "else": true, "end": true, "do": true, "while": true,
	"for": true, "switch": true, "case": true, "break": true,
	"int": true, "float": true, "string": true, "main": true,
	"cin": true, "cout": true, "def": true, "class": true,
	"import": true, "from": true, "return": true, "then": true,
}
