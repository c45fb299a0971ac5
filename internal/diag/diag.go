// Package diag defines the Diagnostic value shared by every stage of
// the pipeline (scanner, parser, semantic analyzer). Each stage
// appends to its own diagnostic list; nothing here ever panics.
package diag

import "github.com/surebria/minic/internal/token"

// Category tags the kind of problem a Diagnostic reports. The set
// spans all four taxonomy rows: lexical, syntactic, semantic, runtime.
type Category string

const (
	// Lexical
	CommentUnclosed  Category = "COMMENT_UNCLOSED"
	UnknownChar      Category = "UNKNOWN_CHAR"
	MalformedNumber  Category = "MALFORMED_NUMBER"
	MalformedOperator Category = "MALFORMED_OPERATOR"
	StringUnclosed    Category = "STRING_UNCLOSED"

	// Syntactic
	ParseExpect    Category = "PARSE_EXPECT"
	ParseUnexpected Category = "PARSE_UNEXPECTED"
	StraySemi      Category = "STRAY_SEMI"

	// Semantic
	DupDecl       Category = "DUP_DECL"
	Undeclared    Category = "UNDECLARED"
	TypeIncompat  Category = "TYPE_INCOMPAT"
	DivByZero     Category = "DIV_BY_ZERO"
	AstInvalid    Category = "AST_INVALID"

	// Runtime
	DivByZeroRT    Category = "DIV_BY_ZERO_RT"
	LabelNotFound  Category = "LABEL_NOT_FOUND"
	Runaway        Category = "RUNAWAY"
	UnknownOp      Category = "UNKNOWN_OP"
)

// Diagnostic is a single reported problem: a category tag, a human
// description, the source position it refers to, and a fatal flag
// that — when set — instructs the analyzer to stop immediately
// (only AstInvalid currently uses it).
type Diagnostic struct {
	Category    Category
	Description string
	Pos         token.Position
	Fatal       bool
}

func New(cat Category, desc string, pos token.Position) Diagnostic {
	return Diagnostic{Category: cat, Description: desc, Pos: pos}
}

func NewFatal(cat Category, desc string, pos token.Position) Diagnostic {
	return Diagnostic{Category: cat, Description: desc, Pos: pos, Fatal: true}
}
