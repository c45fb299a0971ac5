// Package parser implements the recursive-descent LL(1) parser with
// panic-mode error recovery. The grammar below
// is reproduced exactly. Most productions have a matching method;
// ident_list and rel_op are parsed inline by their callers, and
// assignment and inc_dec share one method.
//
//	program        := 'main' '{' decl_list '}'
//	decl_list      := { var_decl } stmt_list
//	var_decl       := type ident_list ';'
//	type           := 'int' | 'float' | 'bool'
//	ident_list     := IDENT { ',' IDENT }
//	stmt_list      := { stmt }
//	stmt           := selection | iteration | repetition
//	                | sent_in | sent_out | assignment | inc_dec
//	selection      := 'if' expr 'then' stmt_list [ 'else' stmt_list ] 'end'
//	iteration      := 'while' expr stmt_list 'end'
//	repetition     := 'do' stmt_list ('while'|'until') expr
//	sent_in        := 'cin' '>>' IDENT ';'
//	sent_out       := 'cout' '<<' output ';'
//	output         := (STRING | expr) [ '<<' (STRING | expr) ]
//	assignment     := IDENT '=' expr ';'
//	inc_dec        := IDENT ('++'|'--') ';'
//	expr           := rel_expr { '||' rel_expr | '&&' rel_expr }
//	rel_expr       := simple_expr [ rel_op simple_expr ]
//	simple_expr    := term { ('+'|'-') term }
//	term           := factor { ('*'|'/'|'%') factor }
//	factor         := component { '^' component }
//	component      := '(' expr ')' | NUMBER | IDENT
//	                | ('+'|'-') component | '!' component
package parser

import (
	"fmt"

	"github.com/surebria/minic/internal/ast"
	"github.com/surebria/minic/internal/diag"
	"github.com/surebria/minic/internal/token"
)

// maxSyncSkip bounds how many tokens a single resynchronization may
// discard, preventing a runaway panic-mode recovery.
const maxSyncSkip = 50

// declSync and stmtSync are the synchronization sets used during
// panic-mode recovery at declaration and statement context
// respectively.
var declSync = map[string]bool{";": true, "int": true, "float": true, "bool": true, "}": true}
var stmtSync = map[string]bool{";": true, "if": true, "while": true, "do": true, "cin": true, "cout": true, "}": true}

// Parser consumes the token sequence with ERROR tokens filtered out
// and produces a single AST root plus a list of parse diagnostics.
type Parser struct {
	toks  []token.Token
	pos   int
	diags []diag.Diagnostic
}

// New filters ERROR tokens from toks ("Input is the token
// sequence filtered to exclude ERROR tokens") and returns a Parser
// ready to parse a program.
func New(toks []token.Token) *Parser {
	filtered := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind != token.Error {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 || filtered[len(filtered)-1].Kind != token.EOF {
		filtered = append(filtered, token.Token{Kind: token.EOF})
	}
	return &Parser{toks: filtered}
}

// Errors returns the diagnostics collected during parsing.
func (p *Parser) Errors() []diag.Diagnostic { return p.diags }

func (p *Parser) cur() token.Token { return p.toks[p.pos] }
func (p *Parser) atEnd() bool      { return p.cur().Kind == token.EOF }

func (p *Parser) advance() token.Token {
	t := p.cur()
	if !p.atEnd() {
		p.pos++
	}
	return t
}

func (p *Parser) isPunct(s string) bool {
	t := p.cur()
	return t.Kind == token.Punctuation && t.Lexeme == s
}

func (p *Parser) isReserved(s string) bool {
	t := p.cur()
	return t.Kind == token.ReservedWord && t.Lexeme == s
}

// isWord matches a keyword that the reserved-word set deliberately
// excludes (bool, true, false, until) — recognized by literal value
// regardless of token kind, per the open issue resolved in
// SPEC_FULL.md.
func (p *Parser) isWord(s string) bool {
	t := p.cur()
	return (t.Kind == token.ReservedWord || t.Kind == token.Identifier) && t.Lexeme == s
}

func (p *Parser) isArith(s string) bool {
	t := p.cur()
	return t.Kind == token.ArithmeticOp && t.Lexeme == s
}

func (p *Parser) isRel(s string) bool {
	t := p.cur()
	return t.Kind == token.RelationalOp && t.Lexeme == s
}

func (p *Parser) isLogical(s string) bool {
	t := p.cur()
	return t.Kind == token.LogicalOp && t.Lexeme == s
}

func (p *Parser) isAssign() bool { return p.cur().Kind == token.AssignmentOp }
func (p *Parser) isIdent() bool  { return p.cur().Kind == token.Identifier }
func (p *Parser) isNumber() bool {
	k := p.cur().Kind
	return k == token.IntLiteral || k == token.RealLiteral
}
func (p *Parser) isString() bool { return p.cur().Kind == token.StringLiteral }

func describe(t token.Token) string {
	if t.Kind == token.EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s('%s')", t.Kind, t.Lexeme)
}

func (p *Parser) errExpect(expected string) {
	p.diags = append(p.diags, diag.New(diag.ParseExpect,
		fmt.Sprintf("expected %s but found %s", expected, describe(p.cur())), p.cur().Pos))
}

func (p *Parser) errUnexpected() {
	p.diags = append(p.diags, diag.New(diag.ParseUnexpected,
		fmt.Sprintf("unexpected token %s", describe(p.cur())), p.cur().Pos))
}

// syncTo discards tokens until one whose lexeme is a member of set is
// found, or the safety cap is reached, or input is exhausted. The
// parser resumes at the same nonterminal after this returns.
func (p *Parser) syncTo(set map[string]bool) {
	skipped := 0
	for !p.atEnd() && skipped < maxSyncSkip {
		if set[p.cur().Lexeme] {
			return
		}
		p.advance()
		skipped++
	}
}

func (p *Parser) expectPunct(s string) bool {
	if p.isPunct(s) {
		p.advance()
		return true
	}
	p.errExpect("'" + s + "'")
	return false
}

func (p *Parser) expectReserved(s string) bool {
	if p.isReserved(s) {
		p.advance()
		return true
	}
	p.errExpect("'" + s + "'")
	return false
}

func (p *Parser) expectIdent() (token.Token, bool) {
	if p.isIdent() {
		return p.advance(), true
	}
	p.errExpect("identifier")
	return token.Token{}, false
}

// ParseProgram parses a complete program and returns its AST root
// alongside the diagnostics gathered along the way.
func (p *Parser) ParseProgram() (*ast.Node, []diag.Diagnostic) {
	pos := p.cur().Pos
	if !p.expectReserved("main") {
		p.syncTo(map[string]bool{"{": true})
	}
	p.expectPunct("{")
	body := p.parseDeclList()
	p.expectPunct("}")
	mainNode := ast.New(ast.Main, "", pos, body)
	root := ast.New(ast.Programa, "", pos, mainNode)
	return root, p.diags
}

// parseDeclList implements decl_list := { var_decl } stmt_list,
// wrapped in a bloque node holding every declaration followed by the
// single lista_sentencias node.
func (p *Parser) parseDeclList() *ast.Node {
	pos := p.cur().Pos
	var decls []*ast.Node
	for p.startsType() {
		if d := p.parseVarDecl(); d != nil {
			decls = append(decls, d)
		}
	}
	stmts := p.parseStmtList(func(pp *Parser) bool { return pp.isPunct("}") })
	children := append(decls, stmts)
	return ast.New(ast.Bloque, "", pos, children...)
}

func (p *Parser) startsType() bool {
	if p.cur().Kind == token.ReservedWord && (p.cur().Lexeme == "int" || p.cur().Lexeme == "float") {
		return true
	}
	return p.isWord("bool")
}

func (p *Parser) parseType() (string, bool) {
	t := p.cur()
	if t.Kind == token.ReservedWord && (t.Lexeme == "int" || t.Lexeme == "float") {
		p.advance()
		return t.Lexeme, true
	}
	if p.isWord("bool") {
		p.advance()
		return "bool", true
	}
	return "", false
}

// parseVarDecl implements var_decl := type ident_list ';'.
func (p *Parser) parseVarDecl() *ast.Node {
	pos := p.cur().Pos
	typeName, ok := p.parseType()
	if !ok {
		p.errExpect("a type ('int', 'float', or 'bool')")
		p.syncTo(declSync)
		return nil
	}
	tipoNode := ast.New(ast.Tipo, typeName, pos)

	idsPos := p.cur().Pos
	var idLeaves []*ast.Node
	idTok, ok := p.expectIdent()
	if !ok {
		p.syncTo(declSync)
		return ast.New(ast.DeclaracionVariable, "", pos, tipoNode, ast.New(ast.Identificador, "", idsPos))
	}
	idLeaves = append(idLeaves, ast.New(ast.ID, idTok.Lexeme, idTok.Pos))

	for p.isPunct(",") {
		p.advance()
		idTok, ok := p.expectIdent()
		if !ok {
			p.syncTo(declSync)
			return ast.New(ast.DeclaracionVariable, "", pos, tipoNode, ast.New(ast.Identificador, "", idsPos, idLeaves...))
		}
		idLeaves = append(idLeaves, ast.New(ast.ID, idTok.Lexeme, idTok.Pos))
	}

	if !p.expectPunct(";") {
		p.syncTo(declSync)
	}
	identNode := ast.New(ast.Identificador, "", idsPos, idLeaves...)
	return ast.New(ast.DeclaracionVariable, "", pos, tipoNode, identNode)
}

// parseStmtList implements stmt_list := { stmt }, stopping when stop
// reports true or input is exhausted. A statement attempt that
// consumes no token forces a one-token advance, so a stalled recovery
// cannot loop forever.
func (p *Parser) parseStmtList(stop func(*Parser) bool) *ast.Node {
	pos := p.cur().Pos
	var stmts []*ast.Node
	for !p.atEnd() && !stop(p) {
		if p.isPunct(";") {
			p.diags = append(p.diags, diag.New(diag.StraySemi, "stray ';' at start of statement", p.cur().Pos))
			p.advance()
			continue
		}
		before := p.pos
		stmt := p.parseStmt()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if p.pos == before {
			// parseStmt made no progress; force advancement so recovery
			// cannot loop forever on a terminator it doesn't recognize.
			p.advance()
		}
	}
	return ast.New(ast.ListaSentencias, "", pos, stmts...)
}

func (p *Parser) parseStmt() *ast.Node {
	switch {
	case p.isReserved("if"):
		return p.parseSelection()
	case p.isReserved("while"):
		return p.parseIteration()
	case p.isReserved("do"):
		return p.parseRepetition()
	case p.isReserved("cin"):
		return p.parseSentIn()
	case p.isReserved("cout"):
		return p.parseSentOut()
	case p.isIdent():
		return p.parseAssignmentOrIncDec()
	default:
		p.errUnexpected()
		p.syncTo(stmtSync)
		return nil
	}
}

func stopAtElseOrEnd(p *Parser) bool { return p.isReserved("else") || p.isReserved("end") }
func stopAtEnd(p *Parser) bool       { return p.isReserved("end") }
func stopAtDoTerminator(p *Parser) bool {
	return p.isReserved("while") || p.isWord("until")
}

// parseSelection implements selection := 'if' expr 'then' stmt_list
// [ 'else' stmt_list ] 'end'.
func (p *Parser) parseSelection() *ast.Node {
	pos := p.advance().Pos // 'if'
	cond := p.parseExpr()
	if !p.expectReserved("then") {
		// best-effort: keep parsing the body even without 'then'
	}
	ifBody := p.parseStmtList(stopAtElseOrEnd)

	var elseNode *ast.Node
	if p.isReserved("else") {
		p.advance()
		elseBody := p.parseStmtList(stopAtEnd)
		elseNode = ast.New(ast.BloqueElse, "", elseBody.Pos, elseBody.Children...)
	} else {
		elseNode = ast.New(ast.ExpresionVacia, "", p.cur().Pos)
	}
	p.expectReserved("end")

	condNode := ast.New(ast.Condicion, "", cond.Pos, cond)
	ifBlock := ast.New(ast.BloqueIf, "", ifBody.Pos, ifBody.Children...)
	return ast.New(ast.Seleccion, "", pos, condNode, ifBlock, elseNode)
}

// parseIteration implements iteration := 'while' expr stmt_list 'end'.
func (p *Parser) parseIteration() *ast.Node {
	pos := p.advance().Pos // 'while'
	cond := p.parseExpr()
	body := p.parseStmtList(stopAtEnd)
	p.expectReserved("end")

	condNode := ast.New(ast.Condicion, "", cond.Pos, cond)
	whileBlock := ast.New(ast.BloqueWhile, "", body.Pos, body.Children...)
	return ast.New(ast.Iteracion, "", pos, condNode, whileBlock)
}

// parseRepetition implements repetition := 'do' stmt_list
// ('while'|'until') expr. The terminal keyword is recorded as the
// node's Value so the IR generator can pick the right jump
// polarity: "until" loops while the condition is false, "while"
// loops while it is true.
func (p *Parser) parseRepetition() *ast.Node {
	pos := p.advance().Pos // 'do'
	body := p.parseStmtList(stopAtDoTerminator)

	var kind string
	switch {
	case p.isReserved("while"):
		p.advance()
		kind = "while"
	case p.isWord("until"):
		p.advance()
		kind = "until"
	default:
		p.errExpect("'while' or 'until'")
		kind = "until"
	}
	cond := p.parseExpr()

	doBlock := ast.New(ast.BloqueDo, "", body.Pos, body.Children...)
	condNode := ast.New(ast.Condicion, "", cond.Pos, cond)
	return ast.New(ast.Repeticion, kind, pos, doBlock, condNode)
}

// parseSentIn implements sent_in := 'cin' '>>' IDENT ';'.
func (p *Parser) parseSentIn() *ast.Node {
	pos := p.advance().Pos // 'cin'
	if !p.isRel(">>") {
		p.errExpect("'>>'")
	} else {
		p.advance()
	}
	idTok, ok := p.expectIdent()
	if !ok {
		p.syncTo(stmtSync)
		return ast.New(ast.SentIn, "", pos)
	}
	if !p.expectPunct(";") {
		p.syncTo(stmtSync)
	}
	return ast.New(ast.SentIn, idTok.Lexeme, pos, ast.New(ast.ID, idTok.Lexeme, idTok.Pos))
}

// parseSentOut implements sent_out := 'cout' '<<' output ';'.
func (p *Parser) parseSentOut() *ast.Node {
	pos := p.advance().Pos // 'cout'
	if !p.isRel("<<") {
		p.errExpect("'<<'")
	} else {
		p.advance()
	}
	out := p.parseOutput()
	if !p.expectPunct(";") {
		p.syncTo(stmtSync)
	}
	return ast.New(ast.SentOut, "", pos, out)
}

// parseOutput implements output := (STRING | expr) [ '<<' (STRING | expr) ].
func (p *Parser) parseOutput() *ast.Node {
	pos := p.cur().Pos
	first := p.parseOutputItem()
	children := []*ast.Node{first}
	if p.isRel("<<") {
		p.advance()
		children = append(children, p.parseOutputItem())
	}
	return ast.New(ast.Salida, "", pos, children...)
}

func (p *Parser) parseOutputItem() *ast.Node {
	if p.isString() {
		t := p.advance()
		return ast.New(ast.Cadena, t.Lexeme, t.Pos)
	}
	return p.parseExpr()
}

// parseAssignmentOrIncDec implements both assignment and inc_dec,
// which share an IDENT prefix. inc_dec desugars at parse time into
// IDENT = IDENT +/- 1.
func (p *Parser) parseAssignmentOrIncDec() *ast.Node {
	idTok := p.advance() // IDENT
	switch {
	case p.isAssign():
		p.advance()
		rhs := p.parseExpr()
		if !p.expectPunct(";") {
			p.syncTo(stmtSync)
		}
		return ast.New(ast.Asignacion, idTok.Lexeme, idTok.Pos, rhs)

	case p.isArith("++") || p.isArith("--"):
		opTok := p.advance()
		if !p.expectPunct(";") {
			p.syncTo(stmtSync)
		}
		sign := "+"
		if opTok.Lexeme == "--" {
			sign = "-"
		}
		idLeaf := ast.New(ast.ID, idTok.Lexeme, idTok.Pos)
		oneLit := ast.New(ast.Numero, "1", opTok.Pos)
		sumaNode := ast.New(ast.SumaOp, sign, opTok.Pos, idLeaf, oneLit)
		rhs := ast.New(ast.ExpresionSimple, "", opTok.Pos, sumaNode)
		return ast.New(ast.Asignacion, idTok.Lexeme, idTok.Pos, rhs)

	default:
		p.errExpect("'=', '++', or '--'")
		p.syncTo(stmtSync)
		return nil
	}
}

// parseExpr implements expr := rel_expr { '||' rel_expr | '&&' rel_expr }.
func (p *Parser) parseExpr() *ast.Node {
	left := p.parseRelExpr()
	for p.isLogical("||") || p.isLogical("&&") {
		opTok := p.advance()
		right := p.parseRelExpr()
		left = ast.New(ast.LogOp, opTok.Lexeme, opTok.Pos, left, right)
	}
	return left
}

var relOps = map[string]bool{"<": true, ">": true, "<=": true, ">=": true, "==": true, "!=": true}

// parseRelExpr implements rel_expr := simple_expr [ rel_op simple_expr ],
// always wrapped in a componente_logico node so every level of the
// precedence chain below expr has a uniform transparent wrapper.
func (p *Parser) parseRelExpr() *ast.Node {
	pos := p.cur().Pos
	left := p.parseSimpleExpr()

	var result *ast.Node
	if t := p.cur(); t.Kind == token.RelationalOp && relOps[t.Lexeme] {
		p.advance()
		right := p.parseSimpleExpr()
		result = ast.New(ast.RelOp, t.Lexeme, t.Pos, left, right)
	} else {
		result = left
	}
	return ast.New(ast.ComponenteLogico, "", pos, result)
}

// parseSimpleExpr implements simple_expr := term { ('+'|'-') term },
// wrapped in an expresion_simple node.
func (p *Parser) parseSimpleExpr() *ast.Node {
	pos := p.cur().Pos
	left := p.parseTerm()
	for p.isArith("+") || p.isArith("-") {
		opTok := p.advance()
		right := p.parseTerm()
		left = ast.New(ast.SumaOp, opTok.Lexeme, opTok.Pos, left, right)
	}
	return ast.New(ast.ExpresionSimple, "", pos, left)
}

// parseTerm implements term := factor { ('*'|'/'|'%') factor }.
func (p *Parser) parseTerm() *ast.Node {
	left := p.parseFactor()
	for p.isArith("*") || p.isArith("/") || p.isArith("%") {
		opTok := p.advance()
		right := p.parseFactor()
		left = ast.New(ast.MultOp, opTok.Lexeme, opTok.Pos, left, right)
	}
	return left
}

// parseFactor implements factor := component { '^' component },
// right-associative (resolved in favor
// of the grammar's implied associativity; see DESIGN.md).
func (p *Parser) parseFactor() *ast.Node {
	left := p.parseComponent()
	if p.isArith("^") {
		opTok := p.advance()
		right := p.parseFactor()
		return ast.New(ast.PotOp, opTok.Lexeme, opTok.Pos, left, right)
	}
	return left
}

// parseComponent implements component := '(' expr ')' | NUMBER | IDENT
// | ('+'|'-') component | '!' component. A parenthesized expression
// is returned without its componente_logico/expresion_simple wrappers.
func (p *Parser) parseComponent() *ast.Node {
	pos := p.cur().Pos
	switch {
	case p.isPunct("("):
		p.advance()
		e := p.parseExpr()
		p.expectPunct(")")
		for (e.Kind == ast.ComponenteLogico || e.Kind == ast.ExpresionSimple) && len(e.Children) == 1 {
			e = e.Children[0]
		}
		return e
	case p.isNumber():
		t := p.advance()
		return ast.New(ast.Numero, t.Lexeme, t.Pos)
	case p.isIdent():
		t := p.advance()
		if t.Lexeme == "true" || t.Lexeme == "false" {
			return ast.New(ast.Bool, t.Lexeme, t.Pos)
		}
		return ast.New(ast.ID, t.Lexeme, t.Pos)
	case p.isArith("+") || p.isArith("-"):
		opTok := p.advance()
		operand := p.parseComponent()
		return ast.New(ast.Unario, opTok.Lexeme, opTok.Pos, operand)
	case p.isRel("!"):
		opTok := p.advance()
		operand := p.parseComponent()
		return ast.New(ast.OpLogico, opTok.Lexeme, opTok.Pos, operand)
	default:
		p.errUnexpected()
		p.syncTo(stmtSync)
		return ast.New(ast.ExpresionVacia, "", pos)
	}
}
