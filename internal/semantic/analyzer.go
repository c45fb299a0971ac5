// Package semantic implements the third pipeline phase: a
// tree walk that builds the symbol table, infers and checks types,
// and constant-folds every expression it can fully evaluate. It is
// grounded closely on the teaching compiler's own semantic pass, with
// the node-kind dispatch adapted to the wrapper kinds (bloque,
// componente_logico, expresion_simple, condicion, bloque_if/else/
// while/do) our parser produces.
package semantic

import (
	"fmt"
	"math"
	"strconv"

	"github.com/surebria/minic/internal/ast"
	"github.com/surebria/minic/internal/diag"
	"github.com/surebria/minic/internal/token"
)

// Analyzer walks an AST and produces an AnnotatedNode tree, a
// populated SymbolTable, and any diagnostics it collected.
type Analyzer struct {
	table *SymbolTable
	diags []diag.Diagnostic
}

// New returns an Analyzer with a fresh, empty symbol table.
func New() *Analyzer {
	return &Analyzer{table: NewSymbolTable()}
}

func (a *Analyzer) report(cat diag.Category, msg string, pos token.Position) {
	a.diags = append(a.diags, diag.New(cat, msg, pos))
}

func (a *Analyzer) reportFatal(cat diag.Category, msg string, pos token.Position) {
	a.diags = append(a.diags, diag.NewFatal(cat, msg, pos))
}

// Analyze walks root and returns the annotated tree, the symbol
// table it built, and every diagnostic raised along the way.
func (a *Analyzer) Analyze(root *ast.Node) (*AnnotatedNode, *SymbolTable, []diag.Diagnostic) {
	if root == nil {
		a.reportFatal(diag.AstInvalid, "the AST is empty", token.Position{})
		return nil, a.table, a.diags
	}
	annotated := a.annotate(root)
	return annotated, a.table, a.diags
}

// annotate dispatches on node kind, handling every construct that
// needs scope/type bookkeeping and falling back to a transparent
// recursive copy for pure-structure wrapper kinds.
func (a *Analyzer) annotate(n *ast.Node) *AnnotatedNode {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case ast.Main:
		out := newAnnotated(n)
		a.table.EnterScope("main")
		for _, c := range n.Children {
			out.addChild(a.annotate(c))
		}
		a.table.ExitScope()
		return out

	case ast.DeclaracionVariable:
		return a.annotateDecl(n)

	case ast.Asignacion:
		return a.annotateAssignment(n)

	case ast.Seleccion:
		return a.annotateSelection(n)

	case ast.Iteracion:
		return a.annotateIteration(n)

	case ast.Repeticion:
		return a.annotateRepetition(n)

	case ast.SentIn:
		return a.annotateInput(n)

	case ast.SentOut:
		return a.annotateOutput(n)

	default:
		out := newAnnotated(n)
		for _, c := range n.Children {
			out.addChild(a.annotate(c))
		}
		return out
	}
}

func (a *Analyzer) annotateDecl(n *ast.Node) *AnnotatedNode {
	out := newAnnotated(n)
	tipoNode := n.Child(0)
	typeName := ""
	if tipoNode != nil {
		typeName = tipoNode.Value
		tipoAnn := newAnnotated(tipoNode)
		tipoAnn.DataType = typeName
		out.addChild(tipoAnn)
	}
	out.DataType = typeName

	idsNode := n.Child(1)
	if idsNode == nil {
		return out
	}
	for _, idLeaf := range idsNode.Children {
		if idLeaf.Kind != ast.ID {
			continue
		}
		ok, msg := a.table.Declare(idLeaf.Value, typeName, idLeaf.Pos)
		if !ok {
			a.report(diag.DupDecl, msg, idLeaf.Pos)
		}
		idAnn := newAnnotated(idLeaf)
		idAnn.DataType = typeName
		out.addChild(idAnn)
	}
	return out
}

func (a *Analyzer) annotateAssignment(n *ast.Node) *AnnotatedNode {
	out := newAnnotated(n)
	name := n.Value

	sym, errMsg := a.table.Lookup(name, n.Pos)
	if sym == nil {
		a.report(diag.Undeclared, errMsg, n.Pos)
		out.DataType = ""
		out.Err = true
		return out
	}

	rhs := a.evalExpr(n.Child(0))
	out.addChild(rhs)

	if sym.Type == "int" && rhs.DataType == "float" {
		a.report(diag.TypeIncompat,
			fmt.Sprintf("cannot assign a float to int variable '%s'", name), n.Pos)
		out.DataType = "int"
		out.ComputedValue = "error"
		out.Err = true
		return out
	}

	if rhs.DataType != "" && sym.Type != "" {
		if ok, msg := checkTypeCompatibility(sym.Type, rhs.DataType); !ok {
			a.report(diag.TypeIncompat, msg, n.Pos)
			out.DataType = sym.Type
			out.ComputedValue = "error"
			out.Err = true
			return out
		}
	}

	if rhs.ComputedValue != nil {
		a.table.SetValue(name, coerce(rhs.ComputedValue, sym.Type))
	}
	out.DataType = sym.Type
	out.ComputedValue = rhs.ComputedValue
	return out
}

func (a *Analyzer) annotateSelection(n *ast.Node) *AnnotatedNode {
	out := newAnnotated(n)
	out.addChild(a.evalExpr(n.Child(0)))
	out.addChild(a.annotate(n.Child(1)))
	if n.Child(2) != nil {
		out.addChild(a.annotate(n.Child(2)))
	}
	return out
}

func (a *Analyzer) annotateIteration(n *ast.Node) *AnnotatedNode {
	out := newAnnotated(n)
	out.addChild(a.evalExpr(n.Child(0)))
	out.addChild(a.annotate(n.Child(1)))
	return out
}

func (a *Analyzer) annotateRepetition(n *ast.Node) *AnnotatedNode {
	out := newAnnotated(n)
	out.addChild(a.annotate(n.Child(0)))
	out.addChild(a.evalExpr(n.Child(1)))
	return out
}

func (a *Analyzer) annotateInput(n *ast.Node) *AnnotatedNode {
	out := newAnnotated(n)
	for _, c := range n.Children {
		if c.Kind != ast.ID {
			continue
		}
		sym, errMsg := a.table.Lookup(c.Value, c.Pos)
		idAnn := newAnnotated(c)
		if sym == nil {
			a.report(diag.Undeclared, errMsg, c.Pos)
			idAnn.DataType = ""
			idAnn.Err = true
		} else {
			idAnn.DataType = sym.Type
		}
		out.addChild(idAnn)
	}
	return out
}

func (a *Analyzer) annotateOutput(n *ast.Node) *AnnotatedNode {
	out := newAnnotated(n)
	salida := n.Child(0)
	salidaAnn := newAnnotated(salida)
	for _, item := range salida.Children {
		if item.Kind == ast.Cadena {
			strAnn := newAnnotated(item)
			strAnn.DataType = "string"
			strAnn.ComputedValue = item.Value
			salidaAnn.addChild(strAnn)
			continue
		}
		salidaAnn.addChild(a.evalExpr(item))
	}
	out.addChild(salidaAnn)
	return out
}

// evalExpr evaluates an expression subtree, inferring DataType and,
// where every operand is a known constant, ComputedValue.
func (a *Analyzer) evalExpr(n *ast.Node) *AnnotatedNode {
	if n == nil {
		out := &AnnotatedNode{DataType: "", Err: true}
		return out
	}
	out := newAnnotated(n)

	switch n.Kind {
	case ast.Numero:
		typ := inferNumericType(n.Value)
		out.DataType = typ
		out.ComputedValue = parseNumericLiteral(n.Value, typ)

	case ast.Bool:
		out.DataType = "bool"
		out.ComputedValue = n.Value == "true"

	case ast.ID:
		sym, errMsg := a.table.Lookup(n.Value, n.Pos)
		if sym == nil {
			a.report(diag.Undeclared, errMsg, n.Pos)
			out.DataType = ""
			out.Err = true
		} else {
			out.DataType = sym.Type
			out.ComputedValue = sym.Value
		}

	case ast.Cadena:
		out.DataType = "string"
		out.ComputedValue = n.Value

	case ast.SumaOp, ast.MultOp, ast.PotOp:
		return a.evalArith(n, out)

	case ast.RelOp:
		return a.evalRel(n, out)

	case ast.LogOp:
		return a.evalLogical(n, out)

	case ast.ExpresionSimple, ast.ComponenteLogico:
		if len(n.Children) == 1 {
			return a.evalExpr(n.Child(0))
		}
		for _, c := range n.Children {
			out.addChild(a.evalExpr(c))
		}

	case ast.Unario:
		child := a.evalExpr(n.Child(0))
		out.addChild(child)
		if child.DataType == "bool" {
			a.report(diag.TypeIncompat, "unary sign cannot be applied to bool", n.Pos)
			out.Err = true
			break
		}
		out.DataType = child.DataType
		if child.ComputedValue != nil && n.Value == "-" {
			out.ComputedValue = negate(child.ComputedValue)
		} else {
			out.ComputedValue = child.ComputedValue
		}

	case ast.OpLogico:
		child := a.evalExpr(n.Child(0))
		out.addChild(child)
		out.DataType = "bool"
		if child.DataType != "bool" {
			a.report(diag.TypeIncompat, "logical 'not' requires a bool operand", n.Pos)
			out.Err = true
			break
		}
		if b, ok := child.ComputedValue.(bool); ok {
			out.ComputedValue = !b
		}

	case ast.ExpresionVacia:
		out.DataType = ""

	default:
		for _, c := range n.Children {
			out.addChild(a.evalExpr(c))
		}
		if len(out.Children) > 0 {
			last := out.Children[len(out.Children)-1]
			out.DataType = last.DataType
			out.ComputedValue = last.ComputedValue
		}
	}
	return out
}

func (a *Analyzer) evalArith(n *ast.Node, out *AnnotatedNode) *AnnotatedNode {
	left := a.evalExpr(n.Child(0))
	right := a.evalExpr(n.Child(1))
	out.addChild(left)
	out.addChild(right)

	if left.DataType == "" || right.DataType == "" {
		out.DataType = ""
		return out
	}
	if left.DataType == "bool" || right.DataType == "bool" {
		a.report(diag.TypeIncompat, "arithmetic operator cannot be used with bool", n.Pos)
		out.DataType = ""
		out.Err = true
		return out
	}
	if left.Err || right.Err {
		out.Err = true
		return out
	}

	resultType := "int"
	if left.DataType == "float" || right.DataType == "float" {
		resultType = "float"
	}
	out.DataType = resultType

	if left.ComputedValue == nil || right.ComputedValue == nil {
		return out
	}
	lv, rv := asFloat(left.ComputedValue), asFloat(right.ComputedValue)

	var result float64
	switch n.Value {
	case "+":
		result = lv + rv
	case "-":
		result = lv - rv
	case "*":
		result = lv * rv
	case "/":
		if rv == 0 {
			a.report(diag.DivByZero, "division by a constant zero", n.Pos)
			return out
		}
		result = lv / rv
	case "%":
		if rv == 0 {
			a.report(diag.DivByZero, "modulo by a constant zero", n.Pos)
			return out
		}
		result = math.Mod(lv, rv)
	case "^":
		result = math.Pow(lv, rv)
	default:
		return out
	}

	if resultType == "int" {
		out.ComputedValue = int64(result)
	} else {
		out.ComputedValue = result
	}
	return out
}

func (a *Analyzer) evalRel(n *ast.Node, out *AnnotatedNode) *AnnotatedNode {
	left := a.evalExpr(n.Child(0))
	right := a.evalExpr(n.Child(1))
	out.addChild(left)
	out.addChild(right)
	out.DataType = "bool"

	if left.DataType == "" || right.DataType == "" || left.ComputedValue == nil || right.ComputedValue == nil {
		return out
	}
	lv, rv := asFloat(left.ComputedValue), asFloat(right.ComputedValue)
	switch n.Value {
	case "<":
		out.ComputedValue = lv < rv
	case ">":
		out.ComputedValue = lv > rv
	case "<=":
		out.ComputedValue = lv <= rv
	case ">=":
		out.ComputedValue = lv >= rv
	case "==":
		out.ComputedValue = lv == rv
	case "!=":
		out.ComputedValue = lv != rv
	}
	return out
}

func (a *Analyzer) evalLogical(n *ast.Node, out *AnnotatedNode) *AnnotatedNode {
	left := a.evalExpr(n.Child(0))
	right := a.evalExpr(n.Child(1))
	out.addChild(left)
	out.addChild(right)
	out.DataType = "bool"

	if left.DataType != "bool" || right.DataType != "bool" {
		a.report(diag.TypeIncompat, "logical operator requires bool operands", n.Pos)
		out.Err = true
		return out
	}
	lb, lok := left.ComputedValue.(bool)
	rb, rok := right.ComputedValue.(bool)
	if !lok || !rok {
		return out
	}
	switch n.Value {
	case "&&":
		out.ComputedValue = lb && rb
	case "||":
		out.ComputedValue = lb || rb
	}
	return out
}

// checkTypeCompatibility applies this language's compatibility matrix:
// identical types match, int promotes to float, and anything
// touching bool is otherwise incompatible.
func checkTypeCompatibility(dest, src string) (bool, string) {
	if dest == src {
		return true, ""
	}
	if dest == "float" && src == "int" {
		return true, ""
	}
	if dest == "int" && src == "float" {
		return false, "cannot assign a float to int"
	}
	if dest == "bool" || src == "bool" {
		return false, fmt.Sprintf("type mismatch: bool is not compatible with %s", pick(dest == "bool", src, dest))
	}
	return false, fmt.Sprintf("incompatible types: %s vs %s", dest, src)
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

func inferNumericType(lexeme string) string {
	for _, r := range lexeme {
		if r == '.' {
			return "float"
		}
	}
	return "int"
}

func parseNumericLiteral(lexeme, typ string) any {
	if typ == "float" {
		v, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return nil
		}
		return v
	}
	v, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return nil
	}
	return v
}

func asFloat(v any) float64 {
	switch x := v.(type) {
	case int64:
		return float64(x)
	case float64:
		return x
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func negate(v any) any {
	switch x := v.(type) {
	case int64:
		return -x
	case float64:
		return -x
	default:
		return v
	}
}

func coerce(v any, typ string) any {
	switch typ {
	case "float":
		return asFloat(v)
	case "int":
		return int64(asFloat(v))
	default:
		return v
	}
}
