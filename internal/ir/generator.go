package ir

import (
	"fmt"
	"strconv"

	"github.com/surebria/minic/internal/ast"
)

// Generator walks an AST and emits a flat quadruple program. Temp and
// label counters reset at the start of every Generate call.
type Generator struct {
	tempCount  int
	labelCount int
	code       []Quadruple
}

// New returns a ready-to-use Generator.
func New() *Generator { return &Generator{} }

func (g *Generator) newTemp() string {
	g.tempCount++
	return fmt.Sprintf("t%d", g.tempCount)
}

func (g *Generator) newLabel() string {
	g.labelCount++
	return fmt.Sprintf("L%d", g.labelCount)
}

func (g *Generator) emit(op, a1, a2, a3 string) {
	g.code = append(g.code, Quadruple{Op: op, A1: a1, A2: a2, A3: a3})
}

// Generate produces the quadruple program for root, terminated by a
// single halt instruction.
func (g *Generator) Generate(root *ast.Node) []Quadruple {
	g.tempCount = 0
	g.labelCount = 0
	g.code = nil
	g.walk(root)
	g.emit("halt", "_", "_", "_")
	return g.code
}

var arithMnemonic = map[string]string{"+": "add", "-": "sub", "*": "mul", "/": "div", "%": "mod"}
var relMnemonic = map[string]string{"<": "lt", ">": "gt", "<=": "le", ">=": "ge", "==": "eq", "!=": "ne"}
var logMnemonic = map[string]string{"&&": "and", "||": "or"}

// walk lowers n, returning the operand (variable name, temp name, or
// literal text) that represents its value to a caller building a
// containing expression. Statement-level nodes return "" since they
// have no value, except an assignment, which returns its target name.
func (g *Generator) walk(n *ast.Node) string {
	if n == nil {
		return "_"
	}
	switch n.Kind {
	case ast.Programa:
		return g.walk(n.Child(0))

	case ast.Main, ast.Bloque, ast.ListaSentencias, ast.BloqueIf, ast.BloqueElse, ast.BloqueWhile, ast.BloqueDo:
		for _, c := range n.Children {
			g.walk(c)
		}
		return ""

	case ast.Condicion, ast.ExpresionSimple, ast.ComponenteLogico:
		return g.walk(n.Child(0))

	case ast.DeclaracionVariable:
		return ""

	case ast.Asignacion:
		return g.genAssignment(n)

	case ast.SumaOp, ast.MultOp:
		return g.genBinary(n, arithMnemonic[n.Value])

	case ast.PotOp:
		return g.genPow(n)

	case ast.RelOp:
		return g.genBinary(n, relMnemonic[n.Value])

	case ast.LogOp:
		return g.genBinary(n, logMnemonic[n.Value])

	case ast.Numero:
		return n.Value

	case ast.ID:
		return n.Value

	case ast.Bool:
		if n.Value == "true" {
			return "1"
		}
		return "0"

	case ast.Cadena:
		return `"` + n.Value + `"`

	case ast.Unario:
		operand := g.walk(n.Child(0))
		if n.Value == "-" {
			t := g.newTemp()
			g.emit("neg", operand, "_", t)
			return t
		}
		return operand

	case ast.OpLogico:
		operand := g.walk(n.Child(0))
		t := g.newTemp()
		g.emit("not", operand, "_", t)
		return t

	case ast.ExpresionVacia:
		return "_"

	case ast.Seleccion:
		g.genIfElse(n)
		return ""

	case ast.Iteracion:
		g.genWhile(n)
		return ""

	case ast.Repeticion:
		g.genRepetition(n)
		return ""

	case ast.SentIn:
		g.emit("rd", n.Value, "_", "_")
		return ""

	case ast.SentOut:
		g.genOutput(n)
		return ""

	default:
		return "_"
	}
}

func (g *Generator) genAssignment(n *ast.Node) string {
	val := g.walk(n.Child(0))
	g.emit("asn", val, n.Value, "_")
	return n.Value
}

func (g *Generator) genBinary(n *ast.Node, mnemonic string) string {
	left := g.walk(n.Child(0))
	right := g.walk(n.Child(1))
	t := g.newTemp()
	g.emit(mnemonic, left, right, t)
	return t
}

// genPow lowers pot_op. The opcode set this package defines has no
// exponentiation instruction, so a literal non-negative integer
// exponent unrolls into a chain of mul instructions at generation
// time; anything else (a variable exponent, a negative or
// non-integer one) falls back to a single mul against the raw
// operands — a known limitation, since there is no runtime opcode
// that could express it faithfully.
func (g *Generator) genPow(n *ast.Node) string {
	base := g.walk(n.Child(0))
	exponentNode := n.Child(1)

	if exponentNode.Kind == ast.Numero {
		if exp, err := strconv.Atoi(exponentNode.Value); err == nil && exp >= 0 {
			if exp == 0 {
				return "1"
			}
			acc := base
			for i := 1; i < exp; i++ {
				t := g.newTemp()
				g.emit("mul", acc, base, t)
				acc = t
			}
			return acc
		}
	}

	right := g.walk(exponentNode)
	t := g.newTemp()
	g.emit("mul", base, right, t)
	return t
}

func (g *Generator) genIfElse(n *ast.Node) {
	tcond := g.walk(n.Child(0))
	lElse := g.newLabel()
	lFin := g.newLabel()

	g.emit("if_f", tcond, lElse, "_")
	g.walk(n.Child(1))
	g.emit("goto", lFin, "_", "_")
	g.emit("lab", lElse, "_", "_")
	g.walk(n.Child(2))
	g.emit("lab", lFin, "_", "_")
}

func (g *Generator) genWhile(n *ast.Node) {
	lInicio := g.newLabel()
	lFin := g.newLabel()

	g.emit("lab", lInicio, "_", "_")
	tcond := g.walk(n.Child(0))
	g.emit("if_f", tcond, lFin, "_")
	g.walk(n.Child(1))
	g.emit("goto", lInicio, "_", "_")
	g.emit("lab", lFin, "_", "_")
}

// genRepetition lowers do-until and do-while. "until" loops while the
// condition is false (jump back on if_f); "while" loops while it is
// true (jump back on if_t) — the opposite polarity.
func (g *Generator) genRepetition(n *ast.Node) {
	lIni := g.newLabel()
	g.emit("lab", lIni, "_", "_")
	g.walk(n.Child(0))
	tcond := g.walk(n.Child(1))
	if n.Value == "while" {
		g.emit("if_t", tcond, lIni, "_")
	} else {
		g.emit("if_f", tcond, lIni, "_")
	}
}

func (g *Generator) genOutput(n *ast.Node) {
	salida := n.Child(0)
	for _, item := range salida.Children {
		val := g.walk(item)
		g.emit("wri", val, "_", "_")
	}
}
