package semantic

import (
	"github.com/surebria/minic/internal/ast"
	"github.com/surebria/minic/internal/token"
)

// AnnotatedNode mirrors the shape of ast.Node but carries the
// semantic annotations an analyzed tree carries: the inferred DataType
// ("int", "float", "bool", "string" for a cout string literal, or ""
// when unknown) and, where constant folding could determine it,
// ComputedValue (int64, float64, bool, a string literal's text, the
// string "error" on a rejected assignment, or nil). Err marks a subtree that already produced a diagnostic, so
// callers can avoid cascading unrelated errors from it.
type AnnotatedNode struct {
	Kind          ast.Kind
	Value         string
	Children      []*AnnotatedNode
	Pos           token.Position
	DataType      string
	ComputedValue any
	Err           bool
}

func newAnnotated(n *ast.Node) *AnnotatedNode {
	return &AnnotatedNode{Kind: n.Kind, Value: n.Value, Pos: n.Pos}
}

func (n *AnnotatedNode) addChild(c *AnnotatedNode) {
	if c != nil {
		n.Children = append(n.Children, c)
	}
}

func (n *AnnotatedNode) Child(i int) *AnnotatedNode {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}
