package artifact

import (
	"strings"

	"github.com/surebria/minic/internal/ast"
)

// AST renders an indented tree dump: two spaces per depth level, node
// kind first, an optional ": value" suffix when the node carries a
// lexeme value.
func AST(root *ast.Node) string {
	var sb strings.Builder
	dumpNode(&sb, root, 0)
	return sb.String()
}

func dumpNode(sb *strings.Builder, n *ast.Node, depth int) {
	if n == nil {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(string(n.Kind))
	if n.Value != "" {
		sb.WriteString(": ")
		sb.WriteString(n.Value)
	}
	sb.WriteString("\n")
	for _, c := range n.Children {
		dumpNode(sb, c, depth+1)
	}
}
