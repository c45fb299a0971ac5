package artifact

import (
	"strings"

	"github.com/surebria/minic/internal/ir"
)

// Quadruples renders a generated program one instruction per line, in
// the "(op, a1, a2, a3)" form spec's intermediate-code listing uses.
func Quadruples(quads []ir.Quadruple) string {
	var sb strings.Builder
	for _, q := range quads {
		sb.WriteString(q.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
