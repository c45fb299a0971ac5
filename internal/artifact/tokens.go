// Package artifact serializes pipeline output into the stable text
// (and optional YAML/JSON) formats this tool's artifacts use: tokens.txt,
// errores*.txt, ast.txt, tabla_simbolos.txt.
package artifact

import (
	"strings"

	"github.com/surebria/minic/internal/token"
)

// Tokens renders one token per line as "KIND('lexeme') en línea L,
// columna C" — token.Token's own String() already produces this
// exact shape, so tokens.txt is a direct join.
func Tokens(toks []token.Token) string {
	var sb strings.Builder
	for _, t := range toks {
		sb.WriteString(t.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
