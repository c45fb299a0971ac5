package artifact

import (
	"fmt"
	"strings"

	"github.com/surebria/minic/internal/diag"
)

// Diagnostics renders one diagnostic per line. Every stage's
// diagnostic dump — errores.txt (lexical), errores_sintacticos.txt
// (parser), errores_semanticos.txt (semantic) — shares this same
// per-line shape; they differ only in which stage's diagnostic slice
// is passed in.
func Diagnostics(diags []diag.Diagnostic) string {
	var sb strings.Builder
	for _, d := range diags {
		sb.WriteString(fmt.Sprintf("%s: %s en %s\n", d.Category, d.Description, d.Pos))
	}
	return sb.String()
}
