package artifact

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"
)

// Symbol is the subset of semantic.Symbol this package needs, kept
// independent of the semantic package so artifact has no import-cycle
// risk and can serialize symbol rows built by any caller.
type Symbol struct {
	Scope  string
	Name   string
	Type   string
	LVL    int
	Offset int
	Lines  []int
}

// SymbolTable renders the tabla_simbolos.txt fixed-width columns:
// SCOPE LVL NAME TYPE OFFSET COUNT LINES. Rows are naturally sorted
// by scope path first (so "global.if1" precedes "global.if10") and by
// name within a scope.
func SymbolTable(symbols []Symbol) string {
	rows := append([]Symbol(nil), symbols...)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Scope != rows[j].Scope {
			return natural.Less(rows[i].Scope, rows[j].Scope)
		}
		return natural.Less(rows[i].Name, rows[j].Name)
	})

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-20s %-4s %-16s %-8s %-8s %-8s %s\n",
		"SCOPE", "LVL", "NAME", "TYPE", "OFFSET", "COUNT", "LINES"))
	for _, s := range rows {
		lineStrs := make([]string, len(s.Lines))
		for i, l := range s.Lines {
			lineStrs[i] = strconv.Itoa(l)
		}
		sb.WriteString(fmt.Sprintf("%-20s %-4d %-16s %-8s %-8d %-8d %s\n",
			s.Scope, s.LVL, s.Name, s.Type, s.Offset, len(s.Lines), strings.Join(lineStrs, ",")))
	}
	return sb.String()
}
