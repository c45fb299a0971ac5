package artifact

import "github.com/surebria/minic/internal/semantic"

// FromSymbolTable projects a semantic.SymbolTable's entries into the
// plain Symbol rows this package renders, converting each Location
// into a bare line number.
func FromSymbolTable(t *semantic.SymbolTable) []Symbol {
	if t == nil {
		return nil
	}
	entries := t.Entries()
	out := make([]Symbol, 0, len(entries))
	for _, e := range entries {
		lines := make([]int, len(e.Locations))
		for i, pos := range e.Locations {
			lines[i] = pos.Line
		}
		out = append(out, Symbol{
			Scope:  e.Scope,
			Name:   e.Name,
			Type:   e.Type,
			LVL:    e.LVL,
			Offset: e.Offset,
			Lines:  lines,
		})
	}
	return out
}
