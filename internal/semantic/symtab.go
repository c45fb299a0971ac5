package semantic

import (
	"fmt"
	"strings"

	"github.com/surebria/minic/internal/token"
)

// Symbol is a single entry in the symbol table: a declared variable's
// type, its most recently computed value (for constant folding), and
// every source location at which it was used.
type Symbol struct {
	Name      string
	Type      string
	Value     any
	Scope     string
	LVL       int
	Offset    int
	DeclPos   token.Position
	Locations []token.Position
}

func (s *Symbol) addUse(pos token.Position) {
	for _, p := range s.Locations {
		if p == pos {
			return
		}
	}
	s.Locations = append(s.Locations, pos)
}

func (s *Symbol) String() string {
	return fmt.Sprintf("Symbol(%s, %s, scope=%s)", s.Name, s.Type, s.Scope)
}

// SymbolTable is a scope-stack symbol table. The grammar declares
// every variable inside a single enclosing block (decl_list places
// all var_decls before the statement list), so in practice only one
// scope is ever pushed — but the stack mechanics mirror the scoping
// machinery a language with nested blocks would need.
type SymbolTable struct {
	entries    map[string]*Symbol
	order      []*Symbol // insertion order, across all scopes
	scopeStack []string
	nextOffset map[string]int // per-scope next declaration offset
}

// NewSymbolTable returns a table with the root "global" scope active.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		entries:    make(map[string]*Symbol),
		scopeStack: []string{"global"},
		nextOffset: make(map[string]int),
	}
}

func (t *SymbolTable) currentScope() string { return t.scopeStack[len(t.scopeStack)-1] }

// EnterScope pushes a new nested scope named "<parent>.<name>".
func (t *SymbolTable) EnterScope(name string) {
	t.scopeStack = append(t.scopeStack, t.currentScope()+"."+name)
}

// ExitScope pops the innermost scope, leaving at least "global" behind.
func (t *SymbolTable) ExitScope() {
	if len(t.scopeStack) > 1 {
		t.scopeStack = t.scopeStack[:len(t.scopeStack)-1]
	}
}

func key(scope, name string) string { return scope + "_" + name }

// Declare adds name to the current scope. ok is false and msg is set
// when the name is already declared in that scope (spec's DUP_DECL).
func (t *SymbolTable) Declare(name, typ string, pos token.Position) (ok bool, msg string) {
	scope := t.currentScope()
	k := key(scope, name)
	if _, exists := t.entries[k]; exists {
		return false, fmt.Sprintf("variable '%s' already declared in scope %s", name, scope)
	}
	sym := &Symbol{
		Name:      name,
		Type:      typ,
		Scope:     scope,
		LVL:       strings.Count(scope, "."),
		Offset:    t.nextOffset[scope],
		DeclPos:   pos,
		Locations: []token.Position{pos},
	}
	t.nextOffset[scope]++
	t.entries[k] = sym
	t.order = append(t.order, sym)
	return true, ""
}

// Lookup searches the current scope and then each enclosing scope in
// turn, recording pos as a use site on success (spec's UNDECLARED on
// failure).
func (t *SymbolTable) Lookup(name string, pos token.Position) (*Symbol, string) {
	for i := len(t.scopeStack) - 1; i >= 0; i-- {
		k := key(t.scopeStack[i], name)
		if sym, ok := t.entries[k]; ok {
			sym.addUse(pos)
			return sym, ""
		}
	}
	return nil, fmt.Sprintf("variable '%s' not declared", name)
}

// SetValue records the most recently assigned constant value for name,
// feeding constant folding in later expressions that read it back.
func (t *SymbolTable) SetValue(name string, value any) {
	for i := len(t.scopeStack) - 1; i >= 0; i-- {
		if sym, ok := t.entries[key(t.scopeStack[i], name)]; ok {
			sym.Value = value
			return
		}
	}
}

// Entries returns every declared symbol in declaration order.
func (t *SymbolTable) Entries() []*Symbol {
	return t.order
}
