package symbols

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"github.com/foryearslater/afsim-sub009/internal/types"
)

var (
	// ErrDuplicate is returned by Insert when the name is already visible in
	// the target scope's transparent chain.
	ErrDuplicate = errors.New("symbol already declared")
	// ErrReadOnly is returned when an overlay tries to write into its base.
	ErrReadOnly = errors.New("scope belongs to the base table")
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Table aggregates the scope and symbol arenas of one analysis session.
//
// An overlay table (see NewOverlay) reads through to a base table for ids
// below its offsets and allocates everything new in private arenas, so the
// base is never modified and the overlay can simply be dropped.
type Table struct {
	scopes  *Scopes
	symbols *Symbols
	base    *Table
}

// NewTable builds a fresh table with optional capacity hints.
func NewTable(h Hints) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	return &Table{
		scopes:  NewScopes(scopeCap),
		symbols: NewSymbols(symCap),
	}
}

// NewOverlay returns a table that sees everything in base and writes only to
// itself. Base must not allocate while the overlay is in use.
func NewOverlay(base *Table) *Table {
	return &Table{
		scopes:  newScopesAt(base.scopes.next()),
		symbols: newSymbolsAt(base.symbols.next()),
		base:    base,
	}
}

// IsOverlay reports whether t reads through to a base table.
func (t *Table) IsOverlay() bool { return t.base != nil }

// Scope returns the scope for id from this table or its base.
func (t *Table) Scope(id ScopeID) *Scope {
	if s := t.scopes.Get(id); s != nil {
		return s
	}
	if t.base != nil {
		return t.base.Scope(id)
	}
	return nil
}

// Symbol returns the symbol for id from this table or its base.
func (t *Table) Symbol(id SymbolID) *Symbol {
	if s := t.symbols.Get(id); s != nil {
		return s
	}
	if t.base != nil {
		return t.base.Symbol(id)
	}
	return nil
}

// Owns reports whether scope id can be written through t.
func (t *Table) Owns(id ScopeID) bool { return t.scopes.Owns(id) }

// ScopeCount and SymbolCount count what this table allocated itself.
func (t *Table) ScopeCount() int  { return t.scopes.Len() }
func (t *Table) SymbolCount() int { return t.symbols.Len() }

// NewRoot allocates a scope with no outer links.
func (t *Table) NewRoot() ScopeID {
	return t.scopes.New()
}

// AddInner creates a child of scope linked with linkage. The inner link is
// recorded on the parent only when the parent belongs to t.
func (t *Table) AddInner(scope ScopeID, linkage Linkage) ScopeID {
	child := t.scopes.New()
	t.AddOuter(child, linkage, scope)
	if parent := t.scopes.Get(scope); parent != nil {
		parent.Inner = append(parent.Inner, Link{Scope: child, Linkage: linkage})
	}
	return child
}

// AddOuter links scope to outer. The "this" type is copied when the link is
// transparent or is the first outer link.
func (t *Table) AddOuter(scope ScopeID, linkage Linkage, outer ScopeID) {
	s := t.scopes.Get(scope)
	if s == nil {
		panic(fmt.Errorf("AddOuter: scope %d: %w", scope, ErrReadOnly))
	}
	s.Outer = append(s.Outer, Link{Scope: outer, Linkage: linkage})
	if linkage.IsTransparent() || len(s.Outer) == 1 {
		if o := t.Scope(outer); o != nil {
			s.This = o.This
		}
	}
}

// Parent is the first outer scope, or NoScopeID for roots.
func (t *Table) Parent(scope ScopeID) ScopeID {
	s := t.Scope(scope)
	if s == nil || len(s.Outer) == 0 {
		return NoScopeID
	}
	return s.Outer[0].Scope
}

// SetThis sets the enclosing class type of an owned scope.
func (t *Table) SetThis(scope ScopeID, this types.TypeID) {
	if s := t.scopes.Get(scope); s != nil {
		s.This = this
	}
}

// This returns the enclosing class type of scope.
func (t *Table) This(scope ScopeID) types.TypeID {
	if s := t.Scope(scope); s != nil {
		return s.This
	}
	return types.NoTypeID
}

// Insert adds sym to scope. It fails with ErrDuplicate, returning the
// existing symbol, when a symbol of the same name declared before seqLimit is
// already visible through scope's transparent chain.
func (t *Table) Insert(scope ScopeID, sym Symbol, seqLimit uint32) (SymbolID, error) {
	s := t.scopes.Get(scope)
	if s == nil {
		return NoSymbolID, fmt.Errorf("insert %q into scope %d: %w", sym.Name, scope, ErrReadOnly)
	}
	if prev, ok := t.Search(scope, sym.Name, 0, seqLimit); ok {
		return prev, ErrDuplicate
	}
	sym.Table = scope
	if !sym.Lexical.IsValid() {
		sym.Lexical = scope
	}
	id := t.symbols.New(&sym)
	s.Entries[sym.Name] = id
	s.Order = append(s.Order, id)
	return id, nil
}

// Entries lists the symbols declared directly in scope, in declaration order.
func (t *Table) Entries(scope ScopeID) []SymbolID {
	if s := t.Scope(scope); s != nil {
		return s.Order
	}
	return nil
}
