package symbols

// Search resolves name starting at scope.
//
// The transparent chain is tried first: the scope's own entries, then the
// first transparent outer link, recursively. That part ignores depth. When it
// finds nothing, the first non-transparent outer link is followed if depth is
// still positive; crossing an add-depth link costs one unit. Only symbols
// with a sequence number below seqLimit are visible.
func (t *Table) Search(scope ScopeID, name string, depth int, seqLimit uint32) (SymbolID, bool) {
	for scope.IsValid() {
		if id, ok := t.SearchTransparent(scope, name, seqLimit); ok {
			return id, true
		}
		s := t.Scope(scope)
		if s == nil {
			return NoSymbolID, false
		}
		next := NoScopeID
		for _, l := range s.Outer {
			if l.Linkage.IsTransparent() {
				continue
			}
			if depth > 0 {
				next = l.Scope
				if l.Linkage.AddsDepth() {
					depth--
				}
			}
			break
		}
		scope = next
	}
	return NoSymbolID, false
}

// SearchTransparent looks at scope's own entries and then follows only the
// first transparent outer link.
func (t *Table) SearchTransparent(scope ScopeID, name string, seqLimit uint32) (SymbolID, bool) {
	for scope.IsValid() {
		s := t.Scope(scope)
		if s == nil {
			return NoSymbolID, false
		}
		if id, ok := s.Entries[name]; ok {
			if sym := t.Symbol(id); sym != nil && sym.Visible(seqLimit) {
				return id, true
			}
		}
		next := NoScopeID
		for _, l := range s.Outer {
			if l.Linkage.IsTransparent() {
				next = l.Scope
				break
			}
		}
		scope = next
	}
	return NoSymbolID, false
}

// Visible lists every symbol Search could return from scope with the same
// depth and limit, nearest declaration first. Shadowed names appear once.
func (t *Table) Visible(scope ScopeID, depth int, seqLimit uint32) []SymbolID {
	seen := make(map[string]struct{})
	var out []SymbolID
	collect := func(s *Scope) {
		for _, id := range s.Order {
			sym := t.Symbol(id)
			if sym == nil || !sym.Visible(seqLimit) {
				continue
			}
			if _, dup := seen[sym.Name]; dup {
				continue
			}
			seen[sym.Name] = struct{}{}
			out = append(out, id)
		}
	}
	for scope.IsValid() {
		for cur := scope; cur.IsValid(); {
			s := t.Scope(cur)
			if s == nil {
				break
			}
			collect(s)
			next := NoScopeID
			for _, l := range s.Outer {
				if l.Linkage.IsTransparent() {
					next = l.Scope
					break
				}
			}
			cur = next
		}
		s := t.Scope(scope)
		if s == nil {
			break
		}
		next := NoScopeID
		for _, l := range s.Outer {
			if l.Linkage.IsTransparent() {
				continue
			}
			if depth > 0 {
				next = l.Scope
				if l.Linkage.AddsDepth() {
					depth--
				}
			}
			break
		}
		scope = next
	}
	return out
}

// IsInheriting reports whether ancestor is reachable from scope through
// outer links of any kind.
func (t *Table) IsInheriting(scope, ancestor ScopeID) bool {
	seen := make(map[ScopeID]bool)
	var walk func(ScopeID) bool
	walk = func(id ScopeID) bool {
		if id == ancestor {
			return true
		}
		if seen[id] {
			return false
		}
		seen[id] = true
		s := t.Scope(id)
		if s == nil {
			return false
		}
		for _, l := range s.Outer {
			if walk(l.Scope) {
				return true
			}
		}
		return false
	}
	return walk(scope)
}
