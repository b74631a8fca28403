package symbols

import (
	"errors"
	"fmt"
)

// Validate checks the arenas: links resolve and are mirrored, entries
// agree with Order and point at symbols held by the same scope. All
// problems are joined into one error.
func (t *Table) Validate() error {
	var errs []error
	for id, s := range t.scopes.all() {
		for _, l := range s.Outer {
			if t.Scope(l.Scope) == nil || l.Scope == id {
				errs = append(errs, fmt.Errorf("scope %d has invalid outer link %d", id, l.Scope))
			}
		}
		for _, l := range s.Inner {
			child := t.Scope(l.Scope)
			if child == nil {
				errs = append(errs, fmt.Errorf("scope %d has invalid inner link %d", id, l.Scope))
				continue
			}
			back := false
			for _, o := range child.Outer {
				if o.Scope == id && o.Linkage == l.Linkage {
					back = true
					break
				}
			}
			if !back {
				errs = append(errs, fmt.Errorf("scope %d inner %d missing outer backlink", id, l.Scope))
			}
		}
		if len(s.Entries) != len(s.Order) {
			errs = append(errs, fmt.Errorf("scope %d has %d entries but %d ordered symbols", id, len(s.Entries), len(s.Order)))
		}
		for name, symID := range s.Entries {
			sym := t.Symbol(symID)
			switch {
			case sym == nil:
				errs = append(errs, fmt.Errorf("scope %d entry %q has invalid symbol %d", id, name, symID))
			case sym.Table != id:
				errs = append(errs, fmt.Errorf("symbol %d (%s) held by scope %d but records table %d", symID, name, id, sym.Table))
			case sym.Name != name:
				errs = append(errs, fmt.Errorf("symbol %d is named %q but indexed as %q", symID, sym.Name, name))
			}
		}
	}
	return errors.Join(errs...)
}
