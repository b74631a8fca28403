package types

import (
	"fmt"
	"io"
)

// Describe writes a readable summary of a type: flags, bases, casts, fields
// and every overload.
func (r *Registry) Describe(w io.Writer, id TypeID) error {
	t := r.Get(id)
	if t == nil {
		return fmt.Errorf("unknown type id %d", id)
	}
	if _, err := fmt.Fprintf(w, "%s (#%d) [%s]\n", t.Name, t.ID, t.Flags); err != nil {
		return err
	}
	lists := []struct {
		label string
		ids   []TypeID
	}{
		{"bases", t.Bases},
		{"implicit", t.ImplicitCasts},
		{"explicit", t.ExplicitCasts},
	}
	for _, l := range lists {
		if len(l.ids) == 0 {
			continue
		}
		line := "  " + l.label + ":"
		for _, b := range l.ids {
			line += " " + r.Name(b)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	for _, name := range t.FieldNames() {
		ft, _ := t.Field(name)
		if _, err := fmt.Fprintf(w, "  field %s %s\n", r.Name(ft), name); err != nil {
			return err
		}
	}
	for _, name := range t.MethodNames() {
		for i := range t.Overloads(name) {
			sig := &t.Overloads(name)[i]
			prefix := "  "
			if sig.IsStatic() {
				prefix += "static "
			}
			if _, err := fmt.Fprintln(w, prefix+r.FormatSignature(name, sig)); err != nil {
				return err
			}
		}
	}
	return nil
}
