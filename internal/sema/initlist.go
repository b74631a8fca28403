package sema

import (
	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/types"
)

// NewInitList starts a brace literal.
func (c *Context) NewInitList(sp source.Span) Value {
	return Value{Kind: ValueInitList, List: &InitList{}, Span: sp}
}

// AddToInitList appends "p1" or, with p2, "p1 : p2" to list. All entries
// must agree on having a key.
func (c *Context) AddToInitList(list Value, p1 Value, p2 *Value, sp source.Span) {
	if !list.IsInitList() {
		return
	}
	e := InitEntry{Val: p1}
	if p2 != nil {
		e = InitEntry{Key: p1, Val: *p2, HasKey: true}
	}
	l := list.List
	if len(l.Entries) > 0 {
		switch {
		case l.Keyed() && !e.HasKey:
			c.semErr(diag.SemaInitList, sp, "No key specified")
		case !l.Keyed() && e.HasKey:
			c.semErr(diag.SemaInitList, sp, "Initializer entry has key, unlike earlier entries.")
		}
	}
	l.Entries = append(l.Entries, e)
}

// RealizeContainer gives a brace literal its type.
//
// With a target, every value (and key, for maps) is cast to the target's
// element types; a target that is not a container must be constructible.
// Without one the most specific container is inferred: Array<T> or
// Map<K,T>, where T and K fall back to Object as soon as two entries
// disagree, and Array<Object> for an empty literal.
func (c *Context) RealizeContainer(v Value, target types.TypeID, sp source.Span) Value {
	if !v.IsInitList() {
		return v
	}
	entries := v.List.Entries
	reg := c.s.types

	if target.IsValid() {
		tt := reg.Get(target)
		if tt == nil {
			return Value{}
		}
		key, val := containerKey(tt), containerValue(tt)
		switch {
		case val.IsValid():
			for _, e := range entries {
				c.ImplicitCast(e.Val, val, e.Val.Span)
				if key.IsValid() {
					c.ImplicitCast(e.Key, key, e.Key.Span)
				}
			}
		case !tt.Has(types.FlagConstructible):
			c.semErr(diag.SemaNotConstructible, sp, "Type not constructible.")
		}
		return Typed(target).At(sp)
	}

	if len(entries) == 0 {
		id, _ := reg.Instantiate("Array<Object>")
		return Typed(id).At(sp)
	}
	for i := range entries {
		if entries[i].Val.IsInitList() {
			entries[i].Val = c.RealizeContainer(entries[i].Val, types.NoTypeID, entries[i].Val.Span)
		}
	}
	val := entries[0].Val.Type
	if !val.IsValid() {
		return Value{}
	}
	for _, e := range entries[1:] {
		if e.Val.Type != val {
			val = c.s.builtins.Object
			break
		}
	}
	var key types.TypeID
	if entries[0].HasKey {
		key = entries[0].Key.Type
		for _, e := range entries[1:] {
			if e.Key.Type != key {
				key = c.s.builtins.Object
				break
			}
		}
	}

	baseName, a1, a2 := "Array", val, types.NoTypeID
	if key.IsValid() {
		baseName, a1, a2 = "Map", key, val
	}
	base, ok := reg.Find(baseName)
	if !ok {
		return Value{}
	}
	id, ok := reg.InstantiateArgs(base, a1, a2)
	if !ok {
		return Value{}
	}
	return Typed(id).At(sp)
}

// containerValue is the element type: the second argument of a two-argument
// container, the first otherwise.
func containerValue(t *types.Type) types.TypeID {
	if t == nil {
		return types.NoTypeID
	}
	if t.Args[1].IsValid() {
		return t.Args[1]
	}
	return t.Args[0]
}

// containerKey is the key type of a two-argument container.
func containerKey(t *types.Type) types.TypeID {
	if t == nil || !t.Args[1].IsValid() {
		return types.NoTypeID
	}
	return t.Args[0]
}
