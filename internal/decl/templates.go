package decl

import (
	"github.com/foryearslater/afsim-sub009/internal/types"
)

// templateMethod rewrites the slots of a generic container method. Class
// declarations describe these methods with Object in place of the template
// arguments; "1", "2" and "3" name the first argument, the second one and
// the instantiated type.
type templateMethod struct {
	class, ret, name string
	params           []string
}

var templateMethods = []templateMethod{
	{"Array", "1", "Get", []string{"int"}},
	{"Array", "void", "Set", []string{"int", "1"}},
	{"Array", "void", "PushBack", []string{"1"}},
	{"Array", "1", "Front", nil},
	{"Array", "1", "Back", nil},
	{"Map", "void", "Set", []string{"1", "2"}},
	{"Map", "2", "Get", []string{"1"}},
	{"Map", "1", "ElementKeyAtIndex", []string{"int"}},
	{"Map", "void", "__Insert", []string{"1", "2"}},
	{"Set", "void", "Insert", []string{"1"}},
	{"Set", "3", "Union", []string{"3"}},
	{"Set", "3", "Difference", []string{"3"}},
	{"Set", "3", "Intersection", []string{"3"}},
	{"Set", "void", "__Insert", []string{"1"}},
}

// applyTemplateMethods patches the first overload of each listed method.
// A method the declarations do not mention is added as listed.
func (b *builder) applyTemplateMethods() {
	for _, tm := range templateMethods {
		id, ok := b.reg.Find(tm.class)
		if !ok {
			continue
		}
		t := b.reg.Get(id)
		ret, ok := b.slot(tm.ret)
		if !ok {
			continue
		}
		overloads := t.Overloads(tm.name)
		if len(overloads) == 0 {
			sig := types.Signature{Flags: types.SigAppMethod, Return: ret}
			for _, p := range tm.params {
				s, ok := b.slot(p)
				if !ok {
					break
				}
				sig.Params = append(sig.Params, s)
			}
			if len(sig.Params) == len(tm.params) {
				t.AddMethod(tm.name, sig)
			}
			continue
		}
		fn := &overloads[0]
		fn.Return = ret
		for i := 0; i < len(fn.Params) && i < len(tm.params); i++ {
			if s, ok := b.slot(tm.params[i]); ok {
				fn.Params[i] = s
			}
		}
	}
}
