package decl

import (
	"fmt"
	"slices"
	"strings"

	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/trace"
	"github.com/foryearslater/afsim-sub009/internal/types"
)

// Options configure Build. Every field is optional.
type Options struct {
	Reporter diag.Reporter
	Tracer   trace.Tracer
}

// AppVariable is a resolved application global.
type AppVariable struct {
	Name string
	Type types.TypeID
	This bool
}

// Result is a registry seeded from declarations plus the globals the
// analysis declares before the first script statement.
type Result struct {
	Types     *types.Registry
	Variables []AppVariable
}

type classRef struct {
	class *Class
	file  source.FileID
}

type builder struct {
	reg      *types.Registry
	reporter diag.Reporter
	byName   map[string][]classRef
	pending  map[string]bool
}

// Build creates a fresh registry from sets, later sets extending earlier
// ones. Classes are initialized on first reference, so declaration order
// does not matter; problems are reported and the offending item skipped.
func Build(sets []*Set, opts Options) *Result {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	span := trace.Begin(tracer, trace.ScopePhase, "decl_build", 0)

	b := &builder{
		reg:      types.NewRegistry(nil),
		reporter: opts.Reporter,
		byName:   make(map[string][]classRef),
		pending:  make(map[string]bool),
	}
	if b.reporter == nil {
		b.reporter = diag.NopReporter{}
	}
	for _, s := range sets {
		if s == nil {
			continue
		}
		for i := range s.Classes {
			c := &s.Classes[i]
			if prev := b.byName[c.Name]; len(prev) > 0 {
				diag.ReportWarning(b.reporter, diag.DeclDuplicateClass, source.Span{File: s.File},
					fmt.Sprintf("class '%s' is declared more than once; declarations are merged", c.Name)).
					WithNote(source.Span{File: prev[0].file}, "first declared here").
					Emit()
			}
			b.byName[c.Name] = append(b.byName[c.Name], classRef{class: c, file: s.File})
			b.pending[c.Name] = true
		}
	}

	// контейнеры первыми: на них ссылаются почти все остальные
	for _, name := range []string{"Array", "Map", "Set"} {
		b.initType(name)
	}
	for _, name := range classNames(sets) {
		b.initType(name)
		b.typeRef(name)
	}

	b.applyTemplateMethods()
	b.reg.Register("void")
	b.reg.Respecialize()
	b.setContainerBases()
	b.flattenAncestors()
	for _, t := range b.reg.Types() {
		b.reg.CopyInheritedMethods(t.ID)
	}

	res := &Result{Types: b.reg}
	for _, s := range sets {
		if s == nil {
			continue
		}
		for _, v := range s.Variables {
			id, ok := b.typeRef(v.Type)
			if !ok {
				diag.ReportWarning(b.reporter, diag.DeclBadVariable, source.Span{File: s.File},
					fmt.Sprintf("application variable '%s' has unknown type '%s'", v.Name, v.Type)).Emit()
				continue
			}
			res.Variables = append(res.Variables, AppVariable{Name: v.Name, Type: id, This: v.This})
		}
	}
	span.End(fmt.Sprintf("types=%d vars=%d", b.reg.Len(), len(res.Variables)))
	return res
}

// initType applies every declaration of name once.
func (b *builder) initType(name string) {
	if !b.pending[name] {
		return
	}
	delete(b.pending, name)
	refs := b.byName[name]

	var id types.TypeID
	if strings.ContainsRune(name, '<') {
		var ok bool
		if id, ok = b.typeRef(name); !ok {
			return
		}
	} else {
		id = b.reg.Register(name)
	}

	for _, ref := range refs {
		b.applyClass(id, ref)
	}
}

func (b *builder) applyClass(id types.TypeID, ref classRef) {
	c := ref.class
	sp := source.Span{File: ref.file}
	t := b.reg.Get(id)

	if c.Struct {
		t.Flags |= types.FlagConstructible | types.FlagLessCompare | types.FlagEqualCompare
		if c.Base == "" {
			if obj, ok := b.typeRef("Object"); ok {
				t.AddInherited(obj)
			}
		}
	}
	for _, f := range []struct {
		on   bool
		flag types.Flags
	}{
		{c.Constructible, types.FlagConstructible},
		{c.Cloneable, types.FlagCloneable},
		{c.Container, types.FlagContainer},
		{c.LessCompare, types.FlagLessCompare},
		{c.EqualCompare, types.FlagEqualCompare},
	} {
		if f.on {
			t.Flags |= f.flag
		}
	}

	if c.Base != "" {
		if base, ok := b.resolve(c.Name, c.Base, sp); ok {
			t.AddInherited(base)
		}
	}
	for _, name := range c.ImplicitCast {
		if to, ok := b.resolve(c.Name, name, sp); ok {
			t.AddImplicitCast(to)
		}
	}
	for _, name := range c.ExplicitCast {
		if to, ok := b.resolve(c.Name, name, sp); ok {
			t.AddExplicitCast(to)
		}
	}

	for i := range c.Methods {
		m := &c.Methods[i]
		sig, ok := b.signature(c.Name, m, sp)
		if !ok {
			continue
		}
		t.AddMethod(m.Name, sig)
	}
	for _, f := range c.Fields {
		if ft, ok := b.resolve(c.Name, f.Type, sp); ok {
			t.AddField(f.Name, ft)
		}
	}
}

func (b *builder) signature(class string, m *Method, sp source.Span) (types.Signature, bool) {
	sig := types.Signature{Flags: types.SigAppMethod}
	if m.Static {
		sig.Flags |= types.SigStatic
	}
	if m.Varargs {
		sig.Flags |= types.SigVarargs
	}
	ret, ok := b.slot(m.Returns)
	if !ok {
		b.unknown(class+"."+m.Name, m.Returns, sp)
		return sig, false
	}
	sig.Return = ret
	for _, p := range m.Params {
		s, ok := b.slot(p)
		if !ok {
			b.unknown(class+"."+m.Name, p, sp)
			return sig, false
		}
		sig.Params = append(sig.Params, s)
	}
	return sig, true
}

// slot resolves a method slot; "1", "2" and "3" are template placeholders.
func (b *builder) slot(name string) (types.Slot, bool) {
	switch strings.TrimSpace(name) {
	case "1":
		return types.Arg(1), true
	case "2":
		return types.Arg(2), true
	case "3":
		return types.This(), true
	}
	id, ok := b.typeRef(name)
	return types.Of(id), ok
}

func (b *builder) resolve(owner, name string, sp source.Span) (types.TypeID, bool) {
	id, ok := b.typeRef(name)
	if !ok {
		b.unknown(owner, name, sp)
	}
	return id, ok
}

// typeRef finds name, initializing its declaration and those of its template
// arguments first, then instantiating it when it is generic.
func (b *builder) typeRef(name string) (types.TypeID, bool) {
	name = types.CanonicalName(name)
	base, a1, a2, n := types.SplitGenericName(name)
	b.initType(base)
	if n >= 2 {
		b.typeRef(a2)
	}
	if n >= 1 {
		b.typeRef(a1)
	}
	return b.reg.Instantiate(name)
}

func (b *builder) unknown(owner, name string, sp source.Span) {
	diag.ReportError(b.reporter, diag.DeclUnknownType, sp,
		fmt.Sprintf("unknown type '%s' in declaration of '%s'", name, owner)).Emit()
}

func (b *builder) setContainerBases() {
	var cb types.ContainerBases
	cb.Array, _ = b.reg.Instantiate("Array<Object>")
	cb.Set, _ = b.reg.Instantiate("Set<Object>")
	cb.Map, _ = b.reg.Instantiate("Map<Object,Object>")
	b.reg.SetContainerBases(cb)
}

// flattenAncestors makes every transitive base a direct one, so inheritance
// checks and the method copy see grandparents too.
func (b *builder) flattenAncestors() {
	for _, t := range b.reg.Types() {
		seen := map[types.TypeID]bool{t.ID: true}
		stack := slices.Clone(t.Bases)
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[id] {
				continue
			}
			seen[id] = true
			t.AddInherited(id)
			if bt := b.reg.Get(id); bt != nil {
				stack = append(stack, bt.Bases...)
			}
		}
	}
}
