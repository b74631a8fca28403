package sema

import (
	"fmt"

	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/symbols"
	"github.com/foryearslater/afsim-sub009/internal/trace"
	"github.com/foryearslater/afsim-sub009/internal/types"
)

// FirstSequence is the first sequence number handed out by a session.
// Mirrors number their own declarations from 1, which keeps them below any
// limit taken from the base session.
const FirstSequence uint32 = 1 << 20

// DefaultSearchDepth bounds identifier lookups through nested scopes.
const DefaultSearchDepth = 100

// Config wires a session to its collaborators. Every field is optional.
type Config struct {
	Observer Observer
	Reporter diag.Reporter
	Tracer   trace.Tracer
	Hints    symbols.Hints
}

// Builtins are the well-known type ids every action relies on.
type Builtins struct {
	Null, Void, Var, Bool, Int, Double, String, Char, Object types.TypeID
	// Builtin holds free functions callable without a receiver; may be NoTypeID.
	Builtin types.TypeID
}

// Session is the state shared by every context of one analysis.
type Session struct {
	types    *types.Registry
	table    *symbols.Table
	builtins Builtins
	seq      uint32
	seqEnd   uint32 // exclusive bound for mirrors, 0 otherwise
	disp     dispatch
	reporter diag.Reporter
	tracer   trace.Tracer
	base     *Session
}

// NewSession starts an analysis over reg. Missing built-in types are
// registered so that literals always have a type.
func NewSession(reg *types.Registry, cfg Config) *Session {
	if reg == nil {
		reg = types.NewRegistry(nil)
	}
	s := &Session{
		types: reg,
		table: symbols.NewTable(cfg.Hints),
		seq:   FirstSequence - 1,
	}
	s.builtins = Builtins{
		Null:   reg.Register("null"),
		Void:   reg.Register("void"),
		Var:    reg.Register("var"),
		Bool:   reg.Register("bool"),
		Int:    reg.Register("int"),
		Double: reg.Register("double"),
		String: reg.Register("string"),
		Char:   reg.Register("char"),
		Object: reg.Register("Object"),
	}
	reg.Get(s.builtins.Var).Flags |= types.FlagDynamic
	if id, ok := reg.Find("__BUILTIN__"); ok {
		s.builtins.Builtin = id
	}
	s.configure(cfg)
	return s
}

func (s *Session) configure(cfg Config) {
	s.disp = newDispatch(cfg.Observer)
	s.reporter = cfg.Reporter
	if s.reporter == nil {
		s.reporter = diag.NopReporter{}
	}
	s.tracer = cfg.Tracer
	if s.tracer == nil {
		s.tracer = trace.Nop
	}
}

func (s *Session) Types() *types.Registry { return s.types }
func (s *Session) Table() *symbols.Table  { return s.table }
func (s *Session) Builtins() Builtins     { return s.builtins }

// IsMirror reports whether the session is an overlay over another session.
func (s *Session) IsMirror() bool { return s.base != nil }

// Sequence returns the last sequence number handed out.
func (s *Session) Sequence() uint32 { return s.seq }

func (s *Session) nextSequence() uint32 {
	if s.seqEnd != 0 && s.seq+1 >= s.seqEnd {
		// mirror ran out of numbers below its limit; stay visible
		return s.seqEnd - 1
	}
	s.seq++
	return s.seq
}

// Root opens the document scope. It is a script block with globals enabled
// and no sequence limit.
func (s *Session) Root() *Context {
	c := &Context{
		s:            s,
		scope:        s.table.NewRoot(),
		allowGlobals: true,
		seqLimit:     symbols.NoSequenceLimit,
		block:        BlockScript,
	}
	s.pushScope(c.scope)
	return c
}

// NewMirror creates a context for re-analyzing one block of base in
// isolation. The context's scope is linked transparently to scope and, past
// it, to scope's own enclosing chain with the same linkage, so lookups see
// what scope sees. Only symbols with a sequence number below seqLimit are
// visible. Writes go to a private overlay table, so base is never modified.
// Globals are disabled.
//
// The mirror shares base's type registry; generic instantiations it triggers
// are appended there. Observer, reporter and tracer come from cfg.
func NewMirror(base *Session, scope symbols.ScopeID, seqLimit uint32, cfg Config) *Context {
	if base.table.Scope(scope) == nil {
		panic(fmt.Errorf("mirror of unknown scope %d", scope))
	}
	s := &Session{
		types:    base.types,
		table:    symbols.NewOverlay(base.table),
		builtins: base.builtins,
		seqEnd:   seqLimit,
		base:     base,
	}
	s.configure(cfg)
	root := s.table.NewRoot()
	s.table.AddOuter(root, symbols.TransparentCopy, scope)
	// прозрачный поиск останавливается на scope; дальше идём его связью
	for _, l := range base.table.Scope(scope).Outer {
		if !l.Linkage.IsTransparent() {
			s.table.AddOuter(root, l.Linkage, l.Scope)
			break
		}
	}
	c := &Context{
		s:         s,
		scope:     root,
		seqLimit:  seqLimit,
		block:     BlockScript,
		temporary: true,
	}
	s.pushScope(root)
	return c
}

func (s *Session) pushScope(scope symbols.ScopeID) {
	trace.Point(s.tracer, trace.ScopeNode, "push_scope", fmt.Sprintf("scope=%d", scope))
	if s.disp.obs != nil {
		s.disp.obs.PushScope(scope)
	}
}

func (s *Session) popScope(scope symbols.ScopeID) {
	trace.Point(s.tracer, trace.ScopeNode, "pop_scope", fmt.Sprintf("scope=%d", scope))
	if s.disp.obs != nil {
		s.disp.obs.PopScope(scope)
	}
}
