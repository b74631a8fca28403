package sema

import (
	"fmt"

	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/symbols"
	"github.com/foryearslater/afsim-sub009/internal/token"
	"github.com/foryearslater/afsim-sub009/internal/types"
)

// BlockKind says what kind of statement opened a context.
type BlockKind uint8

const (
	BlockScript BlockKind = iota
	BlockNormal
	BlockWhile
	BlockDo
	BlockFor
	BlockForeach
)

func (b BlockKind) String() string {
	switch b {
	case BlockScript:
		return "script"
	case BlockWhile:
		return "while"
	case BlockDo:
		return "do"
	case BlockFor:
		return "for"
	case BlockForeach:
		return "foreach"
	default:
		return "block"
	}
}

// VarFlags modify a variable declaration.
type VarFlags uint8

const (
	VarLocal VarFlags = 1 << iota
	VarStatic
	VarGlobal
	VarExtern
	VarTemporary
	VarParameter
)

// Context is the active cursor through the scope graph.
type Context struct {
	s       *Session
	parent  *Context
	scope   symbols.ScopeID
	funcDef symbols.SymbolID

	// GlobalVarMode turns every declaration made through this context into a
	// global one.
	GlobalVarMode bool
	allowGlobals  bool
	seqLimit      uint32
	block         BlockKind
	temporary     bool
	ended         bool
}

func (c *Context) Session() *Session              { return c.s }
func (c *Context) Scope() symbols.ScopeID         { return c.scope }
func (c *Context) Parent() *Context               { return c.parent }
func (c *Context) SequenceLimit() uint32          { return c.seqLimit }
func (c *Context) Block() BlockKind               { return c.block }
func (c *Context) SetBlockType(b BlockKind)       { c.block = b }
func (c *Context) IsTemporary() bool              { return c.temporary }
func (c *Context) AllowGlobals() bool             { return c.allowGlobals }
func (c *Context) ScriptSymbol() symbols.SymbolID { return c.funcDef }

// Enter opens a child scope linked to c's scope with linkage.
func (c *Context) Enter(linkage symbols.Linkage) *Context {
	child := &Context{
		s:            c.s,
		parent:       c,
		scope:        c.s.table.AddInner(c.scope, linkage),
		allowGlobals: c.allowGlobals,
		seqLimit:     c.seqLimit,
		block:        BlockNormal,
		temporary:    c.temporary,
	}
	c.s.pushScope(child.scope)
	return child
}

// End closes the context. A context that defined a script reports the
// finished body first. Calling End twice is a no-op.
func (c *Context) End() {
	if c.ended {
		return
	}
	c.ended = true
	if c.funcDef.IsValid() && c.s.disp.obs != nil {
		c.s.disp.obs.ScriptDefinition(c.scope, c.s.table.Symbol(c.funcDef))
	}
	c.s.popScope(c.scope)
}

// ScriptContext returns the nearest enclosing script-block context: the
// script body, or the document root for top-level statements.
func (c *Context) ScriptContext() *Context {
	for cur := c; cur != nil; cur = cur.parent {
		if cur.block == BlockScript {
			return cur
		}
	}
	return nil
}

// SetThisType makes ty the implicit receiver inside c's scope.
func (c *Context) SetThisType(ty types.TypeID) {
	c.s.table.SetThis(c.scope, ty)
}

// BeginStatement notifies the observer that a statement starts.
func (c *Context) BeginStatement() {
	if c.s.disp.stmt != nil {
		c.s.disp.stmt.AtStatement()
	}
}

func (c *Context) BeginCall(fn Value, pos uint32) {
	if c.s.disp.call != nil {
		c.s.disp.call.BeginCall(fn, pos)
	}
}

func (c *Context) EndCall(fn Value, pos uint32) {
	if c.s.disp.call != nil {
		c.s.disp.call.EndCall(fn, pos)
	}
}

func (c *Context) CallArgNext(pos uint32) {
	if c.s.disp.call != nil {
		c.s.disp.call.CallArgNext(pos)
	}
}

func (c *Context) AtDotType(ty types.TypeID, pos uint32) {
	if c.s.disp.dot != nil {
		c.s.disp.dot.AtDotType(ty, pos)
	}
}

func (c *Context) AtDotValue(v Value, pos uint32) {
	if c.s.disp.dot != nil {
		c.s.disp.dot.AtDotValue(v, pos)
	}
}

func (c *Context) HitEOF() {
	if c.s.disp.obs != nil {
		c.s.disp.obs.HitEOF()
	}
}

// lookup searches name from c's scope with the default depth.
func (c *Context) lookup(name string) (symbols.SymbolID, bool) {
	return c.s.table.Search(c.scope, name, DefaultSearchDepth, c.seqLimit)
}

// Lookup resolves name the way identifiers are resolved, without side effects.
func (c *Context) Lookup(name string) (*symbols.Symbol, bool) {
	id, ok := c.lookup(name)
	if !ok {
		return nil, false
	}
	return c.s.table.Symbol(id), true
}

func (c *Context) typeName(id types.TypeID) string {
	if !id.IsValid() {
		return "No Type"
	}
	return c.s.types.Name(id)
}

func (c *Context) semErr(code diag.Code, sp source.Span, format string, args ...any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	diag.ReportError(c.s.reporter, code, sp, msg).Emit()
}

func (c *Context) specialToken(kind SpecialTokenKind, tok token.Token) {
	c.s.disp.specialToken(kind, tok)
}
