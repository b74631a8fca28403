package index

import (
	"slices"

	"github.com/foryearslater/afsim-sub009/internal/sema"
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/symbols"
	"github.com/foryearslater/afsim-sub009/internal/token"
	"github.com/foryearslater/afsim-sub009/internal/types"
)

// NoCursor disables cursor tracking.
const NoCursor = ^uint32(0)

// Highlight is one classified identifier.
type Highlight struct {
	Kind sema.SpecialTokenKind
	Span source.Span
}

// Declaration is a variable declared during the analysis.
type Declaration struct {
	Name    string
	Type    types.TypeID
	Storage symbols.StorageClass
	Span    source.Span
	Seq     uint32
	Scope   symbols.ScopeID
}

// ScriptDef is a finished script body.
type ScriptDef struct {
	Name   string
	Symbol *symbols.Symbol
	Body   symbols.ScopeID
	Extent ScopeExtent
}

// ScopeExtent is the byte range a scope was observed to cover. Start and End
// come from the positions reported while the scope was open, so blank space
// around the first and last token is not included.
type ScopeExtent struct {
	Scope      symbols.ScopeID
	Start, End uint32
	Depth      int
}

// Contains reports whether off falls inside the extent.
func (e ScopeExtent) Contains(off uint32) bool {
	return e.Start <= off && off <= e.End
}

// CallFrame is an argument list being parsed. Close is NoCursor while the
// list is open; Arg counts the commas between Open and the cursor.
type CallFrame struct {
	Fn    sema.Value
	Open  uint32
	Close uint32
	Arg   int
}

// Receiver is the value or type left of a '.'.
type Receiver struct {
	Pos    uint32
	Type   types.TypeID
	Value  sema.Value
	Static bool
}

// Detail is an Observer that records everything an editor needs about one
// file. It is not safe for concurrent use.
type Detail struct {
	file   source.FileID
	cursor uint32

	stack    []ScopeExtent
	extents  []ScopeExtent
	lastSeen uint32

	Highlights   []Highlight
	Declarations []Declaration
	Scripts      []ScriptDef
	Statements   int

	calls     []CallFrame
	abandoned []CallFrame
	atCall    *CallFrame
	dot       *Receiver
	eof       bool
}

var (
	_ sema.Observer          = (*Detail)(nil)
	_ sema.TokenObserver     = (*Detail)(nil)
	_ sema.DotObserver       = (*Detail)(nil)
	_ sema.CallObserver      = (*Detail)(nil)
	_ sema.StatementObserver = (*Detail)(nil)
)

// NewDetail returns an observer for file; cursor is a byte offset or NoCursor.
func NewDetail(file source.FileID, cursor uint32) *Detail {
	return &Detail{file: file, cursor: cursor}
}

func (d *Detail) Cursor() uint32 { return d.cursor }

// Finished reports whether the parser reached the end of the input.
func (d *Detail) Finished() bool { return d.eof }

// see продвигает последнюю известную позицию; чужие файлы не учитываются.
func (d *Detail) see(sp source.Span) {
	if sp.File != d.file {
		return
	}
	d.seePos(sp.End)
}

func (d *Detail) seePos(pos uint32) {
	if pos > d.lastSeen {
		d.lastSeen = pos
	}
	// брошенный вызов тянется до следующей известной позиции
	for _, f := range d.abandoned {
		f.Close = pos
		d.consider(f)
	}
	d.abandoned = d.abandoned[:0]
}

func (d *Detail) PushScope(scope symbols.ScopeID) {
	d.stack = append(d.stack, ScopeExtent{Scope: scope, Start: d.lastSeen, Depth: len(d.stack)})
}

func (d *Detail) PopScope(scope symbols.ScopeID) {
	for i := len(d.stack) - 1; i >= 0; i-- {
		if d.stack[i].Scope != scope {
			continue
		}
		ext := d.stack[i]
		ext.End = d.lastSeen
		d.extents = append(d.extents, ext)
		d.stack = d.stack[:i]
		return
	}
}

func (d *Detail) VarDecl(sym *symbols.Symbol, tok token.Token) {
	d.see(tok.Span)
	d.Declarations = append(d.Declarations, Declaration{
		Name:    sym.Name,
		Type:    sym.Type,
		Storage: sym.Storage,
		Span:    tok.Span,
		Seq:     sym.Seq,
		Scope:   sym.Table,
	})
}

func (d *Detail) ScriptDefinition(body symbols.ScopeID, sym *symbols.Symbol) {
	def := ScriptDef{Name: sym.Name, Symbol: sym, Body: body}
	for i := len(d.stack) - 1; i >= 0; i-- {
		if d.stack[i].Scope == body {
			def.Extent = d.stack[i]
			def.Extent.End = d.lastSeen
			break
		}
	}
	d.Scripts = append(d.Scripts, def)
}

func (d *Detail) HitEOF() {
	d.eof = true
	d.abandonCalls()
	for _, f := range d.abandoned {
		d.consider(f)
	}
	d.abandoned = nil
}

func (d *Detail) SpecialToken(kind sema.SpecialTokenKind, tok token.Token) {
	d.see(tok.Span)
	if tok.Span.File != d.file {
		return
	}
	d.Highlights = append(d.Highlights, Highlight{Kind: kind, Span: tok.Span})
}

func (d *Detail) AtDotType(ty types.TypeID, pos uint32) {
	d.seePos(pos)
	if pos < d.cursor {
		d.dot = &Receiver{Pos: pos, Type: ty, Static: true}
	}
}

func (d *Detail) AtDotValue(v sema.Value, pos uint32) {
	d.seePos(pos)
	if pos < d.cursor {
		d.dot = &Receiver{Pos: pos, Type: v.Type, Value: v}
	}
}

func (d *Detail) BeginCall(fn sema.Value, pos uint32) {
	d.seePos(pos)
	d.calls = append(d.calls, CallFrame{Fn: fn, Open: pos, Close: NoCursor})
}

func (d *Detail) CallArgNext(pos uint32) {
	d.seePos(pos)
	if n := len(d.calls); n > 0 && pos < d.cursor {
		d.calls[n-1].Arg++
	}
}

func (d *Detail) EndCall(_ sema.Value, pos uint32) {
	d.seePos(pos)
	n := len(d.calls)
	if n == 0 {
		return
	}
	f := d.calls[n-1]
	d.calls = d.calls[:n-1]
	f.Close = pos
	d.consider(f)
}

// AtStatement: незакрытые к началу оператора вызовы брошены из-за
// синтаксической ошибки.
func (d *Detail) AtStatement() {
	d.Statements++
	d.abandonCalls()
}

func (d *Detail) abandonCalls() {
	d.abandoned = append(d.abandoned, d.calls...)
	d.calls = d.calls[:0]
}

// consider запоминает самый внутренний вызов, охватывающий курсор.
func (d *Detail) consider(f CallFrame) {
	if f.Open >= d.cursor || f.Close < d.cursor {
		return
	}
	if d.atCall == nil || f.Open > d.atCall.Open {
		fc := f
		d.atCall = &fc
	}
}

// CallAtCursor returns the innermost argument list around the cursor.
func (d *Detail) CallAtCursor() (CallFrame, bool) {
	if d.atCall == nil {
		return CallFrame{}, false
	}
	return *d.atCall, true
}

// DotReceiver returns the last receiver before the cursor.
func (d *Detail) DotReceiver() (Receiver, bool) {
	if d.dot == nil {
		return Receiver{}, false
	}
	return *d.dot, true
}

// Extents lists every closed scope in closing order.
func (d *Detail) Extents() []ScopeExtent { return d.extents }

// ScopeAt returns the innermost scope whose extent contains off. Scopes still
// open, such as the document root, extend to the end of input.
func (d *Detail) ScopeAt(off uint32) (symbols.ScopeID, bool) {
	best := ScopeExtent{Depth: -1}
	pick := func(e ScopeExtent) {
		if e.Contains(off) && e.Depth > best.Depth {
			best = e
		}
	}
	for _, e := range d.extents {
		pick(e)
	}
	for _, e := range d.stack {
		e.End = NoCursor
		pick(e)
	}
	if best.Depth < 0 {
		return symbols.NoScopeID, false
	}
	return best.Scope, true
}

// Script returns the definition of name.
func (d *Detail) Script(name string) (ScriptDef, bool) {
	i := slices.IndexFunc(d.Scripts, func(s ScriptDef) bool { return s.Name == name })
	if i < 0 {
		return ScriptDef{}, false
	}
	return d.Scripts[i], true
}
