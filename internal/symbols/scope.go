package symbols

import (
	"github.com/foryearslater/afsim-sub009/internal/types"
)

// Linkage tags the edge between a scope and one of its outer scopes.
type Linkage uint8

const (
	// LinkOpenNewScope makes the edge opaque to transparent search.
	LinkOpenNewScope Linkage = 1 << iota
	// LinkAddDepth makes following the edge cost one unit of search depth.
	LinkAddDepth
)

const (
	// TransparentCopy shares the outer scope's entries as if they were local.
	TransparentCopy Linkage = 0
	// LocalScope is a nested block inside the same script.
	LocalScope = LinkOpenNewScope
	// NewScope starts a new script body; reaching past it costs depth.
	NewScope = LinkOpenNewScope | LinkAddDepth
)

func (l Linkage) String() string {
	switch l {
	case TransparentCopy:
		return "transparent"
	case LocalScope:
		return "local"
	case NewScope:
		return "new"
	case LinkAddDepth:
		return "add-depth"
	default:
		return "invalid"
	}
}

// IsTransparent reports whether l is a transparent-copy edge.
func (l Linkage) IsTransparent() bool { return l == TransparentCopy }

// AddsDepth reports whether following l costs one unit of search depth.
func (l Linkage) AddsDepth() bool { return l&LinkAddDepth != 0 }

// Link is a directed edge to another scope.
type Link struct {
	Scope   ScopeID
	Linkage Linkage
}

// Scope is a name table plus its links. The first outer link is the parent
// scope, where globals declared from inside this scope go.
type Scope struct {
	Entries map[string]SymbolID
	Order   []SymbolID
	Outer   []Link
	Inner   []Link
	// This is the enclosing class type, inherited from the first outer link
	// or from any transparent link.
	This types.TypeID
}
