package symbols

import "math"

type (
	// ScopeID is an index into the scope arena; 0 means none.
	ScopeID uint32
	// SymbolID is an index into the symbol arena; 0 means none.
	SymbolID uint32
)

const (
	NoScopeID  ScopeID  = 0
	NoSymbolID SymbolID = 0
)

func (id ScopeID) IsValid() bool  { return id != NoScopeID }
func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// NoSequenceLimit makes every symbol visible to a search.
const NoSequenceLimit uint32 = math.MaxUint32
