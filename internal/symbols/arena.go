package symbols

import (
	"fmt"
	"iter"

	"fortio.org/safecast"
)

// arena хранит значения подряд; id = offset + индекс. У базовой арены
// offset 0 и слот 0 занят нулевым значением, чтобы id 0 оставался "нет".
// Оверлей начинает с offset = следующий id базы.
type arena[T any, ID ~uint32] struct {
	data   []T
	offset uint32
}

func newArena[T any, ID ~uint32](capacity, def uint32) arena[T, ID] {
	if capacity == 0 {
		capacity = def
	}
	return arena[T, ID]{data: make([]T, 1, capacity+1)}
}

func overlayArena[T any, ID ~uint32](offset uint32) arena[T, ID] {
	return arena[T, ID]{data: make([]T, 0, 8), offset: offset}
}

func (a *arena[T, ID]) alloc(v T, what string) ID {
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil || n > ^uint32(0)-a.offset {
		panic(fmt.Errorf("%s arena overflow: %w", what, err))
	}
	a.data = append(a.data, v)
	return ID(a.offset + n)
}

func (a *arena[T, ID]) get(id ID) *T {
	if id == 0 || uint32(id) < a.offset {
		return nil
	}
	if idx := uint32(id) - a.offset; int(idx) < len(a.data) {
		return &a.data[idx]
	}
	return nil
}

// all обходит выделенные значения, пропуская нулевой слот.
func (a *arena[T, ID]) all() iter.Seq2[ID, *T] {
	return func(yield func(ID, *T) bool) {
		for i := range a.data {
			if a.offset == 0 && i == 0 {
				continue
			}
			if !yield(ID(a.offset+uint32(i)), &a.data[i]) { // #nosec G115 -- bounded by alloc
				return
			}
		}
	}
}

func (a *arena[T, ID]) next() uint32 { return a.offset + uint32(len(a.data)) } // #nosec G115 -- bounded by alloc

func (a *arena[T, ID]) count() int {
	if a.offset == 0 {
		return len(a.data) - 1
	}
	return len(a.data)
}

// Scopes is the scope arena of a Table.
type Scopes struct{ arena[Scope, ScopeID] }

// NewScopes creates a base arena; capacity 0 picks a default.
func NewScopes(capacity uint32) *Scopes {
	return &Scopes{newArena[Scope, ScopeID](capacity, 32)}
}

func newScopesAt(offset uint32) *Scopes {
	return &Scopes{overlayArena[Scope, ScopeID](offset)}
}

// New allocates an empty scope.
func (s *Scopes) New() ScopeID {
	return s.alloc(Scope{Entries: make(map[string]SymbolID)}, "scopes")
}

// Get returns nil for ids outside this arena.
func (s *Scopes) Get(id ScopeID) *Scope { return s.get(id) }

// Owns reports whether id was allocated here.
func (s *Scopes) Owns(id ScopeID) bool { return s.get(id) != nil }

func (s *Scopes) Len() int { return s.count() }

// Symbols is the symbol arena of a Table.
type Symbols struct{ arena[Symbol, SymbolID] }

func NewSymbols(capacity uint32) *Symbols {
	return &Symbols{newArena[Symbol, SymbolID](capacity, 64)}
}

func newSymbolsAt(offset uint32) *Symbols {
	return &Symbols{overlayArena[Symbol, SymbolID](offset)}
}

// New copies sym into the arena.
func (s *Symbols) New(sym *Symbol) SymbolID {
	if sym == nil {
		panic("symbols.New: nil symbol")
	}
	return s.alloc(*sym, "symbols")
}

func (s *Symbols) Get(id SymbolID) *Symbol { return s.get(id) }

func (s *Symbols) Len() int { return s.count() }
