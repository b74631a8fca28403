package source

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
)

type StringID uint32

// NoStringID is the id of "".
const NoStringID StringID = 0

// Interner maps identifier and type-name text to dense ids. Text is NFC
// normalized first, so one identifier typed with different compositions
// gets one id.
type Interner struct {
	strs []string
	ids  map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{strs: []string{""}, ids: map[string]StringID{"": NoStringID}}
}

func canonical(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// Intern returns the id of s, adding it when new.
func (in *Interner) Intern(s string) StringID {
	if id, ok := in.ids[s]; ok {
		return id
	}
	s = canonical(s)
	if id, ok := in.ids[s]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(in.strs))
	if err != nil {
		panic(fmt.Errorf("interner overflow: %w", err))
	}
	// копия, чтобы не держать чужой буфер
	s = string([]byte(s))
	in.strs = append(in.strs, s)
	in.ids[s] = StringID(n)
	return StringID(n)
}

func (in *Interner) InternBytes(b []byte) StringID { return in.Intern(string(b)) }

// Find looks s up without adding it.
func (in *Interner) Find(s string) (StringID, bool) {
	if id, ok := in.ids[s]; ok {
		return id, true
	}
	id, ok := in.ids[canonical(s)]
	return id, ok
}

func (in *Interner) Lookup(id StringID) (string, bool) {
	if !in.Has(id) {
		return "", false
	}
	return in.strs[id], true
}

// MustLookup panics on an unknown id.
func (in *Interner) MustLookup(id StringID) string {
	if s, ok := in.Lookup(id); ok {
		return s
	}
	panic(fmt.Sprintf("invalid string ID %d", id))
}

func (in *Interner) Has(id StringID) bool { return int(id) < len(in.strs) }

// Len counts NoStringID too.
func (in *Interner) Len() int { return len(in.strs) }

func (in *Interner) Snapshot() []string { return slices.Clone(in.strs) }
