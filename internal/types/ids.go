package types

// TypeID uniquely identifies a type inside the registry.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// PrototypeIDStart is the first id handed out to interned signatures. Type ids
// stay below it, so a symbol can carry either kind of id in one field.
const PrototypeIDStart TypeID = 1 << 20

// IsValid reports whether id refers to something.
func (id TypeID) IsValid() bool { return id != NoTypeID }

// IsPrototype reports whether id names an interned signature rather than a type.
func (id TypeID) IsPrototype() bool { return id >= PrototypeIDStart }

// Flags are type capabilities declared by class declarations.
type Flags uint8

const (
	FlagConstructible Flags = 1 << iota
	FlagCloneable
	FlagContainer
	FlagLessCompare
	FlagEqualCompare
	// FlagDynamic marks the untyped 'var' type; its values match any parameter.
	FlagDynamic
)

var flagNames = [...]struct {
	f    Flags
	name string
}{
	{FlagConstructible, "constructible"},
	{FlagCloneable, "cloneable"},
	{FlagContainer, "container"},
	{FlagLessCompare, "less_compare"},
	{FlagEqualCompare, "equal_compare"},
	{FlagDynamic, "dynamic"},
}

func (f Flags) String() string {
	if f == 0 {
		return "-"
	}
	out := ""
	for _, fn := range flagNames {
		if f&fn.f == 0 {
			continue
		}
		if out != "" {
			out += "|"
		}
		out += fn.name
	}
	return out
}
