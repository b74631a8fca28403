package types

import (
	"strings"
	"unicode"
)

// CanonicalName drops all whitespace, so "Map< string , int >" and
// "Map<string,int>" name the same type.
func CanonicalName(name string) string {
	if !strings.ContainsFunc(name, unicode.IsSpace) {
		return name
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
}

// SplitGenericName splits "Base<A1[,A2]>" into its parts. Nested brackets in
// the arguments are kept whole and only a top-level comma separates A1 from
// A2. n is the number of arguments found; n == 0 means name is not a
// well-formed generic name.
func SplitGenericName(name string) (base, arg1, arg2 string, n int) {
	name = CanonicalName(name)
	open := strings.IndexByte(name, '<')
	if open <= 0 || !strings.HasSuffix(name, ">") {
		return name, "", "", 0
	}
	base = name[:open]
	inner := name[open+1 : len(name)-1]

	depth, comma := 0, -1
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth < 0 {
				return name, "", "", 0
			}
		case ',':
			if depth == 0 {
				if comma >= 0 {
					// more than two arguments
					return name, "", "", 0
				}
				comma = i
			}
		}
	}
	if depth != 0 {
		return name, "", "", 0
	}
	if comma < 0 {
		if inner == "" {
			return name, "", "", 0
		}
		return base, inner, "", 1
	}
	arg1, arg2 = inner[:comma], inner[comma+1:]
	if arg1 == "" || arg2 == "" {
		return name, "", "", 0
	}
	return base, arg1, arg2, 2
}

// GenericName builds the display name of an instantiation.
func GenericName(base, arg1, arg2 string) string {
	if arg2 == "" {
		return base + "<" + arg1 + ">"
	}
	return base + "<" + arg1 + "," + arg2 + ">"
}
