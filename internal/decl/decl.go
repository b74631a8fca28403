package decl

import (
	"github.com/foryearslater/afsim-sub009/internal/source"
)

// Set is one declaration document.
type Set struct {
	// Name is the path or label the set was read from.
	Name      string        `toml:"-" msgpack:"name"`
	File      source.FileID `toml:"-" msgpack:"-"`
	Classes   []Class       `toml:"class" msgpack:"classes"`
	Variables []Variable    `toml:"variable" msgpack:"variables"`
}

// Class declares one application type. Generic bases (Array, Map, Set) use
// "1", "2" and "3" in method slots for the first template argument, the
// second one and the instantiated type itself.
type Class struct {
	Name          string   `toml:"name" msgpack:"name"`
	Struct        bool     `toml:"struct" msgpack:"struct"`
	Constructible bool     `toml:"constructible" msgpack:"constructible"`
	Cloneable     bool     `toml:"cloneable" msgpack:"cloneable"`
	Container     bool     `toml:"container" msgpack:"container"`
	LessCompare   bool     `toml:"less_compare" msgpack:"less_compare"`
	EqualCompare  bool     `toml:"equal_compare" msgpack:"equal_compare"`
	Base          string   `toml:"base" msgpack:"base"`
	ImplicitCast  []string `toml:"implicit_cast" msgpack:"implicit_cast"`
	ExplicitCast  []string `toml:"explicit_cast" msgpack:"explicit_cast"`
	Methods       []Method `toml:"method" msgpack:"methods"`
	Fields        []Field  `toml:"field" msgpack:"fields"`
}

type Method struct {
	Name    string   `toml:"name" msgpack:"name"`
	Returns string   `toml:"returns" msgpack:"returns"`
	Params  []string `toml:"params" msgpack:"params"`
	Static  bool     `toml:"static" msgpack:"static"`
	Varargs bool     `toml:"varargs" msgpack:"varargs"`
}

type Field struct {
	Name string `toml:"name" msgpack:"name"`
	Type string `toml:"type" msgpack:"type"`
}

// Variable is an application global such as TIME_NOW. With This set the
// variable's type also becomes the implicit receiver of the document scope.
type Variable struct {
	Name string `toml:"name" msgpack:"name"`
	Type string `toml:"type" msgpack:"type"`
	This bool   `toml:"this" msgpack:"this"`
}

// classNames lists class names in declaration order, first occurrence wins.
func classNames(sets []*Set) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range sets {
		if s == nil {
			continue
		}
		for i := range s.Classes {
			name := s.Classes[i].Name
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}
