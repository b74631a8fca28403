package decl

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/foryearslater/afsim-sub009/internal/source"
)

//go:embed builtins.toml
var builtinsTOML []byte

// BuiltinsName labels the embedded declaration set.
const BuiltinsName = "<builtins>"

var (
	// ErrUnknownKey indicates a key the declaration schema does not know.
	ErrUnknownKey = errors.New("unknown key")
	// ErrMissingName indicates a class, method, field or variable without a name.
	ErrMissingName = errors.New("missing name")
)

// Parse decodes a declaration document. name is used in error messages.
func Parse(name string, data []byte) (*Set, error) {
	var set Set
	meta, err := toml.Decode(string(data), &set)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", name, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: %s: %w", name, strings.Join(keys, ", "), ErrUnknownKey)
	}
	set.Name = name
	if err := set.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &set, nil
}

func (s *Set) validate() error {
	for ci := range s.Classes {
		c := &s.Classes[ci]
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			return fmt.Errorf("class #%d: %w", ci+1, ErrMissingName)
		}
		for mi := range c.Methods {
			if strings.TrimSpace(c.Methods[mi].Name) == "" {
				return fmt.Errorf("class %s, method #%d: %w", c.Name, mi+1, ErrMissingName)
			}
			if c.Methods[mi].Returns == "" {
				c.Methods[mi].Returns = "void"
			}
		}
		for fi := range c.Fields {
			if strings.TrimSpace(c.Fields[fi].Name) == "" {
				return fmt.Errorf("class %s, field #%d: %w", c.Name, fi+1, ErrMissingName)
			}
		}
	}
	for vi := range s.Variables {
		if strings.TrimSpace(s.Variables[vi].Name) == "" {
			return fmt.Errorf("variable #%d: %w", vi+1, ErrMissingName)
		}
	}
	return nil
}

// Load reads a declaration file through fs, so diagnostics can point into it.
func Load(fs *source.FileSet, path string) (*Set, error) {
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("read declarations: %w", err)
	}
	set, err := Parse(path, fs.Get(id).Content)
	if err != nil {
		return nil, err
	}
	set.File = id
	return set, nil
}

// Builtins returns the embedded declarations of the language's own types.
// With a non-nil fs the text is registered as a virtual file.
func Builtins(fs *source.FileSet) *Set {
	set, err := Parse(BuiltinsName, builtinsTOML)
	if err != nil {
		panic(fmt.Errorf("embedded declarations: %w", err))
	}
	if fs != nil {
		set.File = fs.AddVirtual(BuiltinsName, builtinsTOML)
	}
	return set
}

// BuiltinsText is the embedded declaration document.
func BuiltinsText() []byte { return builtinsTOML }
