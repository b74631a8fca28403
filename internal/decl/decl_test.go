package decl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/types"
)

const platformDecls = `
[[class]]
name = "WsfObject"
base = "Object"

  [[class.method]]
  name = "Name"
  returns = "string"

[[class]]
name = "WsfPlatform"
base = "WsfObject"
constructible = true

  [[class.method]]
  name = "Speed"
  returns = "double"

  [[class.method]]
  name = "Sensors"
  returns = "Array<WsfSensor>"

  [[class.field]]
  name = "side"
  type = "string"

[[class]]
name = "WsfSensor"
base = "WsfObject"

[[class]]
name = "Point"
struct = true

[[variable]]
name = "PLATFORM"
type = "WsfPlatform"
this = true
`

func build(t *testing.T, extra string) (*Result, *diag.Bag) {
	t.Helper()
	sets := []*Set{Builtins(nil)}
	if extra != "" {
		s, err := Parse("test.toml", []byte(extra))
		require.NoError(t, err)
		sets = append(sets, s)
	}
	bag := diag.NewBag(0)
	return Build(sets, Options{Reporter: &diag.BagReporter{Bag: bag}}), bag
}

func find(t *testing.T, reg *types.Registry, name string) *types.Type {
	t.Helper()
	id, ok := reg.Instantiate(name)
	require.True(t, ok, name)
	return reg.Get(id)
}

func TestBuiltinsLoadCleanly(t *testing.T) {
	res, bag := build(t, "")
	assert.Empty(t, bag.Items())
	reg := res.Types
	for _, name := range []string{"int", "double", "bool", "string", "char", "null", "void", "var", "Object", "Array", "Map", "Set", "__BUILTIN__"} {
		_, ok := reg.Find(name)
		assert.True(t, ok, name)
	}
	var names []string
	for _, v := range res.Variables {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"TIME_NOW", "RANDOM", "MATH"}, names)
}

func TestTemplateMethodsSubstitutePlaceholders(t *testing.T) {
	res, _ := build(t, "")
	reg := res.Types
	intT, _ := reg.Find("int")
	strT, _ := reg.Find("string")

	arr := find(t, reg, "Array<int>")
	sig, ok := arr.FindMethod(reg, "Get", []types.TypeID{intT})
	require.True(t, ok)
	assert.Equal(t, intT, sig.ReturnType())
	_, ok = arr.FindMethod(reg, "PushBack", []types.TypeID{strT})
	assert.False(t, ok)

	m := find(t, reg, "Map<string,int>")
	sig, ok = m.FindMethod(reg, "Get", []types.TypeID{strT})
	require.True(t, ok)
	assert.Equal(t, intT, sig.ReturnType())
	sig, ok = m.FindMethod(reg, "ElementKeyAtIndex", []types.TypeID{intT})
	require.True(t, ok)
	assert.Equal(t, strT, sig.ReturnType())

	set := find(t, reg, "Set<int>")
	sig, ok = set.FindMethod(reg, "Union", []types.TypeID{set.ID})
	require.True(t, ok)
	assert.Equal(t, set.ID, sig.ReturnType())
}

func TestEarlyInstantiationIsRespecialized(t *testing.T) {
	// string.Split returns Array<string>, instantiated while Array is
	// still being declared
	res, _ := build(t, "")
	reg := res.Types
	strT, _ := reg.Find("string")
	intT, _ := reg.Find("int")
	arr := find(t, reg, "Array<string>")
	sig, ok := arr.FindMethod(reg, "Get", []types.TypeID{intT})
	require.True(t, ok)
	assert.Equal(t, strT, sig.ReturnType())
}

func TestContainerBaseCasts(t *testing.T) {
	res, _ := build(t, "")
	reg := res.Types
	cb := reg.ContainerBases()
	require.True(t, cb.Array.IsValid())
	require.True(t, cb.Map.IsValid())
	require.True(t, cb.Set.IsValid())
	assert.True(t, find(t, reg, "Array<int>").ImplicitlyCastable(cb.Array))
	assert.True(t, find(t, reg, "Map<string,double>").ImplicitlyCastable(cb.Map))
	assert.True(t, find(t, reg, "Set<char>").ImplicitlyCastable(cb.Set))
}

func TestInheritanceIsFlattenedAndCopied(t *testing.T) {
	res, bag := build(t, platformDecls)
	require.Empty(t, bag.Items())
	reg := res.Types
	obj, _ := reg.Find("Object")
	wobj, _ := reg.Find("WsfObject")
	plat := find(t, reg, "WsfPlatform")

	assert.True(t, plat.InheritsFrom(wobj))
	assert.True(t, plat.InheritsFrom(obj))
	assert.True(t, plat.HasMethod("Name"))
	assert.True(t, plat.HasMethod("IsValid"))
	assert.True(t, plat.Has(types.FlagConstructible))
	side, ok := plat.Field("side")
	require.True(t, ok)
	assert.Equal(t, "string", reg.Name(side))

	// forward reference to a class declared later
	sensors := plat.Overloads("Sensors")
	require.Len(t, sensors, 1)
	assert.Equal(t, "Array<WsfSensor>", reg.Name(sensors[0].ReturnType()))

	point := find(t, reg, "Point")
	assert.True(t, point.Has(types.FlagConstructible|types.FlagLessCompare))
	assert.True(t, point.InheritsFrom(obj))

	last := res.Variables[len(res.Variables)-1]
	assert.Equal(t, AppVariable{Name: "PLATFORM", Type: plat.ID, This: true}, last)
}

func TestUnknownTypesAreReported(t *testing.T) {
	res, bag := build(t, `
[[class]]
name = "Broken"
base = "Missing"

  [[class.method]]
  name = "Bad"
  returns = "Nope"

  [[class.method]]
  name = "Good"
  returns = "int"

[[variable]]
name = "GHOST"
type = "Phantom"
`)
	broken := find(t, res.Types, "Broken")
	assert.False(t, broken.HasMethod("Bad"))
	assert.True(t, broken.HasMethod("Good"))

	var codes []diag.Code
	for _, d := range bag.Items() {
		codes = append(codes, d.Code)
	}
	assert.Equal(t, []diag.Code{diag.DeclUnknownType, diag.DeclUnknownType, diag.DeclBadVariable}, codes)
}

func TestDuplicateClassesMerge(t *testing.T) {
	res, bag := build(t, `
[[class]]
name = "int"

  [[class.method]]
  name = "Abs"
  returns = "int"
`)
	intT := find(t, res.Types, "int")
	assert.True(t, intT.HasMethod("Abs"))
	assert.True(t, intT.ImplicitlyCastable(find(t, res.Types, "double").ID))
	require.Len(t, bag.Items(), 1)
	assert.Equal(t, diag.DeclDuplicateClass, bag.Items()[0].Code)
	assert.Equal(t, diag.SevWarning, bag.Items()[0].Severity)
}

func TestParseRejectsUnknownKeysAndMissingNames(t *testing.T) {
	_, err := Parse("x.toml", []byte("[[class]]\nname = \"A\"\nconstructable = true\n"))
	require.ErrorIs(t, err, ErrUnknownKey)
	assert.Contains(t, err.Error(), "class.constructable")

	_, err = Parse("x.toml", []byte("[[class]]\n[[class.method]]\nname = \"M\"\n"))
	require.ErrorIs(t, err, ErrMissingName)

	_, err = Parse("x.toml", []byte("[[class]\n"))
	require.Error(t, err)

	s, err := Parse("x.toml", []byte("[[class]]\nname = \"A\"\n[[class.method]]\nname = \"M\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "void", s.Classes[0].Methods[0].Returns)
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheDir(t.TempDir())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "app.toml")
	require.NoError(t, os.WriteFile(path, []byte(platformDecls), 0o600))

	fs := source.NewFileSet()
	first, hit, err := LoadCached(cache, fs, path)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := LoadCached(cache, fs, path)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first.Classes, second.Classes)
	assert.Equal(t, first.Variables, second.Variables)
	assert.NotEqual(t, first.File, second.File)

	require.NoError(t, cache.DropAll())
	_, hit, err = LoadCached(cache, fs, path)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestDiskCacheNilIsMiss(t *testing.T) {
	var c *DiskCache
	s, ok, err := c.Get(DigestOf([]byte("x")))
	assert.Nil(t, s)
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.NoError(t, c.Put(Digest{}, &Set{}))
}
