package driver

import (
	"context"
	"fmt"
	"strings"

	"github.com/foryearslater/afsim-sub009/internal/decl"
	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/trace"
)

// Global is an extra application variable, given as "Type NAME".
type Global struct {
	Type string
	Name string
}

// ParseGlobal reads "Type NAME"; the type may be generic, e.g. "Array<int> IDS".
func ParseGlobal(s string) (Global, error) {
	s = strings.TrimSpace(s)
	i := strings.LastIndexAny(s, " \t")
	if i <= 0 || i == len(s)-1 {
		return Global{}, fmt.Errorf("global %q: want \"Type NAME\"", s)
	}
	return Global{Type: strings.TrimSpace(s[:i]), Name: s[i+1:]}, nil
}

// Declarations is the immutable declaration input of a run. Every analysis
// builds its own registry from Sets, so analyses never share mutable state.
type Declarations struct {
	Sets    []*decl.Set
	FileSet *source.FileSet
	// Bag holds loader warnings, reported once per run.
	Bag       *diag.Bag
	CacheHits int
}

// LoadDeclarations reads the built-in set followed by paths. Parsed files are
// cached in cache when it is not nil. A registry is built once to surface
// declaration problems in Bag.
func LoadDeclarations(ctx context.Context, paths []string, cache *decl.DiskCache, maxDiagnostics int) (*Declarations, error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "load_declarations", 0)
	defer span.End(fmt.Sprintf("files=%d", len(paths)))

	fs := source.NewFileSet()
	d := &Declarations{
		Sets:    []*decl.Set{decl.Builtins(fs)},
		FileSet: fs,
		Bag:     diag.NewBag(maxDiagnostics),
	}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		set, hit, err := decl.LoadCached(cache, fs, path)
		if err != nil {
			return nil, fmt.Errorf("declarations %s: %w", path, err)
		}
		if hit {
			d.CacheHits++
		}
		d.Sets = append(d.Sets, set)
	}
	decl.Build(d.Sets, decl.Options{
		Reporter: diag.BagReporter{Bag: d.Bag},
		Tracer:   trace.FromContext(ctx),
	})
	return d, nil
}

// Build returns a fresh registry and the application variables.
func (d *Declarations) Build() *decl.Result {
	return decl.Build(d.Sets, decl.Options{})
}
