package driver

import (
	"context"
	"fmt"
	"time"

	"fortio.org/safecast"

	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/index"
	"github.com/foryearslater/afsim-sub009/internal/parser"
	"github.com/foryearslater/afsim-sub009/internal/sema"
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/token"
	"github.com/foryearslater/afsim-sub009/internal/trace"
)

// FileOptions tune the analysis of one file.
type FileOptions struct {
	MaxDiagnostics int
	Globals        []Global
	// Cursor is a byte offset for editor queries; index.NoCursor disables them.
	Cursor uint32
}

// FileResult is the outcome of analyzing one script file. Session and Detail
// stay usable for queries and mirrors after the analysis.
type FileResult struct {
	Path    string
	FileID  source.FileID
	Bag     *diag.Bag
	Syntax  parser.Result
	Session *sema.Session
	Detail  *index.Detail
	Elapsed time.Duration

	fs *source.FileSet
}

// AnalyzeSource parses and checks file against a private registry built from
// decls. The file must belong to fs.
func AnalyzeSource(ctx context.Context, decls *Declarations, fs *source.FileSet, file *source.File, opts FileOptions) *FileResult {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "analyze_file", 0).WithExtra("path", file.Path)
	started := time.Now()

	bag := diag.NewBag(opts.MaxDiagnostics)
	// восстановление парсера может повторить ту же ошибку на том же месте
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	detail := index.NewDetail(file.ID, opts.Cursor)

	res := decls.Build()
	s := sema.NewSession(res.Types, sema.Config{Observer: detail, Reporter: reporter, Tracer: tracer})
	root := s.Root()
	for _, v := range res.Variables {
		root.AddAppVariable(v.Type, v.Name)
		if v.This {
			root.SetThisType(v.Type)
		}
	}
	declareGlobals(root, opts.Globals, reporter, file.ID)

	maxErrors, err := safecast.Conv[uint](max(opts.MaxDiagnostics, 0))
	if err != nil {
		panic(fmt.Errorf("maxDiagnostics overflow: %w", err))
	}
	syn := parser.ParseFile(file, root, parser.Options{Reporter: reporter, MaxErrors: maxErrors})

	elapsed := time.Since(started)
	span.End(fmt.Sprintf("errors=%d scripts=%d", syn.Errors, syn.Scripts))
	return &FileResult{
		Path:    file.Path,
		FileID:  file.ID,
		Bag:     bag,
		Syntax:  syn,
		Session: s,
		Detail:  detail,
		Elapsed: elapsed,
		fs:      fs,
	}
}

func declareGlobals(root *sema.Context, globals []Global, rep diag.Reporter, file source.FileID) {
	for _, g := range globals {
		ty := root.ResolveType(token.Token{Kind: token.Ident, Text: g.Type, Span: source.Span{File: file}})
		if !ty.IsValid() {
			continue
		}
		if _, ok := root.AddAppVariable(ty, g.Name); !ok {
			diag.ReportWarning(rep, diag.DeclBadVariable, source.Span{File: file}, "global '"+g.Name+"' is already declared").Emit()
		}
	}
}

// MirrorResult is the outcome of re-analyzing a script body.
type MirrorResult struct {
	FileID source.FileID
	Bag    *diag.Bag
	Syntax parser.Result
	Ctx    *sema.Context
}

// Mirror re-analyzes text as the new body of script in r without modifying
// r. The statements see what was declared before the body: the parameters,
// the script itself and the enclosing declarations up to the script. Locals
// of the old body are hidden, and new declarations go to a private overlay.
func (r *FileResult) Mirror(script, text string) (*MirrorResult, error) {
	def, ok := r.Detail.Script(script)
	if !ok {
		return nil, fmt.Errorf("%s: no script named %q", r.Path, script)
	}
	bag := diag.NewBag(0)
	reporter := diag.BagReporter{Bag: bag}
	// параметры объявлены раньше скрипта, локальные переменные тела позже
	limit := def.Symbol.Seq + 1
	ctx := sema.NewMirror(r.Session, def.Body, limit, sema.Config{Reporter: reporter})
	id := r.fs.AddVirtual(fmt.Sprintf("%s#%s", r.Path, script), []byte(text))
	syn := parser.ParseBody(r.fs.Get(id), ctx, parser.Options{Reporter: reporter})
	return &MirrorResult{FileID: id, Bag: bag, Syntax: syn, Ctx: ctx}, nil
}

// FileSet returns the file set the result's spans resolve against.
func (r *FileResult) FileSet() *source.FileSet { return r.fs }
