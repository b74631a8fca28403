package driver

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/foryearslater/afsim-sub009/internal/decl"
	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/index"
	"github.com/foryearslater/afsim-sub009/internal/observ"
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/trace"
)

// Options configure a check run.
type Options struct {
	// Declarations are TOML class declaration files loaded after the built-ins.
	Declarations []string
	Files        []string
	// Jobs bounds the number of files analyzed at once; 0 means GOMAXPROCS.
	Jobs           int
	MaxDiagnostics int
	Globals        []Global
	// Cache keeps parsed declaration files between runs; may be nil.
	Cache    *decl.DiskCache
	Progress ProgressSink
}

// Result holds the outcome of every file in Options.Files order.
type Result struct {
	Decls   *Declarations
	FileSet *source.FileSet
	Files   []*FileResult
	Timer   *observ.Timer
}

// Diagnostics merges the per-file diagnostics, sorted. Their spans resolve
// against FileSet; declaration problems live in Decls.Bag and resolve
// against Decls.FileSet.
func (r *Result) Diagnostics() *diag.Bag {
	out := diag.NewBag(0)
	for _, f := range r.Files {
		if f != nil {
			out.Merge(f.Bag)
		}
	}
	out.Sort()
	return out
}

// HasErrors reports whether any file or declaration diagnostic is an error.
func (r *Result) HasErrors() bool {
	if r.Decls != nil && r.Decls.Bag.HasErrors() {
		return true
	}
	return r.Diagnostics().HasErrors()
}

// Build is a check run in progress.
type Build struct {
	done chan struct{}
	res  *Result
	err  error
}

// Start launches a check run on a background goroutine. Cancel ctx to stop
// it early; Join still has to be called to collect the error.
func Start(ctx context.Context, opts Options) *Build {
	b := &Build{done: make(chan struct{})}
	go func() {
		defer close(b.done)
		b.res, b.err = run(ctx, opts)
	}()
	return b
}

// Done is closed when the run finishes.
func (b *Build) Done() <-chan struct{} { return b.done }

// Join blocks until the run finishes.
func (b *Build) Join() (*Result, error) {
	<-b.done
	return b.res, b.err
}

// Analyze runs a check and waits for it.
func Analyze(ctx context.Context, opts Options) (*Result, error) {
	return Start(ctx, opts).Join()
}

func run(ctx context.Context, opts Options) (*Result, error) {
	tracer := trace.FromContext(ctx)
	runSpan := trace.Begin(tracer, trace.ScopeDriver, "check", 0)
	defer runSpan.End(fmt.Sprintf("files=%d", len(opts.Files)))

	timer := observ.NewTimer()
	for _, path := range opts.Files {
		emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusQueued})
	}

	emit(opts.Progress, Event{Stage: StageDeclarations, Status: StatusWorking})
	idx := timer.Begin("declarations")
	decls, err := LoadDeclarations(ctx, opts.Declarations, opts.Cache, opts.MaxDiagnostics)
	if err != nil {
		emit(opts.Progress, Event{Stage: StageDeclarations, Status: StatusError, Err: err})
		return nil, err
	}
	timer.End(idx, fmt.Sprintf("%d files, %d cached", len(opts.Declarations), decls.CacheHits))
	emit(opts.Progress, Event{Stage: StageDeclarations, Status: StatusDone})

	// Файлы грузятся заранее: FileSet не потокобезопасен на запись.
	fileSet := source.NewFileSet()
	fileIDs := make([]source.FileID, len(opts.Files))
	loadErrors := make(map[int]error)
	idx = timer.Begin("read")
	for i, path := range opts.Files {
		id, err := fileSet.Load(path)
		if err != nil {
			// пустой виртуальный файл, чтобы диагностике было куда указывать
			loadErrors[i] = err
			id = fileSet.AddVirtual(path, nil)
		}
		fileIDs[i] = id
	}
	timer.End(idx, "")

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]*FileResult, len(opts.Files))

	idx = timer.Begin("analyze")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(opts.Files))))
	for i, path := range opts.Files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if loadErr, failed := loadErrors[i]; failed {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "failed to load file: " + loadErr.Error(),
					Primary:  source.Span{File: fileIDs[i]},
				})
				// индекс i уникален, мьютекс не нужен
				results[i] = &FileResult{Path: path, FileID: fileIDs[i], Bag: bag}
				emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusError, Err: loadErr})
				return nil
			}
			emit(opts.Progress, Event{File: path, Stage: StageAnalyze, Status: StatusWorking})
			fr := AnalyzeSource(gctx, decls, fileSet, fileSet.Get(fileIDs[i]), FileOptions{
				MaxDiagnostics: opts.MaxDiagnostics,
				Globals:        opts.Globals,
				Cursor:         index.NoCursor,
			})
			results[i] = fr
			timer.Track("analyze "+fr.Path, fr.Elapsed, "")
			status := StatusDone
			if fr.Bag.HasErrors() {
				status = StatusError
			}
			emit(opts.Progress, Event{File: path, Stage: StageAnalyze, Status: status, Elapsed: fr.Elapsed})
			return nil
		})
	}
	err = g.Wait()
	timer.End(idx, fmt.Sprintf("jobs=%d", jobs))

	return &Result{Decls: decls, FileSet: fileSet, Files: results, Timer: timer}, err
}

// Elapsed sums the per-file analysis time.
func (r *Result) Elapsed() time.Duration {
	var total time.Duration
	for _, f := range r.Files {
		if f != nil {
			total += f.Elapsed
		}
	}
	return total
}
