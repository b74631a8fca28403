package driver

import (
	"context"
	"strconv"

	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/lexer"
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/token"
	"github.com/foryearslater/afsim-sub009/internal/trace"
)

// TokenizeResult is the lexer output for one file. Tokens end with EOF.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize runs only the lexer over path.
func Tokenize(ctx context.Context, path string, maxDiagnostics int) (*TokenizeResult, error) {
	sp := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "tokenize", 0).WithExtra("path", path)
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		sp.End("load failed")
		return nil, err
	}
	res := lexFile(fs, id, maxDiagnostics)
	sp.WithExtra("tokens", strconv.Itoa(len(res.Tokens))).End("")
	return res, nil
}

func lexFile(fs *source.FileSet, id source.FileID, maxDiagnostics int) *TokenizeResult {
	res := &TokenizeResult{FileSet: fs, File: fs.Get(id), Bag: diag.NewBag(maxDiagnostics)}
	res.Tokens = lexer.New(res.File, lexer.Options{Reporter: diag.BagReporter{Bag: res.Bag}}).All()
	return res
}
