package lexer

import (
	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/source"
)

// DefaultMaxTokenLength bounds a single token; longer input is reported and
// the rest of the file is skipped.
const DefaultMaxTokenLength = 1 << 16

type Options struct {
	Reporter       diag.Reporter // может быть nil - тогда ошибки игнорируем (но продолжаем лексить)
	MaxTokenLength int           // 0 = DefaultMaxTokenLength
}

func (o Options) maxTokenLength() uint32 {
	if o.MaxTokenLength <= 0 {
		return DefaultMaxTokenLength
	}
	return uint32(o.MaxTokenLength)
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter == nil {
		return
	}
	lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
}
