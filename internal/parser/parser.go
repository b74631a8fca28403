package parser

import (
	"slices"

	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/lexer"
	"github.com/foryearslater/afsim-sub009/internal/sema"
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
	// MaxTokenLength is handed to the lexer; 0 means the lexer default.
	MaxTokenLength int
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	// Errors counts syntax errors; semantic errors go to the session reporter.
	Errors uint
	// Scripts is the number of script definitions seen.
	Scripts int
}

// Parser - состояние разбора одного файла. Семантика целиком в sema.Context:
// парсер не строит дерево, а вызывает действия по мере разбора.
type Parser struct {
	toks     []token.Token
	pos      int
	ctx      *sema.Context
	opts     Options
	lastSpan source.Span
	inScript bool
	scripts  int
}

func newParser(file *source.File, ctx *sema.Context, opts Options) *Parser {
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter, MaxTokenLength: opts.MaxTokenLength})
	return &Parser{
		toks:     lx.All(),
		ctx:      ctx,
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
	}
}

// ParseFile разбирает весь документ: определения скриптов и операторы
// верхнего уровня. ctx обычно корневой контекст сессии.
func ParseFile(file *source.File, ctx *sema.Context, opts Options) Result {
	p := newParser(file, ctx, opts)
	p.parseItems()
	return p.result()
}

// ParseBody разбирает последовательность операторов без определений
// скриптов, например тело скрипта в зеркальном контексте.
func ParseBody(file *source.File, ctx *sema.Context, opts Options) Result {
	p := newParser(file, ctx, opts)
	p.inScript = true
	for !p.at(token.EOF) {
		p.statementOrResync(ctx)
	}
	ctx.HitEOF()
	return p.result()
}

func (p *Parser) result() Result {
	return Result{Errors: p.opts.CurrentErrors, Scripts: p.scripts}
}

// parseItems - основной цикл верхнего уровня: пока не EOF - скрипт или оператор.
func (p *Parser) parseItems() {
	for !p.at(token.EOF) {
		if p.atScriptDef() {
			if !p.parseScriptDef(p.ctx) {
				p.resyncTop()
			}
			continue
		}
		p.statementOrResync(p.ctx)
	}
	p.ctx.HitEOF()
}

func (p *Parser) statementOrResync(ctx *sema.Context) {
	start := p.pos
	if !p.parseStatement(ctx) {
		p.resyncStatement()
	}
	if p.pos == start {
		// гарантируем прогресс
		p.advance()
	}
}

func (p *Parser) atScriptDef() bool {
	return p.at(token.KwScript) || p.at(token.KwExtern) && p.peekN(1).Kind == token.KwScript
}

func (p *Parser) resyncTop() {
	p.resyncUntil(token.KwEndScript, token.KwScript, token.Semicolon)
	if p.at(token.KwEndScript) || p.at(token.Semicolon) {
		p.advance()
	}
}

// resyncStatement пропускает токены до ';' (съедается), '}' или end_script.
func (p *Parser) resyncStatement() {
	p.resyncUntil(token.Semicolon, token.RBrace, token.KwEndScript)
	if p.at(token.Semicolon) {
		p.advance()
	}
}

func (p *Parser) resyncUntil(stop ...token.Kind) {
	for !p.at(token.EOF) && !slices.Contains(stop, p.peek().Kind) {
		p.advance()
	}
}
