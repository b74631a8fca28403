package lsp

import (
	"encoding/json"
	"strings"

	"github.com/foryearslater/afsim-sub009/internal/driver"
	"github.com/foryearslater/afsim-sub009/internal/index"
	"github.com/foryearslater/afsim-sub009/internal/source"
)

// query is a document analyzed with the cursor at a request position.
type query struct {
	uri  string
	res  *driver.FileResult
	file *source.File
	off  uint32
}

// positionRequest decodes params and re-analyzes the document with the
// cursor at the requested position. It answers the request itself and
// returns nil when the params are bad or the document is not open.
func (s *Server) positionRequest(msg *rpcMessage) (*query, error) {
	var params textDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil, s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	uri := params.TextDocument.URI
	text, open := s.snapshot(uri)
	if !open {
		return nil, s.sendResponse(msg.ID, nil)
	}
	q := &query{uri: uri}
	q.res, q.file = s.analyze(uri, text, func(f *source.File) uint32 {
		q.off = offsetInFile(f, params.Position)
		return q.off
	})
	return q, nil
}

func (s *Server) handleCompletion(msg *rpcMessage) error {
	q, err := s.positionRequest(msg)
	if q == nil {
		return err
	}
	return s.sendResponse(msg.ID, buildCompletion(q))
}

func buildCompletion(q *query) completionList {
	prefix := prefixAt(q.file.Content, q.off)
	items := q.res.Detail.Completions(q.res.Session, prefix)
	list := completionList{Items: make([]completionItem, 0, len(items))}
	for _, c := range items {
		list.Items = append(list.Items, completionItem{Label: c.Label, Kind: completionKind(c.Kind), Detail: c.Detail})
	}
	return list
}

func completionKind(k index.CompletionKind) int {
	switch k {
	case index.CompleteScript:
		return itemKindFunction
	case index.CompleteMethod, index.CompleteStaticMethod:
		return itemKindMethod
	case index.CompleteField:
		return itemKindField
	default:
		return itemKindVariable
	}
}

func (s *Server) handleSignatureHelp(msg *rpcMessage) error {
	q, err := s.positionRequest(msg)
	if q == nil {
		return err
	}
	help := buildSignatureHelp(q.res)
	if help == nil {
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, help)
}

func buildSignatureHelp(res *driver.FileResult) *signatureHelp {
	help, ok := res.Detail.SignatureHelp(res.Session)
	if !ok {
		return nil
	}
	out := &signatureHelp{ActiveParameter: help.ActiveArg}
	active := -1
	for i, sig := range help.Signatures {
		params := signatureParams(sig)
		if active < 0 && help.ActiveArg < len(params) {
			active = i
		}
		info := signatureInformation{Label: sig}
		for _, p := range params {
			info.Parameters = append(info.Parameters, parameterInformation{Label: p})
		}
		out.Signatures = append(out.Signatures, info)
	}
	out.ActiveSignature = max(active, 0)
	return out
}

// signatureParams делит "int Add(int, int)" на типы параметров.
func signatureParams(sig string) []string {
	open := strings.IndexByte(sig, '(')
	if open < 0 || !strings.HasSuffix(sig, ")") {
		return nil
	}
	inner := strings.TrimSuffix(strings.TrimSpace(sig[open+1:len(sig)-1]), "...")
	if inner == "" {
		return nil
	}
	// generic arguments like Map<string, int> contain commas of their own
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(inner[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(inner[start:]))
}

func (s *Server) handleHover(msg *rpcMessage) error {
	q, err := s.positionRequest(msg)
	if q == nil {
		return err
	}
	h := buildHover(q)
	if h == nil {
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, h)
}

func buildHover(q *query) *hover {
	res, file, off := q.res, q.file, q.off
	word, span, ok := wordAt(file.Content, off)
	if !ok {
		return nil
	}
	span.File = file.ID
	var lines []string
	reg := res.Session.Types()
	if rcv, ok := res.Detail.DotReceiver(); ok && rcv.Pos+1 == span.Start {
		if t := reg.Get(rcv.Type); t != nil {
			overloads := t.Overloads(word)
			for i := range overloads {
				lines = append(lines, reg.FormatSignature(reg.Name(rcv.Type)+"."+word, &overloads[i]))
			}
			if ft, ok := t.Field(word); ok {
				lines = append(lines, reg.Name(ft)+" "+reg.Name(rcv.Type)+"."+word)
			}
		}
	}
	if len(lines) == 0 {
		if sym, ok := res.Detail.SymbolAt(res.Session, off, word); ok {
			lines = append(lines, index.Describe(res.Session, sym))
		} else if id, ok := reg.Find(word); ok {
			var b strings.Builder
			if err := reg.Describe(&b, id); err == nil {
				lines = append(lines, strings.TrimRight(b.String(), "\n"))
			}
		}
	}
	if len(lines) == 0 {
		return nil
	}
	r := rangeForSpan(file, span)
	return &hover{
		Contents: markupContent{Kind: "markdown", Value: "```\n" + strings.Join(lines, "\n") + "\n```"},
		Range:    &r,
	}
}

func (s *Server) handleDefinition(msg *rpcMessage) error {
	q, err := s.positionRequest(msg)
	if q == nil {
		return err
	}
	loc := buildDefinition(q)
	if loc == nil {
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, []location{*loc})
}

func buildDefinition(q *query) *location {
	res, file, off := q.res, q.file, q.off
	word, span, ok := wordAt(file.Content, off)
	if !ok {
		return nil
	}
	if rcv, ok := res.Detail.DotReceiver(); ok && rcv.Pos+1 == span.Start {
		// члены типов объявлены вне документа
		return nil
	}
	sym, ok := res.Detail.SymbolAt(res.Session, off, word)
	if !ok || !res.Detail.Declared(sym) {
		return nil
	}
	return &location{URI: q.uri, Range: rangeForSpan(file, sym.Span)}
}
