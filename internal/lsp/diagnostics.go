package lsp

import (
	"time"

	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/source"
)

// scheduleLocked откладывает анализ uri на debounce; вызывать под s.mu.
func (s *Server) scheduleLocked(uri string, doc *document) {
	doc.seq++
	seq := doc.seq
	s.stopLocked(doc)
	s.pending.Add(1)
	doc.timer = time.AfterFunc(s.opts.Debounce, func() {
		defer s.pending.Done()
		s.runDiagnostics(uri, seq)
	})
}

// stopLocked отменяет ещё не сработавший таймер doc.
func (s *Server) stopLocked(doc *document) {
	if doc.timer != nil && doc.timer.Stop() {
		s.pending.Done()
	}
}

func (s *Server) current(uri string, seq uint64) (*document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok || doc.seq != seq || s.shutdown {
		return nil, false
	}
	return doc, true
}

// runDiagnostics analyzes the document as of seq and publishes the result
// unless the document changed meanwhile.
func (s *Server) runDiagnostics(uri string, seq uint64) {
	doc, ok := s.current(uri, seq)
	if !ok {
		return
	}
	s.mu.Lock()
	text, version := doc.text, doc.version
	s.mu.Unlock()

	started := time.Now()
	res, file := s.analyze(uri, text, nil)
	if s.ctx.Err() != nil {
		return
	}
	res.Bag.Sort()
	list := convertDiagnostics(uri, file, res.Bag)

	if _, ok := s.current(uri, seq); !ok {
		return
	}
	if err := s.sendPublish(uri, &version, list); err != nil {
		s.logf("failed to publish diagnostics for %s: %v", uri, err)
		return
	}
	s.mu.Lock()
	doc.published = len(list) > 0
	s.mu.Unlock()
	s.logf("%s: %d diagnostics in %s", uri, len(list), time.Since(started).Round(time.Microsecond))
}

func (s *Server) sendPublish(uri string, version *int, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	return s.notify("textDocument/publishDiagnostics", publishDiagnosticsParams{
		URI:         uri,
		Version:     version,
		Diagnostics: list,
	})
}

func convertDiagnostics(uri string, file *source.File, bag *diag.Bag) []lspDiagnostic {
	items := bag.Items()
	out := make([]lspDiagnostic, 0, len(items))
	for _, d := range items {
		item := lspDiagnostic{
			Severity: lspSeverity(d.Severity),
			Code:     d.Code.ID(),
			Source:   "uscheck",
			Message:  d.Message,
		}
		if d.Primary.File == file.ID {
			item.Range = rangeForSpan(file, d.Primary)
		}
		for _, n := range d.Notes {
			if n.Span.File != file.ID {
				continue
			}
			item.RelatedInformation = append(item.RelatedInformation, diagnosticRelatedInformation{
				Location: location{URI: uri, Range: rangeForSpan(file, n.Span)},
				Message:  n.Msg,
			})
		}
		out = append(out, item)
	}
	return out
}

// lspSeverity: 1 error, 2 warning, 3 information.
func lspSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return 1
	case diag.SevWarning:
		return 2
	default:
		return 3
	}
}
