package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/foryearslater/afsim-sub009/internal/source"
)

type shortLine struct {
	sev  string
	code string
	path string
	pos  source.LineCol
	msg  string
}

// FormatShortDiagnostics renders one "severity CODE path:line:col message"
// line per diagnostic, and per note when includeNotes is set, sorted by
// location. Spans of files unknown to fs are skipped.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil {
		return ""
	}
	var lines []shortLine
	add := func(sev string, code Code, sp source.Span, msg string) {
		f := fs.Get(sp.File)
		if f == nil {
			return
		}
		path := f.Path
		if f.Flags&source.FileVirtual == 0 {
			path = f.FormatPath("relative", fs.BaseDir())
		}
		start, _ := fs.Resolve(sp)
		lines = append(lines, shortLine{
			sev:  sev,
			code: code.ID(),
			path: trimDotSlash(filepath.ToSlash(path)),
			pos:  start,
			msg:  strings.Join(strings.Fields(msg), " "),
		})
	}
	for _, d := range diags {
		add(strings.ToLower(d.Severity.String()), d.Code, d.Primary, d.Message)
		if includeNotes {
			for _, n := range d.Notes {
				add("note", d.Code, n.Span, n.Msg)
			}
		}
	}
	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			strings.Compare(a.path, b.path),
			cmp.Compare(a.pos.Line, b.pos.Line),
			cmp.Compare(a.pos.Col, b.pos.Col),
			strings.Compare(a.code, b.code),
		)
	})
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = fmt.Sprintf("%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.pos.Line, l.pos.Col, l.msg)
	}
	return strings.Join(out, "\n")
}

func trimDotSlash(p string) string {
	for {
		rest, ok := strings.CutPrefix(p, "./")
		if !ok {
			return p
		}
		p = rest
	}
}
