package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/token"
)

// TokenOutput is one token of the tokenize command.
type TokenOutput struct {
	Kind    string   `json:"kind"`
	Text    string   `json:"text,omitempty"`
	Start   uint32   `json:"start"`
	End     uint32   `json:"end"`
	Line    uint32   `json:"line"`
	Col     uint32   `json:"col"`
	Leading []string `json:"leading,omitempty"`

	endPos source.LineCol
}

// BuildTokensOutput stops after EOF.
func BuildTokensOutput(tokens []token.Token, fs *source.FileSet) []TokenOutput {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		start, end := fs.Resolve(tok.Span)
		row := TokenOutput{
			Kind:   tok.Kind.String(),
			Text:   tok.Text,
			Start:  tok.Span.Start,
			End:    tok.Span.End,
			Line:   start.Line,
			Col:    start.Col,
			endPos: end,
		}
		for _, tr := range tok.Leading {
			row.Leading = append(row.Leading, tr.Kind.String())
		}
		out = append(out, row)
		if tok.Kind == token.EOF {
			break
		}
	}
	return out
}

// FormatTokensPretty печатает таблицу токенов.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, row := range BuildTokensOutput(tokens, fs) {
		text := ""
		if row.Text != "" {
			text = fmt.Sprintf("%q", row.Text)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d:%d-%d:%d\t%s\n", i+1, row.Kind, text,
			row.Line, row.Col, row.endPos.Line, row.endPos.Col, strings.Join(row.Leading, ","))
	}
	return tw.Flush()
}

func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildTokensOutput(tokens, fs))
}
