package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/foryearslater/afsim-sub009/internal/index"
	"github.com/foryearslater/afsim-sub009/internal/source"
)

// SemanticsOutput represents the declarations of one analyzed file.
type SemanticsOutput struct {
	File    string       `json:"file"`
	Symbols []SymbolJSON `json:"symbols"`
	Tokens  []TokenJSON  `json:"tokens,omitempty"`
}

type SymbolJSON struct {
	Name    string      `json:"name"`
	Kind    string      `json:"kind"`
	Storage string      `json:"storage"`
	Type    string      `json:"type"`
	Seq     uint32      `json:"seq"`
	Scope   uint32      `json:"scope"`
	Span    source.Span `json:"span"`
	Line    uint32      `json:"line"`
	Col     uint32      `json:"col"`
}

type TokenJSON struct {
	Kind string      `json:"kind"`
	Span source.Span `json:"span"`
}

// BuildSemanticsOutput converts index rows of file into the JSON dump shape.
func BuildSemanticsOutput(fs *source.FileSet, file source.FileID, syms []index.SymbolRow, toks []index.TokenRow) SemanticsOutput {
	out := SemanticsOutput{Symbols: make([]SymbolJSON, 0, len(syms))}
	if f := fs.Get(file); f != nil {
		out.File = f.Path
	}
	for _, row := range syms {
		span := source.Span{File: file, Start: row.Start, End: row.End}
		pos, _ := fs.Resolve(span)
		out.Symbols = append(out.Symbols, SymbolJSON{
			Name:    row.Name,
			Kind:    row.Kind,
			Storage: row.Storage,
			Type:    row.Type,
			Seq:     row.Seq,
			Scope:   row.Scope,
			Span:    span,
			Line:    pos.Line,
			Col:     pos.Col,
		})
	}
	for _, row := range toks {
		out.Tokens = append(out.Tokens, TokenJSON{
			Kind: row.Kind,
			Span: source.Span{File: file, Start: row.Start, End: row.End},
		})
	}
	return out
}

// FormatSemanticsJSON пишет дамп объявлений в JSON.
func FormatSemanticsJSON(w io.Writer, out SemanticsOutput) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// FormatSemanticsPretty печатает объявления таблицей в порядке sequence.
func FormatSemanticsPretty(w io.Writer, out SemanticsOutput) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tSCOPE\tKIND\tSTORAGE\tNAME\tTYPE\tAT")
	for _, s := range out.Symbols {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%d:%d\n", s.Seq, s.Scope, s.Kind, s.Storage, s.Name, s.Type, s.Line, s.Col)
	}
	return tw.Flush()
}
