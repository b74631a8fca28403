package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/foryearslater/afsim-sub009/internal/source"
)

var hintCmd = &cobra.Command{
	Use:   "hint [flags] file position",
	Short: "Signature help and completions at a position",
	Long: `Hint analyzes a file with a cursor at position (a byte offset or line:col)
and prints the signatures of the call around the cursor and the names that
can be typed there.`,
	Args: cobra.ExactArgs(2),
	RunE: runHint,
}

func init() {
	hintCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	hintCmd.Flags().Int("limit", 50, "maximum number of completions (0 = all)")
}

type hintCompletionJSON struct {
	Label  string `json:"label"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

type hintCallJSON struct {
	Name       string   `json:"name"`
	Signatures []string `json:"signatures"`
	ActiveArg  int      `json:"active_arg"`
}

type hintJSON struct {
	Offset      uint32               `json:"offset"`
	Prefix      string               `json:"prefix"`
	Call        *hintCallJSON        `json:"call,omitempty"`
	Completions []hintCompletionJSON `json:"completions"`
}

func runHint(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	limit, _ := cmd.Flags().GetInt("limit")
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	res, file, err := analyzeOne(cmd, s, args[0], func(f *source.File) (uint32, error) {
		return parsePosition(f, args[1])
	})
	if err != nil {
		return err
	}

	cursor := res.Detail.Cursor()
	out := hintJSON{Offset: cursor, Prefix: identPrefix(file.Content, cursor)}
	if help, ok := res.Detail.SignatureHelp(res.Session); ok {
		out.Call = &hintCallJSON{Name: help.Name, Signatures: help.Signatures, ActiveArg: help.ActiveArg}
	}
	completions := res.Detail.Completions(res.Session, out.Prefix)
	if limit > 0 && len(completions) > limit {
		completions = completions[:limit]
	}
	out.Completions = make([]hintCompletionJSON, 0, len(completions))
	for _, c := range completions {
		out.Completions = append(out.Completions, hintCompletionJSON{Label: c.Label, Kind: c.Kind.String(), Detail: c.Detail})
	}

	switch format {
	case "json":
		return writeJSON(cmd.OutOrStdout(), out)
	case "pretty":
		return printHint(cmd.OutOrStdout(), out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func printHint(w io.Writer, h hintJSON) error {
	var b strings.Builder
	if h.Call != nil {
		fmt.Fprintf(&b, "call %s, argument %d:\n", h.Call.Name, h.Call.ActiveArg+1)
		for _, sig := range h.Call.Signatures {
			fmt.Fprintf(&b, "  %s\n", sig)
		}
	}
	if len(h.Completions) > 0 {
		fmt.Fprintf(&b, "completions for %q:\n", h.Prefix)
		for _, c := range h.Completions {
			fmt.Fprintf(&b, "  %-24s %-14s %s\n", c.Label, c.Kind, c.Detail)
		}
	}
	if b.Len() == 0 {
		b.WriteString("nothing to suggest\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
