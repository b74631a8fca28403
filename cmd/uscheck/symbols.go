package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/foryearslater/afsim-sub009/internal/diagfmt"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols [flags] file",
	Short: "List the declarations of a script file",
	Long: `Symbols analyzes one file and prints every variable and script it declares
with its sequence number, scope and type.`,
	Args: cobra.ExactArgs(1),
	RunE: runSymbols,
}

func init() {
	symbolsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	symbolsCmd.Flags().Bool("tokens", false, "include highlighting tokens (json only)")
}

func runSymbols(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	withTokens, _ := cmd.Flags().GetBool("tokens")
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	res, _, err := analyzeOne(cmd, s, args[0], nil)
	if err != nil {
		return err
	}
	if res.Bag.Len() > 0 && !s.quiet {
		diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, res.FileSet(), diagfmt.PrettyOpts{Color: useColor(cmd, os.Stderr)})
	}

	syms, toks := res.Detail.Rows(res.Session)
	if !withTokens {
		toks = nil
	}
	out := diagfmt.BuildSemanticsOutput(res.FileSet(), res.FileID, syms, toks)
	switch format {
	case "pretty":
		return diagfmt.FormatSemanticsPretty(cmd.OutOrStdout(), out)
	case "json":
		return diagfmt.FormatSemanticsJSON(cmd.OutOrStdout(), out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
