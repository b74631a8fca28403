package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/foryearslater/afsim-sub009/internal/diagfmt"
	"github.com/foryearslater/afsim-sub009/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file",
	Short: "Print the tokens of a script file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	printTokens := diagfmt.FormatTokensPretty
	switch format {
	case "pretty":
	case "json":
		printTokens = diagfmt.FormatTokensJSON
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	limit, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")

	res, err := driver.Tokenize(cmd.Context(), args[0], limit)
	if err != nil {
		return err
	}
	// лексические ошибки идут в stderr, токены печатаются всё равно
	if res.Bag.Len() > 0 {
		diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:   useColor(cmd, os.Stderr),
			Context: 2,
		})
	}
	return printTokens(cmd.OutOrStdout(), res.Tokens, res.FileSet)
}
