package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/foryearslater/afsim-sub009/internal/lsp"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the script language server over stdio",
	Long: `Lsp serves diagnostics, completion, signature help, hover and go to
definition for script files. Declarations and globals come from uscheck.toml
and the global flags, as for check.`,
	Args: cobra.NoArgs,
	RunE: runLSP,
}

func init() {
	lspCmd.Flags().Duration("debounce", 0, "delay before re-analyzing an edited document (0 = default)")
}

func runLSP(cmd *cobra.Command, _ []string) error {
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	decls, err := loadDecls(cmd, s)
	if err != nil {
		return err
	}
	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.Options{
		Decls:          decls,
		Globals:        s.globals,
		MaxDiagnostics: s.maxDiagnostics,
		Debounce:       debounce,
		Log:            cmd.ErrOrStderr(),
	})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		return err
	}
	return nil
}
