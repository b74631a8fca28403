package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/foryearslater/afsim-sub009/internal/diagfmt"
	"github.com/foryearslater/afsim-sub009/internal/driver"
)

// loadDecls загружает декларации и печатает их предупреждения в stderr.
func loadDecls(cmd *cobra.Command, s *settings) (*driver.Declarations, error) {
	decls, err := driver.LoadDeclarations(cmd.Context(), s.declarations, s.cache, s.maxDiagnostics)
	if err != nil {
		return nil, err
	}
	if decls.Bag.Len() > 0 && !s.quiet {
		diagfmt.Pretty(cmd.ErrOrStderr(), decls.Bag, decls.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			ShowNotes: true,
		})
	}
	return decls, nil
}
