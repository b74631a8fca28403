package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/foryearslater/afsim-sub009/internal/types"
)

var typesCmd = &cobra.Command{
	Use:   "types [flags] [name...]",
	Short: "Describe declared types",
	Long: `Types lists every declared class, or describes the named ones. Generic
names such as "Map<string, int>" are instantiated on demand.`,
	RunE: runTypes,
}

func runTypes(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	decls, err := loadDecls(cmd, s)
	if err != nil {
		return err
	}
	reg := decls.Build().Types
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		all := slices.Clone(reg.Types())
		slices.SortFunc(all, func(a, b *types.Type) int {
			switch {
			case a.Name < b.Name:
				return -1
			case a.Name > b.Name:
				return 1
			}
			return 0
		})
		for _, t := range all {
			if _, err := fmt.Fprintf(out, "%s [%s]\n", t.Name, t.Flags); err != nil {
				return err
			}
		}
		return nil
	}

	for _, name := range args {
		id, ok := reg.Find(name)
		if !ok {
			id, ok = reg.Instantiate(name)
		}
		if !ok {
			return fmt.Errorf("unknown type %q", name)
		}
		if err := reg.Describe(out, id); err != nil {
			return err
		}
	}
	return nil
}
