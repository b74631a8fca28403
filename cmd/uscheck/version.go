package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/foryearslater/afsim-sub009/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show uscheck build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		out := cmd.OutOrStdout()
		if format == "json" {
			return writeJSON(out, version.Current())
		}
		if format != "pretty" {
			return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
		}
		_, err := io.WriteString(out, version.Banner(useColor(cmd, os.Stdout)))
		return err
	},
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}
