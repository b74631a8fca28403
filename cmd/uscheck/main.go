package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/foryearslater/afsim-sub009/internal/version"
)

var rootCmd = &cobra.Command{
	Use:          "uscheck",
	Short:        "Semantic checker for simulation scripts",
	Long:         `uscheck type-checks script files against class declarations and answers editor queries`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		profCleanup, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		profileCleanup = profCleanup
		return nil
	},
}

var (
	traceCleanup   func()
	profileCleanup func()
)

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(hintCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(defCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("config", "", "path to uscheck.toml (default: search upward from the working directory)")
	rootCmd.PersistentFlags().StringArray("decls", nil, "extra class declaration file (repeatable)")
	rootCmd.PersistentFlags().StringArray("global", nil, "extra application variable as \"Type NAME\" (repeatable)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "do not read or write the declaration cache")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (\"-\" for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept in ring mode")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")
}

// main запускает root; ошибка команды или найденные ошибки в скриптах
// дают код выхода 1.
func main() {
	err := rootCmd.Execute()
	// профили и трассировку закрываем и при ошибке команды
	if profileCleanup != nil {
		profileCleanup()
	}
	if traceCleanup != nil {
		traceCleanup()
	}
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
