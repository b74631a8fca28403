package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/diagfmt"
	"github.com/foryearslater/afsim-sub009/internal/driver"
)

var errCheckFailed = errors.New("check failed")

var checkCmd = &cobra.Command{
	Use:   "check [flags] [files...]",
	Short: "Type-check script files",
	Long: `Check parses every script file and reports semantic errors against the
declared classes. Without arguments the [check].scripts globs of uscheck.toml
are used.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	checkCmd.Flags().String("progress", "off", "show progress UI (auto|on|off)")
	checkCmd.Flags().Int("jobs", 0, "files analyzed in parallel (0 = GOMAXPROCS or [check].jobs)")
	checkCmd.Flags().String("path-mode", "auto", "how to print paths (auto|absolute|relative|basename)")
	checkCmd.Flags().Bool("notes", true, "print diagnostic notes")
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" && format != "short" {
		return fmt.Errorf("unknown format: %s", format)
	}
	progressFlag, err := cmd.Flags().GetString("progress")
	if err != nil {
		return fmt.Errorf("failed to get progress flag: %w", err)
	}
	mode, err := readUIMode(progressFlag)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if !cmd.Flags().Changed("jobs") {
		jobs = s.config.Check.Jobs
	}
	pathModeFlag, _ := cmd.Flags().GetString("path-mode")
	showNotes, _ := cmd.Flags().GetBool("notes")

	files := args
	if len(files) == 0 {
		if files, err = s.config.ScriptFiles(); err != nil {
			return err
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no script files to check (pass files or set [check].scripts in uscheck.toml)")
	}

	opts := driver.Options{
		Declarations:   s.declarations,
		Files:          files,
		Jobs:           jobs,
		MaxDiagnostics: s.maxDiagnostics,
		Globals:        s.globals,
		Cache:          s.cache,
	}
	var res *driver.Result
	if format == "pretty" && !s.quiet && shouldUseTUI(mode) {
		res, err = runCheckWithUI(cmd.Context(), "uscheck check", opts)
	} else {
		res, err = driver.Analyze(cmd.Context(), opts)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	bag := res.Diagnostics()
	if s.quiet {
		bag = onlyErrors(bag)
	}
	switch format {
	case "short":
		for _, text := range []string{
			diag.FormatShortDiagnostics(res.Decls.Bag.Items(), res.Decls.FileSet, showNotes),
			diag.FormatShortDiagnostics(bag.Items(), res.FileSet, showNotes),
		} {
			if text != "" {
				fmt.Fprintln(out, text)
			}
		}
	case "json":
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.ParsePathMode(pathModeFlag),
			IncludeNotes:     showNotes,
		}
		// декларации и скрипты живут в разных FileSet, поэтому одна JSON-выдача собирается из двух
		doc := diagfmt.BuildDiagnosticsOutput(res.Decls.Bag, res.Decls.FileSet, jsonOpts)
		doc.Append(diagfmt.BuildDiagnosticsOutput(bag, res.FileSet, jsonOpts))
		if err := writeJSON(out, doc); err != nil {
			return err
		}
	default:
		prettyOpts := diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stdout),
			Context:   1,
			PathMode:  diagfmt.ParsePathMode(pathModeFlag),
			ShowNotes: showNotes,
		}
		diagfmt.Pretty(out, res.Decls.Bag, res.Decls.FileSet, prettyOpts)
		diagfmt.Pretty(out, bag, res.FileSet, prettyOpts)
		if !s.quiet {
			all := diag.NewBag(0)
			all.Merge(res.Decls.Bag)
			all.Merge(bag)
			diagfmt.Summary(out, all, prettyOpts.Color)
		}
	}
	if s.timings {
		printTimings(cmd.ErrOrStderr(), res.Timer)
	}
	if res.HasErrors() {
		cmd.SilenceErrors = true
		return errCheckFailed
	}
	return nil
}

func onlyErrors(bag *diag.Bag) *diag.Bag {
	out := diag.NewBag(0)
	for _, d := range bag.Items() {
		if d.Severity >= diag.SevError {
			out.Add(d)
		}
	}
	return out
}
