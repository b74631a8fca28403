package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/foryearslater/afsim-sub009/internal/driver"
	"github.com/foryearslater/afsim-sub009/internal/index"
	"github.com/foryearslater/afsim-sub009/internal/project"
	"github.com/foryearslater/afsim-sub009/internal/source"
)

var indexCmd = &cobra.Command{
	Use:   "index [flags] [files...]",
	Short: "Write declarations and highlighting of script files to the SQLite index",
	Long: `Index analyzes the files and stores their declarations and special tokens
in the SQLite index. Files whose text and declarations did not change since the
last run are skipped.`,
	RunE: runIndex,
}

var defCmd = &cobra.Command{
	Use:   "def [flags] file name",
	Short: "Look up where a name is declared in an indexed file",
	Args:  cobra.ExactArgs(2),
	RunE:  runDef,
}

func init() {
	indexCmd.Flags().String("db", "", "index database (default: [index].path of uscheck.toml)")
	indexCmd.Flags().Bool("force", false, "re-index unchanged files")
	defCmd.Flags().String("db", "", "index database (default: [index].path of uscheck.toml)")
}

func openIndex(cmd *cobra.Command, s *settings) (*index.Store, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = s.config.IndexPath()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}
	store, err := index.OpenStore(dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// declDigests - хеши деклараций в порядке загрузки; входят в хеш каждого файла.
func declDigests(d *driver.Declarations) []project.Digest {
	out := make([]project.Digest, 0, len(d.Sets))
	for _, set := range d.Sets {
		if f := d.FileSet.Get(set.File); f != nil {
			out = append(out, project.Digest(f.Hash))
		}
	}
	return out
}

func runIndex(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")
	files := args
	if len(files) == 0 {
		if files, err = s.config.ScriptFiles(); err != nil {
			return err
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no script files to index")
	}

	res, err := driver.Analyze(cmd.Context(), driver.Options{
		Declarations:   s.declarations,
		Files:          files,
		Jobs:           s.config.Check.Jobs,
		MaxDiagnostics: s.maxDiagnostics,
		Globals:        s.globals,
		Cache:          s.cache,
	})
	if err != nil {
		return err
	}
	store, err := openIndex(cmd, s)
	if err != nil {
		return err
	}
	defer store.Close()

	digests := declDigests(res.Decls)
	written, skipped := 0, 0
	for _, fr := range res.Files {
		if fr.Detail == nil {
			// файл не прочитался; диагностика уже в Bag
			continue
		}
		path, err := filepath.Abs(fr.Path)
		if err != nil {
			return err
		}
		hash := project.Combine(project.Digest(res.FileSet.Get(fr.FileID).Hash), digests...).String()
		if !force {
			old, ok, err := store.FileHash(path)
			if err != nil {
				return err
			}
			if ok && old == hash {
				skipped++
				continue
			}
		}
		syms, toks := fr.Detail.Rows(fr.Session)
		if err := store.ReplaceFile(path, hash, syms, toks); err != nil {
			return fmt.Errorf("index %s: %w", fr.Path, err)
		}
		written++
	}
	if !s.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "indexed %d files, %d unchanged\n", written, skipped)
	}
	if s.timings {
		printTimings(cmd.ErrOrStderr(), res.Timer)
	}
	return nil
}

func runDef(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	store, err := openIndex(cmd, s)
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := store.Definition(path, args[1])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s: %q is not declared (is the file indexed?)", args[0], args[1])
	}
	// для line:col читаем текущий текст; если файла нет, печатаем смещения
	fs := source.NewFileSet()
	id, loadErr := fs.Load(path)
	out := cmd.OutOrStdout()
	for _, row := range rows {
		where := fmt.Sprintf("%s@%d", args[0], row.Start)
		if loadErr == nil {
			pos, _ := fs.Resolve(source.Span{File: id, Start: row.Start, End: row.End})
			where = fmt.Sprintf("%s:%d:%d", args[0], pos.Line, pos.Col)
		}
		fmt.Fprintf(out, "%s: %s %s %s %s (seq %d)\n", where, row.Storage, row.Kind, row.Type, row.Name, row.Seq)
	}
	return nil
}
