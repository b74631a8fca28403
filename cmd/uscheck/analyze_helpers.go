package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/foryearslater/afsim-sub009/internal/driver"
	"github.com/foryearslater/afsim-sub009/internal/index"
	"github.com/foryearslater/afsim-sub009/internal/source"
)

// analyzeOne checks a single file with an optional cursor for editor queries.
func analyzeOne(cmd *cobra.Command, s *settings, path string, cursor func(*source.File) (uint32, error)) (*driver.FileResult, *source.File, error) {
	decls, err := loadDecls(cmd, s)
	if err != nil {
		return nil, nil, err
	}
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	file := fs.Get(id)

	opts := driver.FileOptions{MaxDiagnostics: s.maxDiagnostics, Globals: s.globals, Cursor: index.NoCursor}
	if cursor != nil {
		if opts.Cursor, err = cursor(file); err != nil {
			return nil, nil, err
		}
	}
	return driver.AnalyzeSource(cmd.Context(), decls, fs, file, opts), file, nil
}

// parsePosition принимает байтовое смещение или line:col (обе части с 1).
func parsePosition(file *source.File, pos string) (uint32, error) {
	if line, col, ok := strings.Cut(pos, ":"); ok {
		l, err := strconv.ParseUint(line, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("bad line in %q: %w", pos, err)
		}
		c, err := strconv.ParseUint(col, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("bad column in %q: %w", pos, err)
		}
		off, ok := file.Offset(source.LineCol{Line: uint32(l), Col: uint32(c)})
		if !ok {
			return 0, fmt.Errorf("position %s is outside %s", pos, file.Path)
		}
		return off, nil
	}
	off, err := strconv.ParseUint(pos, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad offset %q: %w", pos, err)
	}
	if off > uint64(len(file.Content)) {
		return 0, fmt.Errorf("offset %d is past the end of %s", off, file.Path)
	}
	return uint32(off), nil
}

// identPrefix возвращает часть идентификатора слева от off.
func identPrefix(content []byte, off uint32) string {
	start := int(off)
	for start > 0 {
		c := content[start-1]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			start--
			continue
		}
		break
	}
	return string(content[start:off])
}
