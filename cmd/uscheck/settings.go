package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/foryearslater/afsim-sub009/internal/decl"
	"github.com/foryearslater/afsim-sub009/internal/driver"
	"github.com/foryearslater/afsim-sub009/internal/project"
)

// settings merges uscheck.toml with the global flags; flags win.
type settings struct {
	config         project.Config
	hasConfig      bool
	declarations   []string
	globals        []driver.Global
	maxDiagnostics int
	cache          *decl.DiskCache
	quiet          bool
	timings        bool
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Root().PersistentFlags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	s := &settings{}
	if configPath != "" {
		s.config, err = project.Load(configPath)
		s.hasConfig = err == nil
	} else {
		s.config, s.hasConfig, err = project.Discover(".")
	}
	if err != nil {
		return nil, err
	}

	s.declarations = s.config.DeclarationPaths()
	extraDecls, err := flags.GetStringArray("decls")
	if err != nil {
		return nil, fmt.Errorf("failed to get decls flag: %w", err)
	}
	s.declarations = append(s.declarations, extraDecls...)

	extraGlobals, err := flags.GetStringArray("global")
	if err != nil {
		return nil, fmt.Errorf("failed to get global flag: %w", err)
	}
	for _, g := range append(append([]string(nil), s.config.Check.Globals...), extraGlobals...) {
		parsed, err := driver.ParseGlobal(g)
		if err != nil {
			return nil, err
		}
		s.globals = append(s.globals, parsed)
	}

	s.maxDiagnostics = s.config.Check.MaxDiagnostics
	if flags.Changed("max-diagnostics") || !s.hasConfig {
		if s.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}

	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if s.config.Cache.Enabled && !noCache {
		s.cache = openCache(cmd, s.config.CacheDir())
	}

	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return s, nil
}

// openCache возвращает nil, если каталог кэша недоступен: проверка работает и без него.
func openCache(cmd *cobra.Command, dir string) *decl.DiskCache {
	var (
		cache *decl.DiskCache
		err   error
	)
	if dir == "" {
		cache, err = decl.OpenDiskCache("uscheck")
	} else {
		cache, err = decl.OpenDiskCacheDir(dir)
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: declaration cache disabled: %v\n", err)
		return nil
	}
	return cache
}

// useColor решает по --color, включать ли цвет для f.
func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	switch colorFlag {
	case "on":
		return true
	case "off":
		return false
	}
	return isTerminal(f) && os.Getenv("NO_COLOR") == ""
}
