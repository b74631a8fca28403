package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foryearslater/afsim-sub009/internal/trace"
)

// traceConfig reads the --trace* flags. A bare --trace path turns the
// phase level on.
func traceConfig(cmd *cobra.Command) (trace.Config, error) {
	flags := cmd.Root().PersistentFlags()
	var (
		cfg              trace.Config
		levelName, mode  string
		errLvl, errMode  error
		errPath, errRing error
	)
	cfg.OutputPath, errPath = flags.GetString("trace")
	levelName, errLvl = flags.GetString("trace-level")
	mode, errMode = flags.GetString("trace-mode")
	cfg.RingSize, errRing = flags.GetInt("trace-ring-size")
	if err := errors.Join(errPath, errLvl, errMode, errRing); err != nil {
		return cfg, fmt.Errorf("trace flags: %w", err)
	}

	var err error
	if cfg.Level, err = trace.ParseLevel(levelName); err != nil {
		return cfg, err
	}
	if cfg.Level == trace.LevelOff && cfg.OutputPath != "" {
		cfg.Level = trace.LevelPhase
	}
	if cfg.Mode, err = trace.ParseMode(mode); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// setupTracing installs the tracer into the command context and returns
// the func that closes it.
func setupTracing(cmd *cobra.Command) (func(), error) {
	cfg, err := traceConfig(cmd)
	if err != nil {
		return nil, err
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, err
	}
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	stderr := cmd.ErrOrStderr()
	return func() {
		// Close сам сбрасывает буфер
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(stderr, "trace: %v\n", err)
		}
	}, nil
}
