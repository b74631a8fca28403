package trace

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// Level controls verbosity.
type Level uint8

const (
	LevelOff Level = iota
	// LevelError keeps the tracer alive without emitting anything.
	LevelError
	LevelPhase
	LevelDetail
	LevelDebug
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, error) {
	if i := slices.Index(levelNames[:], strings.ToLower(s)); i >= 0 {
		return Level(i), nil
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// Scope is the granularity of a record; smaller is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // whole run
	ScopePhase                   // declarations, analysis, index
	ScopeFile                    // one script
	ScopeNode                    // scope push/pop
)

var scopeNames = [...]string{"", "driver", "phase", "file", "node"}

func (s Scope) String() string {
	if s > 0 && int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return "unknown"
}

// Allows reports whether records of scope pass the level.
func (l Level) Allows(s Scope) bool {
	switch l {
	case LevelPhase:
		return s <= ScopePhase
	case LevelDetail:
		return s <= ScopeFile
	case LevelDebug:
		return true
	}
	return false
}

// Mode selects where a Recorder keeps records.
type Mode uint8

const (
	ModeStream Mode = iota + 1
	ModeRing
	ModeBoth
)

var modeNames = [...]string{"", "stream", "ring", "both"}

func (m Mode) String() string {
	if m > 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode accepts stream, ring or both.
func ParseMode(s string) (Mode, error) {
	if i := slices.Index(modeNames[1:], strings.ToLower(s)); i >= 0 {
		return Mode(i + 1), nil
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// Tracer receives records. Implementations are goroutine-safe.
type Tracer interface {
	Emit(r Record)
	Level() Level
	Flush() error
	Close() error
}

type nop struct{}

func (nop) Emit(Record)  {}
func (nop) Level() Level { return LevelOff }
func (nop) Flush() error { return nil }
func (nop) Close() error { return nil }

// Nop drops everything.
var Nop Tracer = nop{}

// Config describes a Recorder.
type Config struct {
	Level Level
	Mode  Mode
	// Format zero picks NDJSON for *.ndjson and *.json paths, text otherwise.
	Format Format
	// Output wins over OutputPath; "-" or empty path means stderr.
	Output     io.Writer
	OutputPath string
	RingSize   int
}

const defaultRingSize = 4096

// New builds a tracer for cfg; LevelOff gives Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Mode == 0 {
		cfg.Mode = ModeStream
	}
	if cfg.Mode > ModeBoth {
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}
	if cfg.Format == FormatAuto {
		cfg.Format = FormatText
		if strings.HasSuffix(cfg.OutputPath, ".ndjson") || strings.HasSuffix(cfg.OutputPath, ".json") {
			cfg.Format = FormatNDJSON
		}
	}
	w := cfg.Output
	var closer io.Closer
	if w == nil {
		switch cfg.OutputPath {
		case "", "-":
			w = os.Stderr
		default:
			f, err := os.Create(cfg.OutputPath)
			if err != nil {
				return nil, fmt.Errorf("failed to open trace output: %w", err)
			}
			w, closer = f, f
		}
	}
	r := &Recorder{level: cfg.Level, format: cfg.Format, out: w, closer: closer}
	if cfg.Mode != ModeRing {
		r.stream = true
	}
	if cfg.Mode != ModeStream {
		size := cfg.RingSize
		if size <= 0 {
			size = defaultRingSize
		}
		r.ring = make([]Record, size)
	}
	return r, nil
}

type ctxKey struct{}

// WithTracer attaches t to ctx; nil attaches Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

// FromContext returns the attached tracer or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}
