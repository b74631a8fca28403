package observ

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"text/tabwriter"
	"time"
)

// Phase is one measured step.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

func (p Phase) end() time.Time { return p.Start.Add(p.Dur) }

// Timer collects phases; analysis workers Track per-file phases while the
// driver holds the outer ones open, so every method locks.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

func NewTimer() *Timer { return &Timer{} }

// Begin opens a phase; pass the index to End.
func (t *Timer) Begin(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End closes phase idx; unknown indexes are ignored.
func (t *Timer) End(idx int, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx >= 0 && idx < len(t.phases) {
		p := &t.phases[idx]
		p.Dur, p.Note = time.Since(p.Start), note
	}
}

// Track adds a phase that has already finished.
func (t *Timer) Track(name string, dur time.Duration, note string) {
	now := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: now.Add(-dur), Dur: dur, Note: note})
}

type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func millis(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

// Report lists phases by start time. Per-file phases overlap, so the total
// is wall time from the first start to the last end rather than a sum.
func (t *Timer) Report() Report {
	t.mu.Lock()
	phases := slices.Clone(t.phases)
	t.mu.Unlock()
	if len(phases) == 0 {
		return Report{}
	}
	slices.SortStableFunc(phases, func(a, b Phase) int { return a.Start.Compare(b.Start) })

	rep := Report{Phases: make([]PhaseReport, 0, len(phases))}
	last := phases[0].end()
	for _, p := range phases {
		if e := p.end(); e.After(last) {
			last = e
		}
		rep.Phases = append(rep.Phases, PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note})
	}
	rep.TotalMS = millis(last.Sub(phases[0].Start))
	return rep
}

// Summary renders Report as an aligned table.
func (t *Timer) Summary() string {
	rep := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, p := range rep.Phases {
		note := ""
		if p.Note != "" {
			note = "// " + p.Note
		}
		fmt.Fprintf(tw, "  %s\t%.2f ms\t  %s\t\n", p.Name, p.DurationMS, note)
	}
	fmt.Fprintf(tw, "  total\t%.2f ms\t\t\n", rep.TotalMS)
	_ = tw.Flush()
	return b.String()
}
