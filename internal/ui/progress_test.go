package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foryearslater/afsim-sub009/internal/driver"
)

func TestProgressModelEvents(t *testing.T) {
	events := make(chan driver.Event)
	m, ok := NewProgressModel("check", []string{"a.us", "b.us"}, events).(*progressModel)
	require.True(t, ok)

	m.Update(eventMsg{Stage: driver.StageDeclarations, Status: driver.StatusWorking})
	assert.Equal(t, "declarations", m.phase)

	m.Update(eventMsg{File: "a.us", Stage: driver.StageAnalyze, Status: driver.StatusWorking})
	assert.Equal(t, stateAnalyzing, m.rows[0].state)
	assert.InDelta(t, 0.25, m.percent(), 1e-9)

	m.Update(eventMsg{File: "a.us", Stage: driver.StageAnalyze, Status: driver.StatusDone, Elapsed: 3 * time.Millisecond})
	m.Update(eventMsg{File: "b.us", Stage: driver.StageRead, Status: driver.StatusError})
	m.Update(eventMsg{File: "other.us", Stage: driver.StageAnalyze, Status: driver.StatusDone})
	assert.InDelta(t, 1.0, m.percent(), 1e-9)

	m.Update(doneMsg{})
	view := m.View()
	assert.Contains(t, view, "done: check (declarations)  2/2, 1 failed")
	assert.Contains(t, view, "3ms")
	assert.Contains(t, view, "error")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghijkl", 7))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "abcdef", truncate("abcdef", 0))
}
