package observ

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerConcurrentTrack(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("analyze")

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			tm.Track("file", 2*time.Millisecond, "")
		})
	}
	wg.Wait()
	tm.End(idx, "8 files")
	tm.End(99, "ignored")

	rep := tm.Report()
	require.Len(t, rep.Phases, 9)
	assert.GreaterOrEqual(t, rep.TotalMS, 2.0)
	sum := tm.Summary()
	assert.Contains(t, sum, "// 8 files")
	assert.Contains(t, sum, "total")
}

func TestEmptyReport(t *testing.T) {
	assert.Equal(t, Report{}, NewTimer().Report())
}
