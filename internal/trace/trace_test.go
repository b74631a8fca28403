package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelAllowsScopes(t *testing.T) {
	assert.True(t, LevelPhase.Allows(ScopeDriver))
	assert.True(t, LevelPhase.Allows(ScopePhase))
	assert.False(t, LevelPhase.Allows(ScopeFile))
	assert.True(t, LevelDetail.Allows(ScopeFile))
	assert.False(t, LevelDetail.Allows(ScopeNode))
	assert.True(t, LevelDebug.Allows(ScopeNode))
	assert.False(t, LevelError.Allows(ScopeDriver))
	assert.False(t, LevelOff.Allows(ScopeDriver))

	lvl, err := ParseLevel("DETAIL")
	require.NoError(t, err)
	assert.Equal(t, LevelDetail, lvl)
	_, err = ParseLevel("loud")
	assert.ErrorContains(t, err, "off|error|phase|detail|debug")

	m, err := ParseMode("Both")
	require.NoError(t, err)
	assert.Equal(t, ModeBoth, m)
	_, err = ParseMode("tape")
	assert.Error(t, err)
}

func newStream(t *testing.T, level Level, f Format) (Tracer, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	tr, err := New(Config{Level: level, Mode: ModeStream, Format: f, Output: &buf})
	require.NoError(t, err)
	return tr, &buf
}

func TestStreamText(t *testing.T) {
	tr, buf := newStream(t, LevelDetail, FormatText)

	sp := Begin(tr, ScopePhase, "analyze", 0)
	Point(tr, ScopeNode, "push_scope", "dropped at detail")
	child := Begin(tr, ScopeFile, "analyze_file", sp.ID())
	child.End("")
	sp.WithExtra("files", "2").End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "> phase:analyze")
	assert.Contains(t, lines[1], "  > file:analyze_file")
	assert.Contains(t, lines[3], "< phase:analyze (ok)")
	assert.True(t, strings.HasSuffix(lines[3], "{files=2}"))
}

func TestStreamNDJSON(t *testing.T) {
	tr, buf := newStream(t, LevelDebug, FormatNDJSON)
	Point(tr, ScopeNode, "push_scope", "scope=3")

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "point", got["kind"])
	assert.Equal(t, "node", got["scope"])
	assert.Equal(t, "push_scope", got["name"])
	assert.Equal(t, "scope=3", got["detail"])
}

func TestInactiveSpanIgnoresCalls(t *testing.T) {
	tr, buf := newStream(t, LevelPhase, FormatText)
	sp := Begin(tr, ScopeFile, "skipped", 0)
	assert.Zero(t, sp.ID())
	sp.WithExtra("k", "v").End("x")
	assert.Empty(t, buf.String())

	var nilSpan *Span
	assert.Zero(t, nilSpan.End(""))
	Begin(nil, ScopeDriver, "nil", 0).End("")
}

func TestRingKeepsNewest(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDebug, Mode: ModeRing, Format: FormatText, Output: &buf, RingSize: 2})
	require.NoError(t, err)
	rec := tr.(*Recorder)
	for _, name := range []string{"a", "b", "c"} {
		Point(tr, ScopeNode, name, "")
	}
	snap := rec.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "b", snap[0].Name)
	assert.Equal(t, "c", snap[1].Name)
	assert.Empty(t, buf.String(), "ring mode writes on close")

	require.NoError(t, tr.Close())
	out := buf.String()
	assert.NotContains(t, out, "node:a")
	assert.Contains(t, out, "node:c")

	// после Close записи не принимаются
	Point(tr, ScopeNode, "d", "")
	assert.Len(t, rec.Snapshot(), 2)
	require.NoError(t, tr.Close())
}

func TestBothModeStreamsAndRemembers(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	require.NoError(t, err)
	Begin(tr, ScopeDriver, "check", 0).End("")
	assert.Equal(t, 2, strings.Count(buf.String(), "driver:check"))

	var dump bytes.Buffer
	require.NoError(t, tr.(*Recorder).Dump(&dump))
	assert.Equal(t, buf.String(), dump.String())
}

func TestNewOpensOutputPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ndjson")
	tr, err := New(Config{Level: LevelPhase, Mode: ModeStream, OutputPath: path})
	require.NoError(t, err)
	Begin(tr, ScopePhase, "decl_build", 0).End("types=3")
	require.NoError(t, tr.Flush())
	require.NoError(t, tr.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	var end map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &end))
	assert.Equal(t, "end", end["kind"])
	assert.Equal(t, "types=3", end["detail"])

	_, err = New(Config{Level: LevelPhase, OutputPath: filepath.Join(path, "nested")})
	assert.Error(t, err)
}

func TestOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff, Mode: ModeStream})
	require.NoError(t, err)
	assert.Equal(t, Nop, tr)
	assert.Equal(t, LevelOff, tr.Level())
}

func TestContextPropagation(t *testing.T) {
	assert.Equal(t, Nop, FromContext(context.Background()))
	tr, _ := newStream(t, LevelDebug, FormatText)
	ctx := WithTracer(context.Background(), tr)
	assert.Same(t, tr, FromContext(ctx))
	assert.Equal(t, Nop, FromContext(WithTracer(ctx, nil)))
}
