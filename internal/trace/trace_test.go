package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelFiltersScopes(t *testing.T) {
	ring := NewRingTracer(16, LevelPhase)
	Begin(ring, ScopePass, "resolve", 0).End("")
	Point(ring, ScopeModule, "decl", "main::f", 0)
	Point(ring, ScopeNode, "overload", "", 0)

	events := ring.Snapshot()
	require.Len(t, events, 2)
	require.Equal(t, KindSpanBegin, events[0].Kind)
	require.Equal(t, KindSpanEnd, events[1].Kind)
	require.Less(t, events[0].Seq, events[1].Seq)
}

func TestRingWraps(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeNode, name, "", 0)
	}
	events := ring.Snapshot()
	require.Len(t, events, 2)
	require.Equal(t, "b", events[0].Name)
	require.Equal(t, "c", events[1].Name)
}

func TestStreamText(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDetail, Mode: ModeStream, Format: FormatText, Output: &buf})
	require.NoError(t, err)
	span := Begin(tr, ScopePass, "emit", 0).WithExtra("funcs", "2").WithExtra("globals", "1")
	span.End("ok")
	out := buf.String()
	require.Contains(t, out, "[pass] > emit\n")
	require.Contains(t, out, "[pass] < emit (ok) {funcs=2, globals=1}\n")
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewMultiTracer(LevelDebug, NewStreamTracer(&buf, LevelDebug, FormatNDJSON))
	Point(tr, ScopeNode, "overload", "f -> main::f$i32", 7)
	line := strings.TrimSpace(buf.String())
	require.True(t, strings.HasPrefix(line, "{"))
	require.Contains(t, line, `"name":"overload"`)
	require.Contains(t, line, `"parent_id":7`)
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	require.Equal(t, Nop, FromContext(ctx))
	ring := NewRingTracer(4, LevelDebug)
	ctx = WithTracer(ctx, ring)
	require.Equal(t, Tracer(ring), FromContext(ctx))

	span := Begin(ring, ScopeDriver, "compile", 0)
	ctx = WithParent(ctx, span)
	require.Equal(t, span.ID(), ParentFromContext(ctx))
}

func TestParsers(t *testing.T) {
	lvl, err := ParseLevel("DETAIL")
	require.NoError(t, err)
	require.Equal(t, LevelDetail, lvl)
	_, err = ParseLevel("loud")
	require.Error(t, err)
	f, err := ParseFormat("ndjson")
	require.NoError(t, err)
	require.Equal(t, FormatNDJSON, f)
	off, err := New(Config{Level: LevelOff})
	require.NoError(t, err)
	require.False(t, off.Enabled())
}
