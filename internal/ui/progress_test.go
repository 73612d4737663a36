package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ember/internal/driver"
	"ember/internal/layout"
	"ember/internal/observ"
)

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", Truncate("short", 10))
	require.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	require.Equal(t, "ab", Truncate("abcdef", 2))
	require.Equal(t, "as is", Truncate("as is", 0))
}

func TestProgressModelTracksUnits(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("checking", []string{"a.emb", "b.emb"}, events).(*progressModel)

	m.Update(eventMsg{File: "a.emb", Phase: "check", Status: driver.StatusWorking})
	require.Equal(t, "checking", m.items[0].status)
	require.InDelta(t, 0.25, m.fraction(), 1e-9)

	m.Update(eventMsg{File: "a.emb", Status: driver.StatusDone})
	m.Update(eventMsg{File: "b.emb", Status: driver.StatusError})
	m.Update(eventMsg{File: "unknown.emb", Status: driver.StatusDone})
	require.InDelta(t, 1.0, m.fraction(), 1e-9)

	view := m.View()
	require.Contains(t, view, "checking")
	require.Contains(t, view, "a.emb")
	require.Contains(t, view, "error")

	_, cmd := m.Update(doneMsg{})
	require.NotNil(t, cmd)
	require.True(t, m.done)
	require.True(t, strings.Contains(m.View(), "done: checking"))
}

func TestStatusLabel(t *testing.T) {
	require.Equal(t, "loading", statusLabel(driver.Event{Phase: "load", Status: driver.StatusWorking}))
	require.Equal(t, "emitting", statusLabel(driver.Event{Phase: "emit", Status: driver.StatusWorking}))
	require.Equal(t, "queued", statusLabel(driver.Event{Status: driver.StatusQueued}))
}

func TestTimingTable(t *testing.T) {
	out := TimingTable("main.emb", observ.Report{
		TotalMS: 3.5,
		Phases: []observ.PhaseReport{
			{Name: "register", DurationMS: 1},
			{Name: "check", DurationMS: 2.5, Note: "failed"},
		},
	})
	for _, want := range []string{"main.emb", "phase", "register", "2.50", "failed", "total", "3.50"} {
		require.Contains(t, out, want)
	}
}

func TestTargetTable(t *testing.T) {
	out := TargetTable([]layout.Target{layout.X86_64LinuxGNU(), layout.I686LinuxGNU()})
	require.Contains(t, out, "x86_64-unknown-linux-gnu")
	require.Contains(t, out, "i686-unknown-linux-gnu")
	require.Contains(t, out, "preset")
}
