package observ

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	cur := time.Unix(0, 0)
	return func() time.Time {
		cur = cur.Add(step)
		return cur
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(2 * time.Millisecond)

	idx := tm.Begin("register")
	tm.End(idx, "")
	err := tm.Track("check", func() error { return errors.New("boom") })
	require.EqualError(t, err, "boom")

	r := tm.Report()
	require.Len(t, r.Phases, 2)
	require.Equal(t, "register", r.Phases[0].Name)
	require.InDelta(t, 2.0, r.Phases[0].DurationMS, 1e-9)
	require.Equal(t, "failed", r.Phases[1].Note)
	require.InDelta(t, 4.0, r.TotalMS, 1e-9)

	sum := r.Summary()
	require.Contains(t, sum, "register")
	require.Contains(t, sum, "(failed)")
	require.Contains(t, sum, "total")
}

func TestTimerIgnoresBadIndex(t *testing.T) {
	tm := NewTimer()
	tm.End(3, "x")
	require.Empty(t, tm.Report().Phases)

	var nilTimer *Timer
	require.Equal(t, Report{}, nilTimer.Report())
}
