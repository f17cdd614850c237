package observ

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
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

func TestTimerPhases(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(2 * time.Millisecond)

	stop := tm.Start("snapshot")
	stop("geometry.mp")
	stop("again")
	tm.Start("project")("")

	phases := tm.Phases()
	require.Len(t, phases, 2)
	assert.Equal(t, Phase{Name: "snapshot", Dur: 2 * time.Millisecond, Note: "geometry.mp"}, phases[0])
	assert.Equal(t, 4*time.Millisecond, tm.Total())

	s := tm.Summary()
	assert.Contains(t, s, "  snapshot         2.00 ms  // geometry.mp\n")
	assert.Contains(t, s, "total            4.00 ms")
}

func TestNilAndEmptyTimer(t *testing.T) {
	var tm *Timer
	tm.Start("config")("ignored")
	assert.Zero(t, tm.Total())
	assert.Equal(t, "timings:\n  total            0.00 ms\n", NewTimer().Summary())
}
