// Package observ measures the wall-clock phases of a CLI run.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one timed step, such as loading a snapshot or projecting a
// namespace.
type Phase struct {
	Name string
	Dur  time.Duration
	Note string // short outcome, e.g. the snapshot path
}

// Timer collects phases in the order they start. A nil *Timer times
// nothing. Not safe for concurrent use.
type Timer struct {
	phases []Phase
	now    func() time.Time
}

func NewTimer() *Timer { return &Timer{now: time.Now} }

// Start opens a phase. The returned func closes it with a note; calls
// after the first are ignored.
func (t *Timer) Start(name string) func(note string) {
	if t == nil {
		return func(string) {}
	}
	idx := len(t.phases)
	t.phases = append(t.phases, Phase{Name: name})
	begin := t.now()
	done := false
	return func(note string) {
		if done {
			return
		}
		done = true
		t.phases[idx].Dur = t.now().Sub(begin)
		t.phases[idx].Note = note
	}
}

// Phases returns the recorded phases. Do not modify the result.
func (t *Timer) Phases() []Phase {
	if t == nil {
		return nil
	}
	return t.phases
}

// Total is the sum of all phase durations.
func (t *Timer) Total() time.Duration {
	var sum time.Duration
	for _, p := range t.Phases() {
		sum += p.Dur
	}
	return sum
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

// Summary renders
//
//	timings:
//	  snapshot         2.00 ms  // geometry.mp
//	  total            2.00 ms
func (t *Timer) Summary() string {
	var sb strings.Builder
	sb.WriteString("timings:\n")
	line := func(name string, d time.Duration, note string) {
		fmt.Fprintf(&sb, "  %-12s %8.2f ms", name, ms(d))
		if note != "" {
			fmt.Fprintf(&sb, "  // %s", note)
		}
		sb.WriteByte('\n')
	}
	for _, p := range t.Phases() {
		line(p.Name, p.Dur, p.Note)
	}
	line("total", t.Total(), "")
	return sb.String()
}
