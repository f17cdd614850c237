package trace

import (
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next event sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

func nextSpanID() uint64 { return spanCounter.Add(1) }

// Span is an open span. A zero-ID span (tracing disabled or the scope
// filtered out) accepts every call and records nothing.
type Span struct {
	tracer  Tracer
	head    Event // begin event; End derives the end event from it
	started time.Time
	extra   map[string]string
}

var noSpan = &Span{tracer: Nop}

// Begin opens a span under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	return beginOn(t, scope, name, SpanContext{SpanID: parent})
}

func beginOn(t Tracer, scope Scope, name string, parent SpanContext) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return noSpan
	}
	now := time.Now()
	s := &Span{
		tracer: t,
		head: Event{
			Time:     now,
			Kind:     KindSpanBegin,
			Scope:    scope,
			SpanID:   nextSpanID(),
			ParentID: parent.SpanID,
			Worker:   parent.Worker,
			Name:     name,
		},
		started: now,
	}
	ev := s.head
	ev.Seq = NextSeq()
	t.Emit(&ev)
	return s
}

// End closes the span with a short outcome such as "ok" or "3 members".
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.head.SpanID == 0 {
		return 0
	}
	ev := s.head
	ev.Time = time.Now()
	ev.Seq = NextSeq()
	ev.Kind = KindSpanEnd
	ev.Dur = ev.Time.Sub(s.started)
	ev.Detail = detail
	ev.Extra = s.extra
	s.tracer.Emit(&ev)
	return ev.Dur
}

// WithExtra attaches a key to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.head.SpanID == 0 {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID, 0 for a disabled span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.head.SpanID
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		Name:     name,
		Detail:   detail,
	})
}
