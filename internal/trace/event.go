package trace

import "time"

type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint // instant event without a span
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	// ScopeDriver covers a whole command (load, project, print).
	ScopeDriver Scope = iota + 1
	// ScopeType covers the projection of one type declaration.
	ScopeType
	// ScopeMember covers single members and name decisions.
	ScopeMember
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopeType:
		return "type"
	case ScopeMember:
		return "member"
	default:
		return "unknown"
	}
}

// Event is one trace record. Seq is assigned when the event is created, so
// every sink sees the same numbering.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	Worker   int    // projection worker slot, 0 outside parallel runs
	Name     string // "project all", "declare type", "entity"
	Detail   string
	Dur      time.Duration // span length, set on KindSpanEnd
	Extra    map[string]string
}
