package diag

import (
	"sync"

	"projector/internal/model"
)

// DedupReporter forwards each distinct diagnostic once. Two reports are the
// same when code, severity, subject and message match, notes aside; a
// malformed attribute shared by many members is reported once.
type DedupReporter struct {
	next Reporter
	seen sync.Map // dedupKey -> struct{}
}

type dedupKey struct {
	code   Code
	sev    Severity
	typ    model.TypeID
	entity model.EntityID
	msg    string
}

func NewDedupReporter(next Reporter) *DedupReporter { return &DedupReporter{next: next} }

func (r *DedupReporter) Report(code Code, sev Severity, primary Subject, msg string, notes []Note) {
	if r == nil {
		return
	}
	key := dedupKey{code, sev, primary.Type, primary.Entity, msg}
	if _, dup := r.seen.LoadOrStore(key, struct{}{}); dup || r.next == nil {
		return
	}
	r.next.Report(code, sev, primary, msg, notes)
}
