package diag

import "sync"

// Reporter receives diagnostics from the projection layers. Every
// implementation in this package is safe for concurrent use.
type Reporter interface {
	Report(code Code, sev Severity, primary Subject, msg string, notes []Note)
}

// ReportBuilder assembles one diagnostic, notes included, and hands it to
// a Reporter on Emit.
//
//	diag.ReportWarning(r, diag.NameAmbiguous, subj, msg).
//		WithNote(other, "also visible").
//		Emit()
type ReportBuilder struct {
	to   Reporter
	d    Diagnostic
	sent bool
}

func NewReportBuilder(r Reporter, sev Severity, code Code, primary Subject, msg string) *ReportBuilder {
	return &ReportBuilder{to: r, d: Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary}}
}

func ReportError(r Reporter, code Code, primary Subject, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

func ReportWarning(r Reporter, code Code, primary Subject, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, msg)
}

func ReportInfo(r Reporter, code Code, primary Subject, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevInfo, code, primary, msg)
}

func (b *ReportBuilder) WithNote(s Subject, msg string) *ReportBuilder {
	if b != nil {
		b.d = b.d.WithNote(s, msg)
	}
	return b
}

// Emit reports the diagnostic. Only the first call has an effect.
func (b *ReportBuilder) Emit() {
	if b == nil || b.sent {
		return
	}
	b.sent = true
	if b.to != nil {
		b.to.Report(b.d.Code, b.d.Severity, b.d.Primary, b.d.Message, b.d.Notes)
	}
}

// BagReporter adds to a Bag under a lock, so parallel projection workers
// can share one bag.
type BagReporter struct {
	mu  sync.Mutex
	Bag *Bag
}

func NewBagReporter(b *Bag) *BagReporter { return &BagReporter{Bag: b} }

func (r *BagReporter) Report(code Code, sev Severity, primary Subject, msg string, notes []Note) {
	if r == nil || r.Bag == nil {
		return
	}
	d := Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes}
	r.mu.Lock()
	r.Bag.Add(d)
	r.mu.Unlock()
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, Subject, string, []Note) {}
