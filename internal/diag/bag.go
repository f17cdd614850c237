package diag

import (
	"cmp"
	"math"
	"slices"

	"fortio.org/safecast"
)

// Bag collects diagnostics up to a fixed limit. It is not safe for
// concurrent use; wrap it in a BagReporter for that.
type Bag struct {
	items []Diagnostic
	limit uint16
}

// NewBag returns a bag holding at most limit diagnostics. Limits that do
// not fit a uint16 are clamped.
func NewBag(limit int) *Bag {
	l, err := safecast.Conv[uint16](limit)
	if err != nil {
		l = math.MaxUint16
		if limit < 0 {
			l = 0
		}
	}
	return &Bag{items: make([]Diagnostic, 0, min(int(l), 64)), limit: l}
}

// Add reports false when the bag is full and d was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.limit) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int { return len(b.items) }

// Items returns the backing slice. Do not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

func (b *Bag) HasErrors() bool { return b.atLeast(SevError) }

func (b *Bag) HasWarnings() bool { return b.atLeast(SevWarning) }

func (b *Bag) atLeast(sev Severity) bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= sev })
}

// Sort orders by subject type, then entity, then most severe first, so
// parallel runs print identically.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.Type, y.Primary.Type),
			cmp.Compare(x.Primary.Entity, y.Primary.Entity),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
			cmp.Compare(x.Message, y.Message),
		)
	})
}
