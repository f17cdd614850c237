// Package metadata adapts raw member records of the program model into the
// facts declaration synthesis needs: property kind (property or indexer),
// merged accessor visibility and the decoded signature.
//
// Adapters are cached per model in Members. Their derived fields are
// single-assignment cells, so one Members value can be shared by any number
// of goroutines without locking.
package metadata

import (
	"fmt"
	"sync/atomic"

	"projector/internal/model"
)

// Members caches property adapters of one model, one slot per entity.
type Members struct {
	m     *model.Model
	slots []atomic.Pointer[Property]
}

// NewMembers sizes the cache for the entities the model holds now.
// Entities added later are adapted without caching.
func NewMembers(m *model.Model) *Members {
	return &Members{
		m:     m,
		slots: make([]atomic.Pointer[Property], m.EntityCount()+1),
	}
}

// Model returns the model the cache adapts.
func (ms *Members) Model() *model.Model { return ms.m }

// Property returns the adapter for a raw property or indexer record.
func (ms *Members) Property(id model.EntityID) (*Property, error) {
	rec, ok := ms.m.Entity(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", model.ErrEntityNotFound, id)
	}
	if rec.Kind != model.EntityProperty && rec.Kind != model.EntityIndexer {
		return nil, fmt.Errorf("%w: %s is a %s", ErrNotProperty, rec.Name, rec.Kind)
	}
	if int(id) >= len(ms.slots) {
		return &Property{members: ms, id: id, rec: rec}, nil
	}
	slot := &ms.slots[id]
	if p := slot.Load(); p != nil {
		return p, nil
	}
	p := &Property{members: ms, id: id, rec: rec}
	if slot.CompareAndSwap(nil, p) {
		return p, nil
	}
	return slot.Load(), nil
}
