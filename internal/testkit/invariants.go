package testkit

import (
	"fmt"

	"projector/internal/model"
)

// CheckModelInvariants runs a minimal set of structural invariants on a
// built model:
// 1) every member listed by a definition names it as declaring type
// 2) every nested type names its outer type and is listed there once
// 3) accessors point back at the property or event that owns them
// 4) type parameters carry their owner and position
func CheckModelInvariants(m *model.Model) error {
	if m == nil {
		return fmt.Errorf("nil model")
	}
	for _, id := range m.Definitions() {
		d, _ := m.Definition(id)
		for _, mid := range d.Members {
			e, ok := m.Entity(mid)
			if !ok {
				return fmt.Errorf("%s: member %d does not exist", m.FullName(id), mid)
			}
			if e.DeclaringType != id {
				return fmt.Errorf("%s: member %s declared by %d", m.FullName(id), e.Name, e.DeclaringType)
			}
			if err := checkAccessors(m, mid, e); err != nil {
				return fmt.Errorf("%s.%s: %w", m.FullName(id), e.Name, err)
			}
		}
		seen := make(map[model.TypeID]bool, len(d.Nested))
		for _, nid := range d.Nested {
			nd, ok := m.Definition(nid)
			if !ok || nd.DeclaringType != id {
				return fmt.Errorf("%s: nested type %d is not declared here", m.FullName(id), nid)
			}
			if seen[nid] {
				return fmt.Errorf("%s: nested type %s listed twice", m.FullName(id), nd.Name)
			}
			seen[nid] = true
		}
		for i, tpID := range d.TypeParams {
			tp, ok := m.TypeParam(tpID)
			if !ok || tp.OwnerType != id || tp.Index != i {
				return fmt.Errorf("%s: type parameter %d has wrong owner or index", m.FullName(id), i)
			}
		}
		if e, ok := m.Entity(d.Entity); !ok || e.Kind != model.EntityTypeDefinition || e.TypeDef != id {
			return fmt.Errorf("%s: definition entity does not point back", m.FullName(id))
		}
	}
	return nil
}

func checkAccessors(m *model.Model, owner model.EntityID, e *model.Entity) error {
	for _, acc := range []model.EntityID{e.Getter, e.Setter, e.Adder, e.Remover} {
		if !acc.IsValid() {
			continue
		}
		a, ok := m.Entity(acc)
		if !ok {
			return fmt.Errorf("accessor %d does not exist", acc)
		}
		if a.Owner != owner {
			return fmt.Errorf("accessor %s owned by %d", a.Name, a.Owner)
		}
	}
	for i, tpID := range e.TypeParams {
		tp, ok := m.TypeParam(tpID)
		if !ok || tp.OwnerMethod != owner || tp.Index != i {
			return fmt.Errorf("method type parameter %d has wrong owner or index", i)
		}
	}
	return nil
}
