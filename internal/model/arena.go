package model

import (
	"fmt"
	"slices"
)

// HandleBinding maps a module handle onto the type or entity it names.
type HandleBinding struct {
	Module ModuleID
	Handle Handle
	Type   TypeID
	Entity EntityID
}

// Arena is the flat content of a model. Slot 0 of every slice is the
// reserved sentinel, so IDs index the slices directly.
type Arena struct {
	Modules    []Module
	Types      []Type
	Defs       []Definition
	TypeParams []TypeParam
	Entities   []Entity
	TypeRefs   []HandleBinding
	EntityRefs []HandleBinding
}

// Arena returns a copy of the model's tables. Handle bindings are sorted
// by module and handle.
func (m *Model) Arena() Arena {
	a := Arena{
		Modules:    slices.Clone(m.modules),
		Types:      slices.Clone(m.types),
		Defs:       slices.Clone(m.defs),
		TypeParams: slices.Clone(m.tparams),
		Entities:   slices.Clone(m.entities),
		TypeRefs:   make([]HandleBinding, 0, len(m.typeTokens)),
		EntityRefs: make([]HandleBinding, 0, len(m.entTokens)),
	}
	for k, id := range m.typeTokens {
		a.TypeRefs = append(a.TypeRefs, HandleBinding{Module: k.module, Handle: k.handle, Type: id})
	}
	for k, id := range m.entTokens {
		a.EntityRefs = append(a.EntityRefs, HandleBinding{Module: k.module, Handle: k.handle, Entity: id})
	}
	byKey := func(x, y HandleBinding) int {
		if x.Module != y.Module {
			return int(x.Module) - int(y.Module)
		}
		switch {
		case x.Handle < y.Handle:
			return -1
		case x.Handle > y.Handle:
			return 1
		}
		return 0
	}
	slices.SortFunc(a.TypeRefs, byKey)
	slices.SortFunc(a.EntityRefs, byKey)
	return a
}

// FromArena rebuilds a model from its tables. The interning index, the
// namespace tree and the well-known type table are recomputed; every
// cross reference is checked against the table sizes. The model takes
// ownership of a's slices.
func FromArena(a Arena) (*Model, error) {
	if len(a.Modules) == 0 || len(a.Types) < 3 || len(a.Defs) == 0 ||
		len(a.TypeParams) == 0 || len(a.Entities) == 0 {
		return nil, fmt.Errorf("%w: arena without reserved slots", ErrInvalidRecord)
	}
	if a.Types[1].Kind != KindUnknown || a.Types[2].Kind != KindUnboundArg {
		return nil, fmt.Errorf("%w: arena without sentinel types", ErrInvalidRecord)
	}
	m := &Model{
		modules:    a.Modules,
		types:      a.Types,
		index:      make(map[string]TypeID, len(a.Types)),
		defs:       a.Defs,
		tparams:    a.TypeParams,
		entities:   a.Entities,
		typeTokens: make(map[handleKey]TypeID, len(a.TypeRefs)),
		entTokens:  make(map[handleKey]EntityID, len(a.EntityRefs)),
		nsChildren: map[string][]string{"": nil},
		nsTypes:    make(map[string][]TypeID),
		unknown:    1,
		unbound:    2,
	}
	for i := 1; i < len(m.types); i++ {
		t := m.types[i]
		if err := m.checkType(TypeID(i), t); err != nil {
			return nil, err
		}
		m.index[t.key()] = TypeID(i)
	}
	for i := 1; i < len(m.defs); i++ {
		d := &m.defs[i]
		if t, ok := m.Type(d.Self); !ok || t.Kind != KindDefinition || int(t.Payload) != i {
			return nil, fmt.Errorf("%w: definition %d has self %d", ErrInvalidRecord, i, d.Self)
		}
		if d.Known >= knownCount {
			return nil, fmt.Errorf("%w: definition %s has known index %d", ErrInvalidRecord, d.Name, d.Known)
		}
		if d.Known != KnownNone {
			m.known[d.Known] = d.Self
		}
		if !d.DeclaringType.IsValid() {
			m.registerNamespace(d.Namespace)
			m.nsTypes[d.Namespace] = append(m.nsTypes[d.Namespace], d.Self)
		} else if m.defRef(d.DeclaringType) == nil {
			return nil, fmt.Errorf("%w: declaring type of %s", ErrNotDefinition, d.Name)
		}
		if m.entityRef(d.Entity) == nil {
			return nil, fmt.Errorf("%w: entity of %s", ErrEntityNotFound, d.Name)
		}
	}
	for i := 1; i < len(m.defs); i++ {
		d := &m.defs[i]
		for _, n := range d.Nested {
			nd := m.defRef(n)
			if nd == nil || nd.DeclaringType != d.Self {
				return nil, fmt.Errorf("%w: nested type %d of %s", ErrInvalidRecord, n, d.Name)
			}
		}
		// Nesting chains end at a top-level type.
		cur, steps := d, 0
		for cur.DeclaringType.IsValid() {
			if steps++; steps >= len(m.defs) {
				return nil, fmt.Errorf("%w: %s is nested in itself", ErrInvalidRecord, d.Name)
			}
			cur = m.defRef(cur.DeclaringType)
		}
	}
	for i := 1; i < len(m.entities); i++ {
		e := &m.entities[i]
		if m.defRef(e.DeclaringType) == nil && e.Kind != EntityTypeDefinition {
			return nil, fmt.Errorf("%w: declaring type of entity %s", ErrNotDefinition, e.Name)
		}
		if int(e.Module) >= len(m.modules) {
			return nil, fmt.Errorf("%w: module of entity %s", ErrInvalidRecord, e.Name)
		}
	}
	for _, b := range a.TypeRefs {
		if _, ok := m.Type(b.Type); !ok {
			return nil, fmt.Errorf("%w: handle 0x%08x", ErrTypeNotFound, uint32(b.Handle))
		}
		m.typeTokens[handleKey{b.Module, b.Handle}] = b.Type
	}
	for _, b := range a.EntityRefs {
		if m.entityRef(b.Entity) == nil {
			return nil, fmt.Errorf("%w: handle 0x%08x", ErrEntityNotFound, uint32(b.Handle))
		}
		m.entTokens[handleKey{b.Module, b.Handle}] = b.Entity
	}
	return m, nil
}

func (m *Model) checkType(id TypeID, t Type) error {
	ref := func(x TypeID) bool { return x.IsValid() && int(x) < len(m.types) }
	switch t.Kind {
	case KindDefinition:
		if t.Payload == 0 || int(t.Payload) >= len(m.defs) {
			return fmt.Errorf("%w: type %d points at definition slot %d", ErrInvalidRecord, id, t.Payload)
		}
	case KindTypeParameter:
		if t.Payload == 0 || int(t.Payload) >= len(m.tparams) {
			return fmt.Errorf("%w: type %d points at type parameter slot %d", ErrInvalidRecord, id, t.Payload)
		}
	case KindArray, KindPointer, KindByRef, KindParameterized:
		if !ref(t.Elem) {
			return fmt.Errorf("%w: type %d has element %d", ErrInvalidRecord, id, t.Elem)
		}
	case KindTuple, KindUnknown, KindUnboundArg:
	default:
		return fmt.Errorf("%w: type %d has kind %v", ErrInvalidRecord, id, t.Kind)
	}
	for _, arg := range t.Args {
		if !ref(arg) {
			return fmt.Errorf("%w: type %d has argument %d", ErrInvalidRecord, id, arg)
		}
	}
	return nil
}
