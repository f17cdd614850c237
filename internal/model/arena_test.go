package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projector/internal/access"
)

func TestFromArenaRebuildsLookups(t *testing.T) {
	m, mod := newCore(t)
	list := m.MustDefineType(Definition{Module: mod, Handle: MakeHandle(TableTypeDef, 9),
		Namespace: "System.Collections.Generic", Name: "List", Access: access.Public})
	m.AddTypeParams(list, TypeParam{Name: "T"})
	enum := m.MustDefineType(Definition{Module: mod, Name: "Enumerator", Kind: DefStruct,
		Access: access.Public, DeclaringType: list})
	m.InheritTypeParams(enum)
	m.RegisterTypeRef(mod, MakeHandle(TableTypeRef, 1), list)
	listInt := m.Parameterized(list, m.KnownType(KnownInt32))

	r, err := FromArena(m.Arena())
	require.NoError(t, err)
	got, ok := r.FindType("System.Collections.Generic", "List", 1)
	require.True(t, ok)
	assert.Equal(t, list, got)
	nested, ok := r.FindNestedType(list, "Enumerator", 0)
	require.True(t, ok)
	assert.Equal(t, enum, nested)
	assert.Equal(t, listInt, r.Parameterized(list, r.KnownType(KnownInt32)))
	assert.Equal(t, []string{"Collections"}, r.ChildNamespaces("System"))
	ref, ok := r.TypeByHandle(mod, MakeHandle(TableTypeRef, 1))
	require.True(t, ok)
	assert.Equal(t, list, ref)
	assert.Equal(t, m.Unknown(), r.Unknown())
	assert.Equal(t, m.UnboundArg(), r.UnboundArg())
}

func TestFromArenaRejectsBrokenTables(t *testing.T) {
	m, _ := newCore(t)

	_, err := FromArena(Arena{})
	require.ErrorIs(t, err, ErrInvalidRecord)

	a := m.Arena()
	a.Types = append(a.Types, Type{Kind: KindPointer, Elem: 999})
	_, err = FromArena(a)
	require.ErrorIs(t, err, ErrInvalidRecord)

	a = m.Arena()
	a.Defs[1].Self = 2
	_, err = FromArena(a)
	require.ErrorIs(t, err, ErrInvalidRecord)

	a = m.Arena()
	a.EntityRefs = append(a.EntityRefs, HandleBinding{Handle: 1, Entity: 999})
	_, err = FromArena(a)
	require.ErrorIs(t, err, ErrEntityNotFound)
}

func TestFromArenaRejectsBrokenNesting(t *testing.T) {
	m, mod := newCore(t)
	outer := m.MustDefineType(Definition{Module: mod, Namespace: "N", Name: "Outer"})
	inner := m.MustDefineType(Definition{Module: mod, Name: "Inner", DeclaringType: outer})
	obj := m.KnownType(KnownObject)
	outerSlot := m.MustType(outer).Payload
	_, err := FromArena(m.Arena())
	require.NoError(t, err)

	a := m.Arena()
	a.Defs[outerSlot].Nested = []TypeID{inner, obj}
	_, err = FromArena(a)
	require.ErrorIs(t, err, ErrInvalidRecord)

	a = m.Arena()
	a.Defs[outerSlot].DeclaringType = inner
	_, err = FromArena(a)
	require.ErrorIs(t, err, ErrInvalidRecord)
}
