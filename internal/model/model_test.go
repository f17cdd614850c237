package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projector/internal/access"
)

func newCore(t *testing.T) (*Model, ModuleID) {
	t.Helper()
	m := New()
	mod := m.AddModule("corlib")
	m.MustDefineType(Definition{Module: mod, Namespace: "System", Name: "Object", Access: access.Public})
	m.MustDefineType(Definition{Module: mod, Namespace: "System", Name: "Int32", Kind: DefStruct, Access: access.Public})
	return m, mod
}

func TestInternSharesStructuralTypes(t *testing.T) {
	m, _ := newCore(t)
	i32 := m.KnownType(KnownInt32)
	require.True(t, i32.IsValid())

	a := m.ArrayOf(i32, 1)
	assert.Equal(t, a, m.ArrayOf(i32, 1))
	assert.Equal(t, a, m.ArrayOf(i32, 0), "rank 0 normalizes to 1")
	assert.NotEqual(t, a, m.ArrayOf(i32, 2))
	assert.Equal(t, m.PointerTo(i32), m.PointerTo(i32))
	assert.NotEqual(t, m.PointerTo(i32), m.ByRefTo(i32))

	tup := m.TupleOf([]TypeID{i32, i32}, []string{"", ""})
	assert.Nil(t, m.MustType(tup).Names, "all-empty names are dropped")
	named := m.TupleOf([]TypeID{i32, i32}, []string{"x", ""})
	assert.NotEqual(t, tup, named)
	assert.Equal(t, []string{"x", ""}, m.MustType(named).Names)
}

func TestDefinitionsAreNominal(t *testing.T) {
	m, mod := newCore(t)
	a := m.MustDefineType(Definition{Module: mod, Namespace: "N", Name: "A"})
	b := m.MustDefineType(Definition{Module: mod, Namespace: "N", Name: "A"})
	assert.NotEqual(t, a, b)
}

func TestKnownTypesDetected(t *testing.T) {
	m, mod := newCore(t)
	nullable := m.MustDefineType(Definition{Module: mod, Namespace: "System", Name: "Nullable", Kind: DefStruct})
	assert.Equal(t, NoTypeID, m.KnownType(KnownNullable), "arity not known yet")
	m.AddTypeParams(nullable, TypeParam{Name: "T"})
	assert.Equal(t, nullable, m.KnownType(KnownNullable))

	inst := m.Parameterized(nullable, m.KnownType(KnownInt32))
	assert.True(t, m.IsKnown(inst, KnownNullable))
	assert.Equal(t, KnownNullable, m.KnownOf(inst))
	assert.Equal(t, KnownObject, m.KnownOf(m.KnownType(KnownObject)))
}

func TestNestedTypesInheritParameters(t *testing.T) {
	m, mod := newCore(t)
	outer := m.MustDefineType(Definition{Module: mod, Namespace: "N", Name: "Outer", Access: access.Public})
	m.AddTypeParams(outer, TypeParam{Name: "T"})
	inner := m.MustDefineType(Definition{Module: mod, Name: "Inner", DeclaringType: outer, Access: access.Public})
	inherited := m.InheritTypeParams(inner)
	own := m.AddTypeParams(inner, TypeParam{Name: "U"})

	require.Len(t, inherited, 1)
	require.Len(t, own, 1)
	assert.Equal(t, 1, m.OuterArity(inner))
	assert.Equal(t, 1, m.LocalArity(inner))

	found, ok := m.FindNestedType(outer, "Inner", 1)
	require.True(t, ok)
	assert.Equal(t, inner, found)
	_, ok = m.FindNestedType(outer, "Inner", 2)
	assert.False(t, ok)

	tp, ok := m.TypeParam(own[0])
	require.True(t, ok)
	assert.Equal(t, 1, tp.Index)
	assert.Equal(t, inner, tp.OwnerType)

	assert.Equal(t, "N.Outer`1+Inner`1", m.FullName(inner))
	assert.Equal(t, []TypeID{m.UnboundArg(), m.UnboundArg()}, m.TypeArguments(inner))
}

func TestNamespaces(t *testing.T) {
	m, mod := newCore(t)
	m.MustDefineType(Definition{Module: mod, Namespace: "A.B.C", Name: "T"})

	assert.True(t, m.NamespaceExists(""))
	assert.True(t, m.NamespaceExists("A"))
	assert.True(t, m.NamespaceExists("A.B"))
	assert.False(t, m.NamespaceExists("B"))
	assert.True(t, m.HasChildNamespace("A", "B"))
	assert.ElementsMatch(t, []string{"System", "A"}, m.ChildNamespaces(""))

	id, ok := m.FindType("A.B.C", "T", 0)
	require.True(t, ok)
	assert.Equal(t, "A.B.C.T", m.FullName(id))
	_, ok = m.FindType("A.B", "T", 0)
	assert.False(t, ok)
}

func TestEntitiesAndAccessors(t *testing.T) {
	m, mod := newCore(t)
	owner := m.MustDefineType(Definition{Module: mod, Namespace: "N", Name: "C"})
	i32 := m.KnownType(KnownInt32)

	get := m.MustAddEntity(Entity{Kind: EntityAccessor, DeclaringType: owner, Name: "get_P",
		ReturnType: i32, Access: access.Public, Handle: MakeHandle(TableMethod, 1), Module: mod})
	prop := m.MustAddEntity(Entity{Kind: EntityProperty, DeclaringType: owner, Name: "P",
		Getter: get, Handle: MakeHandle(TableProperty, 1), Module: mod})

	g, ok := m.Entity(get)
	require.True(t, ok)
	assert.Equal(t, prop, g.Owner)
	assert.Equal(t, AccessorGet, g.AccessorKind)

	d, _ := m.Definition(owner)
	assert.Equal(t, []EntityID{get, prop}, d.Members)

	found, ok := m.EntityByHandle(mod, MakeHandle(TableProperty, 1))
	require.True(t, ok)
	assert.Equal(t, prop, found)

	_, err := m.AddEntity(Entity{Kind: EntityMethod, DeclaringType: owner, Name: "dup",
		Handle: MakeHandle(TableMethod, 1), Module: mod})
	assert.ErrorIs(t, err, ErrDuplicateHandle)

	_, err = m.AddEntity(Entity{Kind: EntityMethod, DeclaringType: i32 + 1000, Name: "x"})
	assert.ErrorIs(t, err, ErrNotDefinition)
}

func TestDefineTypeErrors(t *testing.T) {
	m, mod := newCore(t)
	_, err := m.DefineType(Definition{Module: mod})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = m.DefineType(Definition{Module: mod, Name: "X", DeclaringType: m.ArrayOf(m.KnownType(KnownInt32), 1)})
	assert.ErrorIs(t, err, ErrNotDefinition)

	h := MakeHandle(TableTypeDef, 9)
	m.MustDefineType(Definition{Module: mod, Name: "Y", Handle: h})
	_, err = m.DefineType(Definition{Module: mod, Name: "Z", Handle: h})
	assert.ErrorIs(t, err, ErrDuplicateHandle)
}

func TestIsReferenceType(t *testing.T) {
	m, mod := newCore(t)
	obj := m.KnownType(KnownObject)
	i32 := m.KnownType(KnownInt32)
	iface := m.MustDefineType(Definition{Module: mod, Name: "I", Kind: DefInterface})
	generic := m.MustDefineType(Definition{Module: mod, Name: "G"})
	tps := m.AddTypeParams(generic, TypeParam{Name: "A"}, TypeParam{Name: "B", Constraints: ConstraintReferenceType})

	assert.True(t, m.IsReferenceType(obj))
	assert.False(t, m.IsReferenceType(i32))
	assert.True(t, m.IsReferenceType(iface))
	assert.True(t, m.IsReferenceType(m.ArrayOf(i32, 1)))
	assert.False(t, m.IsReferenceType(m.PointerTo(i32)))
	assert.False(t, m.IsReferenceType(tps[0]))
	assert.True(t, m.IsReferenceType(tps[1]))
}

func TestHandleParts(t *testing.T) {
	h := MakeHandle(TableProperty, 42)
	assert.Equal(t, TableProperty, h.Table())
	assert.Equal(t, uint32(42), h.Row())
}
