package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"projector/internal/access"
)

func TestIdentEscapesKeywords(t *testing.T) {
	assert.Equal(t, "@class", Ident("class").String())
	assert.Equal(t, "Value", Ident("Value").String())
	assert.Equal(t, "@Foo", VerbatimIdent("Foo").String())

	// e + combining acute normalizes to the precomposed form.
	id := Ident("Cafe\u0301")
	assert.Equal(t, "Caf\u00e9", id.Name)
	assert.False(t, id.Verbatim)
}

func TestModifierKeywords(t *testing.T) {
	cases := []struct {
		acc  access.Accessibility
		want string
	}{
		{access.Public, "public"},
		{access.ProtectedOrInternal, "protected internal"},
		{access.ProtectedAndInternal, "private protected"},
		{access.Private, "private"},
		{access.None, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AccessModifiers(tc.acc).String(), tc.acc.String())
	}
	m := ModPublic | ModStatic | ModReadonly
	assert.Equal(t, []string{"public", "static", "readonly"}, m.Keywords())
	m = ModProtected | ModOverride | ModSealed
	assert.Equal(t, "protected sealed override", m.String())
}

func TestOperatorTable(t *testing.T) {
	k, ok := OperatorByMetadataName("op_Addition")
	assert.True(t, ok)
	assert.Equal(t, "+", k.Token())
	assert.False(t, k.IsConversion())

	k, ok = OperatorByMetadataName("op_Implicit")
	assert.True(t, ok)
	assert.True(t, k.IsConversion())
	assert.Equal(t, "op_Implicit", k.String())

	_, ok = OperatorByMetadataName("Add")
	assert.False(t, ok)
}

func TestTypeNameHelpers(t *testing.T) {
	g := Global()
	assert.True(t, IsGlobal(g))
	mt := &MemberType{Target: g, DoubleColon: true, Name: Ident("System")}
	id, ok := TypeName(mt)
	assert.True(t, ok)
	assert.Equal(t, "System", id.Name)
	assert.True(t, SetTypeName(mt, VerbatimIdent("Other")))
	assert.Equal(t, "@Other", mt.Name.String())
	assert.False(t, SetTypeName(&ArrayType{}, Ident("x")))
	assert.False(t, IsGlobal(&SimpleType{Name: VerbatimIdent("global")}))
}
