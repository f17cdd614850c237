package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projector/internal/access"
	"projector/internal/metadata"
	"projector/internal/model"
	"projector/internal/resolve"
	"projector/internal/testkit"
)

func newContext(f *testkit.Fixture, ns string, usings ...string) resolve.Context {
	return resolve.NewContext(f.M, metadata.NewMembers(f.M), resolve.ForNamespace(ns, usings, nil))
}

func TestLookupThroughUsings(t *testing.T) {
	f := testkit.NewCorlib()
	c := newContext(f, "App", "System", "System.Collections.Generic")
	i32 := f.Known(model.KnownInt32)

	r := c.LookupSimpleName("String", nil, resolve.ModeType)
	assert.True(t, r.IsType(f.Known(model.KnownString)), r.String())

	r = c.LookupSimpleName("List", []model.TypeID{i32}, resolve.ModeType)
	assert.True(t, r.IsType(f.M.Parameterized(f.List, i32)), r.String())

	r = c.LookupSimpleName("List", nil, resolve.ModeType)
	assert.Equal(t, resolve.KindUnknown, r.Kind, "arity participates in the lookup")

	r = c.LookupSimpleName("System", nil, resolve.ModeType)
	assert.Equal(t, resolve.KindNamespace, r.Kind)
	assert.Equal(t, "System", r.Namespace)
}

func TestLookupWithoutUsingFails(t *testing.T) {
	f := testkit.NewCorlib()
	c := newContext(f, "App")
	r := c.LookupSimpleName("Exception", nil, resolve.ModeType)
	assert.True(t, r.IsError())

	sys := c.LookupSimpleName("System", nil, resolve.ModeType)
	require.Equal(t, resolve.KindNamespace, sys.Kind)
	r = c.LookupMember(sys, "Exception", nil, resolve.ModeType)
	assert.Equal(t, resolve.KindType, r.Kind)

	coll := c.LookupMember(c.LookupMember(sys, "Collections", nil, resolve.ModeType), "Generic", nil, resolve.ModeType)
	assert.Equal(t, "System.Collections.Generic", coll.Namespace)
}

func TestAmbiguousUsings(t *testing.T) {
	f := testkit.NewCorlib()
	a := f.Class("Alpha", "Widget")
	f.Class("Beta", "Widget")
	c := newContext(f, "App", "Alpha", "Beta")

	r := c.LookupSimpleName("Widget", nil, resolve.ModeType)
	require.Equal(t, resolve.KindAmbiguous, r.Kind)
	assert.Len(t, r.Candidates, 2)
	assert.True(t, r.IsError())

	// A declaration in the enclosing namespace wins over imports.
	own := f.Class("App", "Widget")
	r = c.LookupSimpleName("Widget", nil, resolve.ModeType)
	assert.True(t, r.IsType(own))
	assert.NotEqual(t, a, own)
}

func TestNamespaceFramesInnermostFirst(t *testing.T) {
	f := testkit.NewCorlib()
	outer := f.Class("Company", "Thing")
	inner := f.Class("Company.Product", "Thing")

	r := newContext(f, "Company.Product").LookupSimpleName("Thing", nil, resolve.ModeType)
	assert.True(t, r.IsType(inner))
	r = newContext(f, "Company.Product.Sub").LookupSimpleName("Thing", nil, resolve.ModeType)
	assert.True(t, r.IsType(inner))
	r = newContext(f, "Company").LookupSimpleName("Thing", nil, resolve.ModeType)
	assert.True(t, r.IsType(outer))
}

func TestAliases(t *testing.T) {
	f := testkit.NewCorlib()
	aliases := []resolve.Alias{
		{Name: "Text", Target: resolve.TypeResult(f.Known(model.KnownString))},
		{Name: "Gen", Target: resolve.NamespaceResult("System.Collections.Generic")},
	}
	c := resolve.NewContext(f.M, nil, resolve.ForNamespace("App", nil, aliases))

	assert.True(t, c.LookupSimpleName("Text", nil, resolve.ModeType).IsType(f.Known(model.KnownString)))
	assert.Equal(t, "System.Collections.Generic", c.LookupAlias("Gen").Namespace)
	assert.Equal(t, resolve.KindUnknown, c.LookupAlias("Text").Kind, "type aliases cannot qualify")

	root := c.LookupAlias("global")
	require.Equal(t, resolve.KindNamespace, root.Kind)
	assert.Equal(t, "", root.Namespace)
	assert.Equal(t, resolve.KindNamespace, c.LookupMember(root, "System", nil, resolve.ModeType).Kind)
}

func TestTypeInUsingDeclarationIgnoresInnermostUsings(t *testing.T) {
	f := testkit.NewCorlib()
	chain := resolve.NewChain(resolve.Frame{Usings: []string{"System"}})
	c := resolve.NewContext(f.M, nil, chain)

	assert.Equal(t, resolve.KindType, c.LookupSimpleName("String", nil, resolve.ModeType).Kind)
	assert.True(t, c.LookupSimpleName("String", nil, resolve.ModeTypeInUsingDeclaration).IsError())
	assert.Equal(t, resolve.KindNamespace, c.LookupSimpleName("System", nil, resolve.ModeTypeInUsingDeclaration).Kind)
}

func TestTypeParametersAndNestedTypes(t *testing.T) {
	f := testkit.NewCorlib()
	c := newContext(f, "System.Collections.Generic")
	listT, _ := f.M.Definition(f.List)
	enumT, _ := f.M.Definition(f.ListEnumerator)

	inList := c.WithType(f.List)
	assert.True(t, inList.LookupSimpleName("T", nil, resolve.ModeType).IsType(listT.TypeParams[0]))
	r := inList.LookupSimpleName("Enumerator", nil, resolve.ModeType)
	assert.True(t, r.IsType(f.M.Parameterized(f.ListEnumerator, listT.TypeParams[0])), r.String())

	// Inside the nested type, the outer parameter is seen through its own copy.
	inEnum := c.WithType(f.ListEnumerator)
	assert.True(t, inEnum.LookupSimpleName("T", nil, resolve.ModeType).IsType(enumT.TypeParams[0]))
	r = inEnum.LookupSimpleName("Enumerator", nil, resolve.ModeType)
	assert.True(t, r.IsType(f.M.Parameterized(f.ListEnumerator, enumT.TypeParams[0])), r.String())

	// Outside, nested types are reached through a parameterized parent.
	str := f.Known(model.KnownString)
	listOfString := resolve.TypeResult(f.M.Parameterized(f.List, str))
	r = c.LookupMember(listOfString, "Enumerator", nil, resolve.ModeType)
	assert.True(t, r.IsType(f.M.Parameterized(f.ListEnumerator, str)))
}

func TestNestedTypeFromBaseClass(t *testing.T) {
	f := testkit.NewCorlib()
	base := f.Class("App", "Base")
	node := f.Nested(base, "Node", model.DefClass, access.Protected)
	derived := f.Class("App", "Derived", base)

	c := newContext(f, "App").WithType(derived)
	assert.True(t, c.LookupSimpleName("Node", nil, resolve.ModeType).IsType(node))
	assert.True(t, c.LookupSimpleName("Node", nil, resolve.ModeBaseTypeReference).IsError(),
		"the base clause is outside the type body")
}

func TestMethodTypeParameters(t *testing.T) {
	f := testkit.NewCorlib()
	cls := f.Class("App", "Host")
	f.M.AddTypeParams(cls, model.TypeParam{Name: "T"})
	m := f.Method(cls, "Convert", access.Public, 0, f.Known(model.KnownVoid))
	mtp := f.M.AddMethodTypeParams(m, model.TypeParam{Name: "T"})

	c := newContext(f, "App").WithType(cls)
	clsT, _ := f.M.Definition(cls)
	assert.True(t, c.LookupSimpleName("T", nil, resolve.ModeType).IsType(clsT.TypeParams[0]))
	assert.True(t, c.WithMember(m).LookupSimpleName("T", nil, resolve.ModeType).IsType(mtp[0]),
		"method type parameters shadow the type's")
}

func TestExpressionModeMembersAndLocals(t *testing.T) {
	f := testkit.NewCorlib()
	i32 := f.Known(model.KnownInt32)
	cls := f.Class("App", "Limits")
	maxID := f.Const(cls, "Max", i32, access.Public, int32(10))
	count := f.Property(cls, "Count", i32, access.Public, access.None)

	c := newContext(f, "App").WithType(cls)
	r := c.LookupSimpleName("Max", nil, resolve.ModeExpression)
	require.Equal(t, resolve.KindConstant, r.Kind)
	assert.Equal(t, maxID, r.Entity)
	assert.Equal(t, int32(10), r.Value)

	r = c.LookupSimpleName("Count", nil, resolve.ModeExpression)
	require.Equal(t, resolve.KindMember, r.Kind)
	assert.Equal(t, count, r.Entity)
	assert.Equal(t, i32, r.Type, "property type comes from its signature")

	assert.True(t, c.LookupSimpleName("Max", nil, resolve.ModeType).IsError(), "members are invisible to type lookups")

	withLocal := c.WithLocals(resolve.Local{Name: "Max", Type: f.Known(model.KnownString)})
	r = withLocal.LookupSimpleName("Max", nil, resolve.ModeExpression)
	assert.Equal(t, resolve.KindVariable, r.Kind)

	r = c.LookupMember(resolve.TypeResult(f.DayOfWeek), "Friday", nil, resolve.ModeExpression)
	require.Equal(t, resolve.KindConstant, r.Kind)
	assert.Equal(t, int32(5), r.Value)
}

func TestMemberLookupSkipsDanglingEntities(t *testing.T) {
	f := testkit.NewCorlib()
	i32 := f.Known(model.KnownInt32)
	cls := f.Class("App", "Limits")
	maxID := f.Const(cls, "Max", i32, access.Public, int32(10))
	require.NoError(t, f.M.UpdateDefinition(cls, func(d *model.Definition) {
		d.Members = append([]model.EntityID{model.EntityID(99999)}, d.Members...)
	}))

	c := newContext(f, "App")
	r := c.LookupMember(resolve.TypeResult(cls), "Max", nil, resolve.ModeExpression)
	require.Equal(t, resolve.KindConstant, r.Kind)
	assert.Equal(t, maxID, r.Entity)
	assert.True(t, c.LookupMember(resolve.TypeResult(cls), "Min", nil, resolve.ModeExpression).IsError())
}

func TestChainIsImmutable(t *testing.T) {
	base := resolve.ForNamespace("A.B", []string{"System"}, nil)
	require.Equal(t, 3, base.Len())
	assert.Equal(t, "A.B", base.Namespace())
	assert.Equal(t, "", base.Frame(2).Namespace)

	pushed := base.Push(resolve.Frame{Namespace: "A.B", Usings: []string{"X"}})
	assert.Equal(t, 4, pushed.Len())
	assert.Equal(t, 3, base.Len())
	inner, ok := base.Innermost()
	require.True(t, ok)
	assert.Empty(t, inner.Usings)
}

func TestChainFrameIsACopy(t *testing.T) {
	chain := resolve.ForNamespace("App", []string{"System"},
		[]resolve.Alias{{Name: "Sys", Target: resolve.NamespaceResult("System")}})
	global := chain.Frame(chain.Len() - 1)
	global.Usings[0] = "Hijacked"
	global.Aliases[0].Name = "Other"
	global.Namespace = "Elsewhere"

	again := chain.Frame(chain.Len() - 1)
	assert.Equal(t, []string{"System"}, again.Usings)
	_, ok := again.Alias("Sys")
	assert.True(t, ok)
	assert.Equal(t, "", again.Namespace)

	_, ok = resolve.Chain{}.Innermost()
	assert.False(t, ok)
}

func TestParseMode(t *testing.T) {
	for _, m := range []resolve.Mode{resolve.ModeExpression, resolve.ModeType,
		resolve.ModeTypeInUsingDeclaration, resolve.ModeBaseTypeReference} {
		got, err := resolve.ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := resolve.ParseMode("bogus")
	assert.Error(t, err)
}
