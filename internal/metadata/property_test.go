package metadata_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projector/internal/access"
	"projector/internal/metadata"
	"projector/internal/model"
	"projector/internal/testkit"
)

func TestIndexerClassification(t *testing.T) {
	f := testkit.NewCorlib()
	c := f.Class("Demo", "Grid")
	i32 := f.Known(model.KnownInt32)

	withParams := f.Indexer(c, "Item", i32, access.Public, access.Public, f.Param("i", i32))
	noParams := f.Property(c, "Item", i32, access.Public, access.None)
	other := f.Indexer(c, "Cell", i32, access.Public, access.None, f.Param("i", i32))

	ms := metadata.NewMembers(f.M)
	p, err := ms.Property(withParams)
	require.NoError(t, err)
	assert.Equal(t, model.EntityIndexer, p.Kind())

	p, err = ms.Property(noParams)
	require.NoError(t, err)
	assert.Equal(t, model.EntityProperty, p.Kind())

	p, err = ms.Property(other)
	require.NoError(t, err)
	assert.Equal(t, model.EntityProperty, p.Kind(), "only the default member name makes an indexer")
}

func TestIndexerHonorsDefaultMemberName(t *testing.T) {
	f := testkit.NewCorlib()
	c := f.Class("Demo", "Matrix")
	_ = f.M.UpdateDefinition(c, func(d *model.Definition) { d.DefaultMember = "Cell" })
	i32 := f.Known(model.KnownInt32)
	cell := f.Indexer(c, "Cell", i32, access.Public, access.None, f.Param("i", i32))
	item := f.Indexer(c, "Item", i32, access.Public, access.None, f.Param("i", i32))

	ms := metadata.NewMembers(f.M)
	p, _ := ms.Property(cell)
	assert.Equal(t, model.EntityIndexer, p.Kind())
	p, _ = ms.Property(item)
	assert.Equal(t, model.EntityProperty, p.Kind())
}

func TestExplicitImplementationInheritsKind(t *testing.T) {
	f := testkit.NewCorlib()
	i32 := f.Known(model.KnownInt32)
	iface := f.Interface("Demo", "IGrid")
	ifaceItem := f.Indexer(iface, "Item", i32, access.Public, access.None, f.Param("i", i32))
	ifaceRec, _ := f.M.Entity(ifaceItem)
	getterID := ifaceRec.Getter

	c := f.Class("Demo", "Grid", f.Known(model.KnownObject), iface)
	impl := f.Indexer(c, "Demo.IGrid.Item", i32, access.Private, access.None, f.Param("i", i32))
	implRec, _ := f.M.Entity(impl)
	_ = f.M.UpdateEntity(implRec.Getter, func(e *model.Entity) { e.ExplicitImpls = []model.EntityID{getterID} })

	ms := metadata.NewMembers(f.M)
	p, err := ms.Property(impl)
	require.NoError(t, err)
	assert.Equal(t, model.EntityIndexer, p.Kind())
	assert.True(t, p.IsExplicitImplementation())

	dotted := f.Property(c, "Demo.IOther.Value", i32, access.Private, access.None)
	p, err = ms.Property(dotted)
	require.NoError(t, err)
	assert.Equal(t, model.EntityProperty, p.Kind(), "no implemented member found")
}

func TestAccessibilityMergesAccessors(t *testing.T) {
	f := testkit.NewCorlib()
	c := f.Class("Demo", "Widget")
	i32 := f.Known(model.KnownInt32)

	cases := []struct {
		get, set access.Accessibility
		want     access.Accessibility
	}{
		{access.Public, access.Private, access.Public},
		{access.Protected, access.Internal, access.ProtectedOrInternal},
		{access.Private, access.None, access.Private},
		{access.None, access.ProtectedAndInternal, access.ProtectedAndInternal},
	}
	ids := make([]model.EntityID, len(cases))
	for i, tc := range cases {
		ids[i] = f.Property(c, "P"+string(rune('A'+i)), i32, tc.get, tc.set)
	}
	cache := metadata.NewMembers(f.M)
	for i, tc := range cases {
		p, err := cache.Property(ids[i])
		require.NoError(t, err)
		assert.Equal(t, tc.want, p.Accessibility(), "case %d", i)
	}
}

func TestOverrideWithOneAccessorUsesBase(t *testing.T) {
	f := testkit.NewCorlib()
	i32 := f.Known(model.KnownInt32)
	base := f.Class("Demo", "Base")
	baseProp := f.Property(base, "Size", i32, access.Public, access.Protected)
	f.SetFlags(baseProp, model.FlagVirtual)

	mid := f.Class("Demo", "Mid", base)
	midProp := f.Property(mid, "Size", i32, access.Public, access.Protected)
	f.SetFlags(midProp, model.FlagOverride)
	_ = f.M.UpdateEntity(midProp, func(e *model.Entity) { e.BaseMember = baseProp })

	leaf := f.Class("Demo", "Leaf", mid)
	leafProp := f.Property(leaf, "Size", i32, access.None, access.Protected)
	f.SetFlags(leafProp, model.FlagOverride)
	_ = f.M.UpdateEntity(leafProp, func(e *model.Entity) { e.BaseMember = midProp })

	ms := metadata.NewMembers(f.M)
	p, err := ms.Property(leafProp)
	require.NoError(t, err)
	assert.True(t, p.IsOverride())
	assert.Equal(t, access.Public, p.Accessibility(), "skips the overriding Mid.Size")

	both := f.Property(leaf, "Both", i32, access.Internal, access.Private)
	f.SetFlags(both, model.FlagOverride)
	p, err = ms.Property(both)
	require.NoError(t, err)
	assert.Equal(t, access.Internal, p.Accessibility(), "both accessors present: plain merge")
}

func TestSignatureFromBlob(t *testing.T) {
	f := testkit.NewCorlib()
	str := f.Known(model.KnownString)
	i32 := f.Known(model.KnownInt32)
	c := f.Class("Demo", "Table")
	idx := f.Indexer(c, "Item", str, access.Public, access.None,
		f.Param("row", i32), model.Parameter{Name: "col", Type: str, Optional: true, HasDefault: true, Default: "A"})

	rec, _ := f.M.Entity(idx)
	require.NotEmpty(t, rec.Signature)
	require.Len(t, rec.ParamRecords, 3, "includes the return-value record")

	ms := metadata.NewMembers(f.M)
	p, err := ms.Property(idx)
	require.NoError(t, err)
	sig := p.Signature()
	require.NoError(t, sig.Err)
	assert.Equal(t, str, sig.ReturnType)
	require.Len(t, sig.Params, 2)
	assert.Equal(t, "row", sig.Params[0].Name)
	assert.Equal(t, i32, sig.Params[0].Type)
	assert.Equal(t, "col", sig.Params[1].Name)
	assert.True(t, sig.Params[1].Optional)
	assert.Equal(t, "A", sig.Params[1].Default)
}

func TestSignatureOfGenericOwner(t *testing.T) {
	f := testkit.NewCorlib()
	ms := metadata.NewMembers(f.M)
	list, _ := f.M.Definition(f.List)

	var item *metadata.Property
	for _, id := range list.Members {
		if e, _ := f.M.Entity(id); e.Kind == model.EntityProperty && e.Name == "Item" {
			item, _ = ms.Property(id)
		}
	}
	require.NotNil(t, item)
	assert.Equal(t, list.TypeParams[0], item.ReturnType())
	assert.Equal(t, model.EntityIndexer, item.Kind())
}

func TestMalformedSignatureDegrades(t *testing.T) {
	f := testkit.NewCorlib()
	c := f.Class("Demo", "Broken")
	id := f.Property(c, "Value", f.Known(model.KnownInt32), access.Public, access.None)
	_ = f.M.UpdateEntity(id, func(e *model.Entity) { e.Signature = []byte{0x28, 0x01, 0x12} })

	ms := metadata.NewMembers(f.M)
	p, err := ms.Property(id)
	require.NoError(t, err)
	sig := p.Signature()
	require.Error(t, sig.Err)
	assert.ErrorIs(t, sig.Err, metadata.ErrBadSignature)
	assert.Equal(t, f.M.Unknown(), sig.ReturnType)
	require.Len(t, sig.Params, 1)
	assert.Equal(t, f.M.Unknown(), sig.Params[0].Type)
}

func TestEqualityAndHash(t *testing.T) {
	f := testkit.NewCorlib()
	c := f.Class("Demo", "Eq")
	a := f.Property(c, "A", f.Known(model.KnownInt32), access.Public, access.None)
	b := f.Property(c, "B", f.Known(model.KnownInt32), access.Public, access.None)

	ms1 := metadata.NewMembers(f.M)
	ms2 := metadata.NewMembers(f.M)
	pa1, _ := ms1.Property(a)
	pa2, _ := ms2.Property(a)
	pb, _ := ms1.Property(b)

	assert.NotSame(t, pa1, pa2)
	assert.True(t, pa1.Equal(pa2))
	assert.Equal(t, pa1.Hash(), pa2.Hash())
	assert.False(t, pa1.Equal(pb))
	assert.NotEqual(t, pa1.Hash(), pb.Hash())
}

func TestMembersRejectsNonProperties(t *testing.T) {
	f := testkit.NewCorlib()
	c := f.Class("Demo", "X")
	m := f.Method(c, "Run", access.Public, 0, f.Known(model.KnownVoid))
	_, err := metadata.NewMembers(f.M).Property(m)
	assert.ErrorIs(t, err, metadata.ErrNotProperty)
	_, err = metadata.NewMembers(f.M).Property(model.EntityID(1 << 20))
	assert.ErrorIs(t, err, model.ErrEntityNotFound)
}

func TestConcurrentFirstReads(t *testing.T) {
	f := testkit.NewCorlib()
	c := f.Class("Demo", "Hot")
	i32 := f.Known(model.KnownInt32)
	id := f.Indexer(c, "Item", i32, access.Protected, access.Internal, f.Param("i", i32))
	ms := metadata.NewMembers(f.M)

	const workers = 16
	got := make([]*metadata.Property, workers)
	kinds := make([]model.EntityKind, workers)
	accs := make([]access.Accessibility, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := ms.Property(id)
			if err != nil {
				return
			}
			got[i] = p
			kinds[i] = p.Kind()
			accs[i] = p.Accessibility()
		}()
	}
	wg.Wait()
	for i := range workers {
		assert.Same(t, got[0], got[i])
		assert.Equal(t, model.EntityIndexer, kinds[i])
		assert.Equal(t, access.ProtectedOrInternal, accs[i])
	}
}

func TestEventAccessibility(t *testing.T) {
	f := testkit.NewCorlib()
	c := f.Class("Demo", "Source")
	ev := f.Event(c, "Changed", f.Known(model.KnownObject), access.Protected)
	assert.Equal(t, access.Protected, metadata.EventAccessibility(f.M, ev))

	rec, _ := f.M.Entity(ev)
	_ = f.M.UpdateEntity(rec.Remover, func(e *model.Entity) { e.Access = access.Internal })
	assert.Equal(t, access.ProtectedOrInternal, metadata.EventAccessibility(f.M, ev))
}
