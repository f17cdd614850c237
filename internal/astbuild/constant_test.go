package astbuild_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projector/internal/astbuild"
	"projector/internal/format"
	"projector/internal/model"
	"projector/internal/syntax"
	"projector/internal/testkit"
)

func TestConvertConstantLiterals(t *testing.T) {
	f := testkit.NewCorlib()
	b, _ := newBuilder(f, scope{ns: "App", usings: []string{"System", "System.Collections.Generic"}}, nil)
	k := f.Known
	i32 := k(model.KnownInt32)
	obj := k(model.KnownObject)

	cases := []struct {
		name               string
		expected, declared model.TypeID
		value              any
		want               string
	}{
		{"int", i32, i32, int32(42), "42"},
		{"negative int", i32, i32, int32(-1), "-1"},
		{"uint zero", k(model.KnownUInt32), k(model.KnownUInt32), uint32(0), "0u"},
		{"long", k(model.KnownInt64), k(model.KnownInt64), int64(3), "3L"},
		{"bool", k(model.KnownBoolean), k(model.KnownBoolean), true, "true"},
		{"char", k(model.KnownChar), k(model.KnownChar), model.Char('x'), "'x'"},
		{"string", k(model.KnownString), k(model.KnownString), "hi", `"hi"`},
		{"decimal", k(model.KnownDecimal), k(model.KnownDecimal), model.Decimal("1.5"), "1.5m"},
		{"short in short slot", k(model.KnownInt16), k(model.KnownInt16), int16(5), "5"},
		{"short in object slot", obj, k(model.KnownInt16), int16(5), "(short)5"},
		{"byte in object slot", obj, k(model.KnownByte), uint8(200), "(byte)200"},
		{"boxed int", obj, obj, int32(7), "7"},
		{"null string", k(model.KnownString), k(model.KnownString), nil, "null"},
		{"null object", obj, obj, nil, "null"},
		{"default int", i32, i32, nil, "default(int)"},
		{"typeof", k(model.KnownSystemType), k(model.KnownSystemType), model.TypeValue{Type: f.List}, "typeof(List<>)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := b.ConvertConstant(tc.expected, tc.declared, tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.want, format.Expr(e))
		})
	}
}

func TestConvertConstantArray(t *testing.T) {
	f := testkit.NewCorlib()
	b, _ := newBuilder(f, scope{ns: "App"}, nil)
	i32 := f.Known(model.KnownInt32)
	e, err := b.ConvertConstant(f.M.ArrayOf(i32, 1), f.M.ArrayOf(i32, 1),
		[]model.TypedValue{f.Value(i32, int32(1)), f.Value(i32, int32(2))})
	require.NoError(t, err)
	assert.Equal(t, "new int[] { 1, 2 }", format.Expr(e))

	_, err = b.ConvertConstant(f.M.ArrayOf(i32, 1), f.M.ArrayOf(i32, 1),
		[]model.TypedValue{f.Value(i32, "two")})
	require.ErrorIs(t, err, astbuild.ErrConstantMismatch)
}

func TestConvertConstantSpecialValues(t *testing.T) {
	f := testkit.NewCorlib()
	k := f.Known
	dbl := k(model.KnownDouble)
	flt := k(model.KnownSingle)
	i32 := k(model.KnownInt32)
	sc := scope{ns: "App", usings: []string{"System"}}

	b, _ := newBuilder(f, sc, nil)
	named := []struct {
		t    model.TypeID
		v    any
		want string
	}{
		{i32, int32(math.MaxInt32), "int.MaxValue"},
		{i32, int32(math.MinInt32), "int.MinValue"},
		{k(model.KnownByte), uint8(255), "byte.MaxValue"},
		{dbl, math.NaN(), "double.NaN"},
		{dbl, math.Inf(-1), "double.NegativeInfinity"},
		{flt, float32(math.Inf(1)), "float.PositiveInfinity"},
		{dbl, math.MaxFloat64, "double.MaxValue"},
		{dbl, math.SmallestNonzeroFloat64, "double.Epsilon"},
	}
	for _, tc := range named {
		e, err := b.ConvertConstant(tc.t, tc.t, tc.v)
		require.NoError(t, err)
		assert.Equal(t, tc.want, format.Expr(e))
	}

	b, _ = newBuilder(f, sc, func(o *astbuild.Options) { o.AlwaysUseBuiltinTypeNames = false })
	e, err := b.ConvertConstant(dbl, dbl, math.NaN())
	require.NoError(t, err)
	assert.Equal(t, "Double.NaN", format.Expr(e))

	b, _ = newBuilder(f, sc, func(o *astbuild.Options) { o.UseSpecialConstants = false })
	spelled := []struct {
		t    model.TypeID
		v    any
		want string
	}{
		{dbl, math.NaN(), "0.0 / 0.0"},
		{dbl, math.Inf(1), "1.0 / 0.0"},
		{dbl, math.Inf(-1), "-1.0 / 0.0"},
		{flt, float32(math.NaN()), "0f / 0f"},
		{i32, int32(math.MaxInt32), "2147483647"},
	}
	for _, tc := range spelled {
		e, err := b.ConvertConstant(tc.t, tc.t, tc.v)
		require.NoError(t, err)
		assert.Equal(t, tc.want, format.Expr(e))
	}
}

func TestConvertConstantMismatch(t *testing.T) {
	f := testkit.NewCorlib()
	b, _ := newBuilder(f, scope{ns: "App"}, nil)
	i32 := f.Known(model.KnownInt32)

	_, err := b.ConvertConstant(i32, i32, int64(5))
	require.ErrorIs(t, err, astbuild.ErrConstantMismatch)
	_, err = b.ConvertConstant(i32, i32, "5")
	require.ErrorIs(t, err, astbuild.ErrConstantMismatch)
	_, err = b.ConvertConstant(f.DayOfWeek, f.DayOfWeek, uint8(1))
	require.ErrorIs(t, err, astbuild.ErrConstantMismatch)
}

func TestConvertConstantAnnotations(t *testing.T) {
	f := testkit.NewCorlib()
	b, _ := newBuilder(f, scope{ns: "App"}, func(o *astbuild.Options) {
		o.AddResolveResultAnnotations = true
		o.AddTypeReferenceAnnotations = true
	})
	i32 := f.Known(model.KnownInt32)
	e, err := b.ConvertConstant(i32, i32, int32(3))
	require.NoError(t, err)
	require.NotNil(t, e.Annotations().Resolved)
	assert.Equal(t, int32(3), e.Annotations().Resolved.Value)
	assert.Equal(t, i32, e.Annotations().TypeRef)
}

func TestEnumExactAndCast(t *testing.T) {
	f := testkit.NewCorlib()
	b, _ := newBuilder(f, scope{ns: "App", usings: []string{"System"}}, nil)

	e, err := b.ConvertConstant(f.DayOfWeek, f.DayOfWeek, int32(1))
	require.NoError(t, err)
	assert.Equal(t, "DayOfWeek.Monday", format.Expr(e))

	e, err = b.ConvertConstant(f.DayOfWeek, f.DayOfWeek, int32(7))
	require.NoError(t, err)
	assert.Equal(t, "(DayOfWeek)7", format.Expr(e))

	e, err = b.ConvertConstant(f.DayOfWeek, f.DayOfWeek, int32(-1))
	require.NoError(t, err)
	assert.Equal(t, "(DayOfWeek)(-1)", format.Expr(e))

	// Without [Flags] values are never combined.
	e, err = b.ConvertConstant(f.DayOfWeek, f.DayOfWeek, int32(12))
	require.NoError(t, err)
	assert.IsType(t, &syntax.CastExpr{}, e)
}

func TestFlagsEnumCombinations(t *testing.T) {
	f := testkit.NewCorlib()
	b, _ := newBuilder(f, scope{ns: "App", usings: []string{"System"}}, nil)

	e, err := b.ConvertConstant(f.AttrTargets, f.AttrTargets, int32(3))
	require.NoError(t, err)
	assert.Equal(t, "AttributeTargets.Assembly | AttributeTargets.Module", format.Expr(e))

	e, err = b.ConvertConstant(f.AttrTargets, f.AttrTargets, int32(32767))
	require.NoError(t, err)
	assert.Equal(t, "AttributeTargets.All", format.Expr(e))

	perm := f.Enum("App", "Perm", model.NoModuleID, model.NoTypeID, true,
		"Read", 1, "Write", 2, "Exec", 4)
	e, err = b.ConvertConstant(perm, perm, int32(-2))
	require.NoError(t, err)
	assert.Equal(t, "~Perm.Read", format.Expr(e))

	e, err = b.ConvertConstant(perm, perm, int32(-8))
	require.NoError(t, err)
	assert.Equal(t, "~(Perm.Read | Perm.Write | Perm.Exec)", format.Expr(e))
}

// evalEnum computes the 32-bit value of an enum expression.
func evalEnum(t *testing.T, fields map[string]uint64, e syntax.Expr) uint64 {
	t.Helper()
	const mask = math.MaxUint32
	switch n := e.(type) {
	case *syntax.MemberRefExpr:
		v, ok := fields[n.Name.Name]
		require.True(t, ok, "unknown field %s", n.Name.Name)
		return v
	case *syntax.BinaryExpr:
		require.Equal(t, syntax.OpBitOr, n.Op)
		return evalEnum(t, fields, n.Left) | evalEnum(t, fields, n.Right)
	case *syntax.UnaryExpr:
		require.Equal(t, syntax.OpBitNot, n.Op)
		return ^evalEnum(t, fields, n.Operand) & mask
	case *syntax.CastExpr:
		return evalEnum(t, fields, n.Expr)
	case *syntax.PrimitiveExpr:
		v, ok := n.Value.(int32)
		require.True(t, ok, "literal %T", n.Value)
		return uint64(uint32(v))
	}
	t.Fatalf("unexpected node %T", e)
	return 0
}

func TestFlagsEnumExhaustive(t *testing.T) {
	f := testkit.NewCorlib()
	b, _ := newBuilder(f, scope{ns: "App"}, nil)
	fields := map[string]uint64{"None": 0, "Read": 1, "Write": 2, "Exec": 4, "ReadWrite": 3}
	perm := f.Enum("App", "Perm", model.NoModuleID, model.NoTypeID, true,
		"None", 0, "Read", 1, "Write", 2, "ReadWrite", 3, "Exec", 4)

	for v := int32(0); v < 16; v++ {
		e, err := b.ConvertConstant(perm, perm, v)
		require.NoError(t, err)
		assert.Equal(t, uint64(v), evalEnum(t, fields, e), "%d printed as %s", v, format.Expr(e))
		if v < 8 {
			assert.NotContains(t, format.Expr(e), "(Perm)", "%d is representable", v)
		} else {
			assert.IsType(t, &syntax.CastExpr{}, e, "%d has an undeclared bit", v)
		}
	}
	for _, v := range []int32{-1, -2, -5, -8, math.MinInt32} {
		e, err := b.ConvertConstant(perm, perm, v)
		require.NoError(t, err)
		assert.Equal(t, uint64(uint32(v)), evalEnum(t, fields, e), "%d printed as %s", v, format.Expr(e))
	}

	e, err := b.ConvertConstant(perm, perm, int32(3))
	require.NoError(t, err)
	assert.Equal(t, "Perm.ReadWrite", format.Expr(e))
	e, err = b.ConvertConstant(perm, perm, int32(0))
	require.NoError(t, err)
	assert.Equal(t, "Perm.None", format.Expr(e))
}

func TestFlagsEnumSmallUnderlying(t *testing.T) {
	f := testkit.NewCorlib()
	b, _ := newBuilder(f, scope{ns: "App"}, nil)
	bits := f.Enum("App", "Bits", model.NoModuleID, f.Known(model.KnownByte), true,
		"Low", 0x0f, "High", 0xf0)

	e, err := b.ConvertConstant(bits, bits, uint8(0xff))
	require.NoError(t, err)
	assert.Equal(t, "Bits.Low | Bits.High", format.Expr(e))

	e, err = b.ConvertConstant(bits, bits, uint8(0x01))
	require.NoError(t, err)
	assert.Equal(t, "(Bits)1", format.Expr(e))
}
