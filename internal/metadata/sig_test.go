package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projector/internal/access"
	"projector/internal/model"
)

func TestCompressedIntegers(t *testing.T) {
	cases := []struct {
		blob []byte
		want uint32
	}{
		{[]byte{0x03}, 0x03},
		{[]byte{0x7f}, 0x7f},
		{[]byte{0x80, 0x80}, 0x80},
		{[]byte{0xae, 0x57}, 0x2e57},
		{[]byte{0xbf, 0xff}, 0x3fff},
		{[]byte{0xc0, 0x00, 0x40, 0x00}, 0x4000},
		{[]byte{0xdf, 0xff, 0xff, 0xff}, 0x1fffffff},
	}
	for _, tc := range cases {
		r := &sigReader{blob: tc.blob}
		assert.Equal(t, tc.want, r.compressed())
		require.NoError(t, r.err)
		assert.Equal(t, len(tc.blob), r.pos)

		w := &sigWriter{}
		require.NoError(t, w.compressed(tc.want))
		assert.Equal(t, tc.blob, w.buf)
	}

	r := &sigReader{blob: []byte{0xff}}
	r.compressed()
	assert.ErrorIs(t, r.err, ErrBadSignature)
}

func sigModel(t *testing.T) (*model.Model, model.ModuleID, model.TypeID, []model.TypeID) {
	t.Helper()
	m := model.New()
	mod := m.AddModule("core")
	row := uint32(0)
	def := func(ns, name string, kind model.DefKind) model.TypeID {
		row++
		return m.MustDefineType(model.Definition{Module: mod, Handle: model.MakeHandle(model.TableTypeDef, row),
			Namespace: ns, Name: name, Kind: kind, Access: access.Public})
	}
	def("System", "Object", model.DefClass)
	def("System", "Int32", model.DefStruct)
	def("System", "String", model.DefClass)
	def("System", "Void", model.DefStruct)
	dict := def("Coll", "Map", model.DefClass)
	params := m.AddTypeParams(dict, model.TypeParam{Name: "K"}, model.TypeParam{Name: "V"})
	return m, mod, dict, params
}

func TestPropertySigRoundTrip(t *testing.T) {
	m, mod, dict, tps := sigModel(t)
	i32 := m.KnownType(model.KnownInt32)
	str := m.KnownType(model.KnownString)

	ret := m.Parameterized(dict, m.ArrayOf(str, 1), m.PointerTo(i32))
	params := []model.TypeID{tps[0], m.ArrayOf(tps[1], 3), m.ByRefTo(i32), m.KnownType(model.KnownObject)}

	blob, err := EncodePropertySig(m, true, ret, params)
	require.NoError(t, err)
	assert.Equal(t, byte(0x28), blob[0])

	sig, err := DecodePropertySig(m, mod, tps, blob)
	require.NoError(t, err)
	assert.True(t, sig.HasThis)
	assert.Equal(t, ret, sig.ReturnType)
	assert.Equal(t, params, sig.Params)
}

func TestPropertySigSkipsCustomModifiers(t *testing.T) {
	m, mod, _, _ := sigModel(t)
	// int32 modopt(Map) Item[string]
	blob := []byte{0x08, 0x01, elemCModOpt, 0x14, elemI4, elemString}
	sig, err := DecodePropertySig(m, mod, nil, blob)
	require.NoError(t, err)
	assert.False(t, sig.HasThis)
	assert.Equal(t, m.KnownType(model.KnownInt32), sig.ReturnType)
	assert.Equal(t, []model.TypeID{m.KnownType(model.KnownString)}, sig.Params)
}

func TestPropertySigErrors(t *testing.T) {
	m, mod, _, _ := sigModel(t)

	_, err := DecodePropertySig(m, mod, nil, []byte{0x06, 0x00, elemI4})
	assert.ErrorIs(t, err, ErrBadSignature, "field header")

	sig, err := DecodePropertySig(m, mod, nil, []byte{0x08, 0x00, elemClass, 0x7c})
	assert.ErrorIs(t, err, ErrUnknownToken)
	assert.Equal(t, m.Unknown(), sig.ReturnType)

	_, err = DecodePropertySig(m, mod, nil, []byte{0x08, 0x00, elemVar, 0x00})
	assert.ErrorIs(t, err, ErrBadSignature, "no type arguments in scope")

	_, err = DecodePropertySig(m, mod, nil, []byte{0x08, 0x00, elemI4, elemI4})
	assert.ErrorIs(t, err, ErrBadSignature, "trailing bytes")

	_, err = EncodePropertySig(m, true, m.TupleOf([]model.TypeID{m.KnownType(model.KnownInt32)}, nil), nil)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
