package metadata

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"projector/internal/model"
)

var (
	// ErrBadSignature reports a truncated or structurally invalid blob.
	ErrBadSignature = errors.New("metadata: malformed signature blob")
	// ErrUnknownToken reports a type token the model cannot resolve.
	ErrUnknownToken = errors.New("metadata: unknown type token")
	// ErrUnsupportedType reports a type the signature codec cannot express.
	ErrUnsupportedType = errors.New("metadata: type not expressible in signature")
)

// Element type codes (ECMA-335 II.23.1.16).
const (
	elemVoid        byte = 0x01
	elemBoolean     byte = 0x02
	elemChar        byte = 0x03
	elemI1          byte = 0x04
	elemU1          byte = 0x05
	elemI2          byte = 0x06
	elemU2          byte = 0x07
	elemI4          byte = 0x08
	elemU4          byte = 0x09
	elemI8          byte = 0x0a
	elemU8          byte = 0x0b
	elemR4          byte = 0x0c
	elemR8          byte = 0x0d
	elemString      byte = 0x0e
	elemPtr         byte = 0x0f
	elemByRef       byte = 0x10
	elemValueType   byte = 0x11
	elemClass       byte = 0x12
	elemVar         byte = 0x13
	elemArray       byte = 0x14
	elemGenericInst byte = 0x15
	elemTypedByRef  byte = 0x16
	elemI           byte = 0x18
	elemU           byte = 0x19
	elemFnPtr       byte = 0x1b
	elemObject      byte = 0x1c
	elemSZArray     byte = 0x1d
	elemMVar        byte = 0x1e
	elemCModReqd    byte = 0x1f
	elemCModOpt     byte = 0x20
	elemSentinel    byte = 0x41
	elemPinned      byte = 0x45
)

const (
	sigProperty byte = 0x08
	sigHasThis  byte = 0x20
)

var primitiveElems = map[byte]model.KnownType{
	elemVoid:       model.KnownVoid,
	elemBoolean:    model.KnownBoolean,
	elemChar:       model.KnownChar,
	elemI1:         model.KnownSByte,
	elemU1:         model.KnownByte,
	elemI2:         model.KnownInt16,
	elemU2:         model.KnownUInt16,
	elemI4:         model.KnownInt32,
	elemU4:         model.KnownUInt32,
	elemI8:         model.KnownInt64,
	elemU8:         model.KnownUInt64,
	elemR4:         model.KnownSingle,
	elemR8:         model.KnownDouble,
	elemString:     model.KnownString,
	elemTypedByRef: model.KnownTypedReference,
	elemI:          model.KnownIntPtr,
	elemU:          model.KnownUIntPtr,
	elemObject:     model.KnownObject,
}

// PropertySig is a decoded property signature.
type PropertySig struct {
	HasThis    bool
	ReturnType model.TypeID
	Params     []model.TypeID
}

// sigReader walks a blob. The first error sticks; later reads return zero
// values so callers can finish with Unknown placeholders.
type sigReader struct {
	m      *model.Model
	module model.ModuleID
	// typeArgs resolves VAR n; method parameters never occur in property
	// signatures, so MVAR degrades to Unknown.
	typeArgs []model.TypeID
	blob     []byte
	pos      int
	err      error
}

func (r *sigReader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *sigReader) readByte() byte {
	if r.err != nil {
		return 0
	}
	if r.pos >= len(r.blob) {
		r.fail(fmt.Errorf("%w: unexpected end at offset %d", ErrBadSignature, r.pos))
		return 0
	}
	b := r.blob[r.pos]
	r.pos++
	return b
}

func (r *sigReader) peek() byte {
	if r.err != nil || r.pos >= len(r.blob) {
		return 0
	}
	return r.blob[r.pos]
}

// compressed reads an ECMA-335 compressed unsigned integer (II.23.2).
func (r *sigReader) compressed() uint32 {
	b0 := r.readByte()
	switch {
	case b0&0x80 == 0:
		return uint32(b0)
	case b0&0xc0 == 0x80:
		b1 := r.readByte()
		return uint32(b0&0x3f)<<8 | uint32(b1)
	case b0&0xe0 == 0xc0:
		b1, b2, b3 := r.readByte(), r.readByte(), r.readByte()
		return uint32(b0&0x1f)<<24 | uint32(b1)<<16 | uint32(b2)<<8 | uint32(b3)
	default:
		r.fail(fmt.Errorf("%w: bad compressed integer 0x%02x", ErrBadSignature, b0))
		return 0
	}
}

func (r *sigReader) count() int {
	v := r.compressed()
	n, err := safecast.Conv[int](v)
	if err != nil || n > len(r.blob) {
		r.fail(fmt.Errorf("%w: count %d exceeds blob", ErrBadSignature, v))
		return 0
	}
	return n
}

func (r *sigReader) skipCustomMods() {
	for r.err == nil {
		switch r.peek() {
		case elemCModReqd, elemCModOpt:
			r.pos++
			r.compressed()
		case elemPinned, elemSentinel:
			r.pos++
		default:
			return
		}
	}
}

func (r *sigReader) typeDefOrRef() model.TypeID {
	coded := r.compressed()
	if r.err != nil {
		return r.m.Unknown()
	}
	var table model.Handle
	switch coded & 0x3 {
	case 0:
		table = model.TableTypeDef
	case 1:
		table = model.TableTypeRef
	case 2:
		table = model.TableTypeSpec
	default:
		r.fail(fmt.Errorf("%w: bad TypeDefOrRef tag in 0x%x", ErrBadSignature, coded))
		return r.m.Unknown()
	}
	h := model.MakeHandle(table, coded>>2)
	id, ok := r.m.TypeByHandle(r.module, h)
	if !ok {
		r.fail(fmt.Errorf("%w: 0x%08x", ErrUnknownToken, uint32(h)))
		return r.m.Unknown()
	}
	return id
}

func (r *sigReader) typ() model.TypeID {
	r.skipCustomMods()
	code := r.readByte()
	if r.err != nil {
		return r.m.Unknown()
	}
	if k, ok := primitiveElems[code]; ok {
		if id := r.m.KnownType(k); id.IsValid() {
			return id
		}
		return r.m.Unknown()
	}
	switch code {
	case elemPtr:
		return r.m.PointerTo(r.typ())
	case elemByRef:
		return r.m.ByRefTo(r.typ())
	case elemValueType, elemClass:
		return r.typeDefOrRef()
	case elemVar:
		n := r.count()
		if n < len(r.typeArgs) {
			return r.typeArgs[n]
		}
		r.fail(fmt.Errorf("%w: type parameter !%d out of range", ErrBadSignature, n))
		return r.m.Unknown()
	case elemMVar:
		r.count()
		return r.m.Unknown()
	case elemSZArray:
		return r.m.ArrayOf(r.typ(), 1)
	case elemArray:
		elem := r.typ()
		rank := r.compressed()
		for range r.count() {
			r.compressed()
		}
		for range r.count() {
			r.compressed()
		}
		return r.m.ArrayOf(elem, rank)
	case elemGenericInst:
		kind := r.readByte()
		if kind != elemClass && kind != elemValueType {
			r.fail(fmt.Errorf("%w: generic instance of 0x%02x", ErrBadSignature, kind))
			return r.m.Unknown()
		}
		generic := r.typeDefOrRef()
		n := r.count()
		args := make([]model.TypeID, 0, n)
		for range n {
			args = append(args, r.typ())
		}
		if r.m.KindOf(generic) != model.KindDefinition {
			return r.m.Unknown()
		}
		return r.m.Parameterized(generic, args...)
	case elemFnPtr:
		r.fail(fmt.Errorf("%w: function pointer", ErrUnsupportedType))
		return r.m.Unknown()
	default:
		r.fail(fmt.Errorf("%w: element type 0x%02x", ErrBadSignature, code))
		return r.m.Unknown()
	}
}

// DecodePropertySig decodes a PropertySig blob (ECMA-335 II.23.2.5). typeArgs
// resolves class type parameters (!n). On error the returned signature is
// still complete: undecodable positions hold the model's Unknown type.
func DecodePropertySig(m *model.Model, module model.ModuleID, typeArgs []model.TypeID, blob []byte) (PropertySig, error) {
	r := &sigReader{m: m, module: module, typeArgs: typeArgs, blob: blob}
	header := r.readByte()
	if r.err == nil && header&^sigHasThis != sigProperty {
		r.fail(fmt.Errorf("%w: header 0x%02x is not a property signature", ErrBadSignature, header))
	}
	sig := PropertySig{HasThis: header&sigHasThis != 0}
	n := r.count()
	sig.ReturnType = r.typ()
	sig.Params = make([]model.TypeID, 0, n)
	for range n {
		sig.Params = append(sig.Params, r.typ())
	}
	if r.err == nil && r.pos != len(blob) {
		r.fail(fmt.Errorf("%w: %d trailing bytes", ErrBadSignature, len(blob)-r.pos))
	}
	return sig, r.err
}
