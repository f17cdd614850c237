package metadata

import (
	"fmt"

	"projector/internal/model"
)

var knownElems = func() map[model.KnownType]byte {
	out := make(map[model.KnownType]byte, len(primitiveElems))
	for code, k := range primitiveElems {
		out[k] = code
	}
	return out
}()

type sigWriter struct {
	m   *model.Model
	buf []byte
}

func (w *sigWriter) compressed(v uint32) error {
	switch {
	case v <= 0x7f:
		w.buf = append(w.buf, byte(v))
	case v <= 0x3fff:
		w.buf = append(w.buf, byte(v>>8)|0x80, byte(v))
	case v <= 0x1fffffff:
		w.buf = append(w.buf, byte(v>>24)|0xc0, byte(v>>16), byte(v>>8), byte(v))
	default:
		return fmt.Errorf("%w: %d does not fit a compressed integer", ErrUnsupportedType, v)
	}
	return nil
}

func (w *sigWriter) token(def *model.Definition) error {
	var tag uint32
	switch def.Handle.Table() {
	case model.TableTypeDef:
		tag = 0
	case model.TableTypeRef:
		tag = 1
	default:
		return fmt.Errorf("%w: %s has no TypeDef/TypeRef handle", ErrUnsupportedType, def.Name)
	}
	return w.compressed(def.Handle.Row()<<2 | tag)
}

func (w *sigWriter) typ(id model.TypeID) error {
	t, ok := w.m.Type(id)
	if !ok {
		return fmt.Errorf("%w: invalid type %d", ErrUnsupportedType, id)
	}
	switch t.Kind {
	case model.KindDefinition:
		def, _ := w.m.Definition(id)
		if code, ok := knownElems[def.Known]; ok {
			w.buf = append(w.buf, code)
			return nil
		}
		w.buf = append(w.buf, w.classOrValue(def))
		return w.token(def)
	case model.KindParameterized:
		def, _ := w.m.Definition(t.Elem)
		w.buf = append(w.buf, elemGenericInst, w.classOrValue(def))
		if err := w.token(def); err != nil {
			return err
		}
		if err := w.compressed(uint32(len(t.Args))); err != nil {
			return err
		}
		for _, a := range t.Args {
			if err := w.typ(a); err != nil {
				return err
			}
		}
		return nil
	case model.KindArray:
		if t.Rank == 1 {
			w.buf = append(w.buf, elemSZArray)
			return w.typ(t.Elem)
		}
		w.buf = append(w.buf, elemArray)
		if err := w.typ(t.Elem); err != nil {
			return err
		}
		// rank, no sizes, no lower bounds
		if err := w.compressed(t.Rank); err != nil {
			return err
		}
		w.buf = append(w.buf, 0, 0)
		return nil
	case model.KindPointer:
		w.buf = append(w.buf, elemPtr)
		return w.typ(t.Elem)
	case model.KindByRef:
		w.buf = append(w.buf, elemByRef)
		return w.typ(t.Elem)
	case model.KindTypeParameter:
		tp, ok := w.m.TypeParam(id)
		if !ok {
			return fmt.Errorf("%w: type parameter %d", model.ErrTypeNotFound, id)
		}
		if tp.OwnerMethod.IsValid() {
			w.buf = append(w.buf, elemMVar)
		} else {
			w.buf = append(w.buf, elemVar)
		}
		return w.compressed(uint32(tp.Index))
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, t.Kind)
	}
}

func (w *sigWriter) classOrValue(def *model.Definition) byte {
	if def.Kind == model.DefStruct || def.Kind == model.DefEnum {
		return elemValueType
	}
	return elemClass
}

// EncodePropertySig produces a PropertySig blob. Definitions must carry
// TypeDef or TypeRef handles; tuples and unknown types are rejected.
func EncodePropertySig(m *model.Model, hasThis bool, ret model.TypeID, params []model.TypeID) ([]byte, error) {
	w := &sigWriter{m: m}
	header := sigProperty
	if hasThis {
		header |= sigHasThis
	}
	w.buf = append(w.buf, header)
	if err := w.compressed(uint32(len(params))); err != nil {
		return nil, err
	}
	if err := w.typ(ret); err != nil {
		return nil, err
	}
	for _, p := range params {
		if err := w.typ(p); err != nil {
			return nil, err
		}
	}
	return w.buf, nil
}
