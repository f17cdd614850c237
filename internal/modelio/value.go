package modelio

import (
	"fmt"
	"math"

	"fortio.org/safecast"

	"projector/internal/model"
)

type valueKind uint8

const (
	valueBool valueKind = iota + 1
	valueChar
	valueInt8
	valueUint8
	valueInt16
	valueUint16
	valueInt32
	valueUint32
	valueInt64
	valueUint64
	valueFloat32
	valueFloat64
	valueDecimal
	valueString
	valueType
	valueArray
)

// Value is the tagged wire form of a constant. Constants are stored in a
// side table and the model's value slots hold 1-based indexes into it.
type Value struct {
	Kind  valueKind    `msgpack:"k"`
	Int   int64        `msgpack:"i,omitempty"`
	Uint  uint64       `msgpack:"u,omitempty"`
	Float uint64       `msgpack:"f,omitempty"` // IEEE bits, NaN payloads survive
	Str   string       `msgpack:"s,omitempty"`
	Type  model.TypeID `msgpack:"t,omitempty"`
	Elems []Element    `msgpack:"e,omitempty"`
}

// Element is one array element; Value is a table reference, 0 for null.
type Element struct {
	Declared model.TypeID `msgpack:"d"`
	Runtime  model.TypeID `msgpack:"r,omitempty"`
	Value    uint32       `msgpack:"v,omitempty"`
}

type valueTable struct {
	values []Value
}

// add stores v and returns its reference; nil maps to 0.
func (t *valueTable) add(v any) (uint32, error) {
	if v == nil {
		return 0, nil
	}
	var w Value
	switch x := v.(type) {
	case bool:
		w = Value{Kind: valueBool}
		if x {
			w.Int = 1
		}
	case model.Char:
		w = Value{Kind: valueChar, Uint: uint64(x)}
	case int8:
		w = Value{Kind: valueInt8, Int: int64(x)}
	case uint8:
		w = Value{Kind: valueUint8, Uint: uint64(x)}
	case int16:
		w = Value{Kind: valueInt16, Int: int64(x)}
	case uint16:
		w = Value{Kind: valueUint16, Uint: uint64(x)}
	case int32:
		w = Value{Kind: valueInt32, Int: int64(x)}
	case uint32:
		w = Value{Kind: valueUint32, Uint: uint64(x)}
	case int64:
		w = Value{Kind: valueInt64, Int: x}
	case uint64:
		w = Value{Kind: valueUint64, Uint: x}
	case float32:
		w = Value{Kind: valueFloat32, Float: uint64(math.Float32bits(x))}
	case float64:
		w = Value{Kind: valueFloat64, Float: math.Float64bits(x)}
	case model.Decimal:
		w = Value{Kind: valueDecimal, Str: string(x)}
	case string:
		w = Value{Kind: valueString, Str: x}
	case model.TypeValue:
		w = Value{Kind: valueType, Type: x.Type}
	case []model.TypedValue:
		w = Value{Kind: valueArray, Elems: make([]Element, len(x))}
		for i, el := range x {
			ref, err := t.add(el.Value)
			if err != nil {
				return 0, err
			}
			w.Elems[i] = Element{Declared: el.Declared, Runtime: el.Runtime, Value: ref}
		}
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
	t.values = append(t.values, w)
	ref, err := safecast.Conv[uint32](len(t.values))
	if err != nil {
		return 0, fmt.Errorf("value table overflow: %w", err)
	}
	return ref, nil
}

// get rebuilds the Go value behind ref. Nesting is bounded by the table
// size, which rejects cyclic array references.
func (t *valueTable) get(ref uint32, depth int) (any, error) {
	if ref == 0 {
		return nil, nil
	}
	if int(ref) > len(t.values) || depth > len(t.values) {
		return nil, fmt.Errorf("%w: value reference %d", ErrBadSnapshot, ref)
	}
	w := t.values[ref-1]
	switch w.Kind {
	case valueBool:
		return w.Int != 0, nil
	case valueChar:
		return narrow[model.Char](w.Uint)
	case valueInt8:
		return narrow[int8](w.Int)
	case valueUint8:
		return narrow[uint8](w.Uint)
	case valueInt16:
		return narrow[int16](w.Int)
	case valueUint16:
		return narrow[uint16](w.Uint)
	case valueInt32:
		return narrow[int32](w.Int)
	case valueUint32:
		return narrow[uint32](w.Uint)
	case valueInt64:
		return w.Int, nil
	case valueUint64:
		return w.Uint, nil
	case valueFloat32:
		bits, err := safecast.Conv[uint32](w.Float)
		if err != nil {
			return nil, fmt.Errorf("%w: float32 bits: %w", ErrBadSnapshot, err)
		}
		return math.Float32frombits(bits), nil
	case valueFloat64:
		return math.Float64frombits(w.Float), nil
	case valueDecimal:
		return model.Decimal(w.Str), nil
	case valueString:
		return w.Str, nil
	case valueType:
		return model.TypeValue{Type: w.Type}, nil
	case valueArray:
		out := make([]model.TypedValue, len(w.Elems))
		for i, el := range w.Elems {
			v, err := t.get(el.Value, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = model.TypedValue{Declared: el.Declared, Runtime: el.Runtime, Value: v}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: value kind %d", ErrBadSnapshot, w.Kind)
}

func narrow[T safecast.Integer, S safecast.Integer](v S) (any, error) {
	out, err := safecast.Conv[T](v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	return out, nil
}

// slotRef reads a table reference back from a decoded value slot. The
// decoder picks the narrowest integer type for it.
func slotRef(v any) (uint32, error) {
	var (
		ref uint32
		err error
	)
	switch x := v.(type) {
	case nil:
		return 0, nil
	case int8:
		ref, err = safecast.Conv[uint32](x)
	case int16:
		ref, err = safecast.Conv[uint32](x)
	case int32:
		ref, err = safecast.Conv[uint32](x)
	case int64:
		ref, err = safecast.Conv[uint32](x)
	case uint8:
		ref = uint32(x)
	case uint16:
		ref = uint32(x)
	case uint32:
		ref = x
	case uint64:
		ref, err = safecast.Conv[uint32](x)
	default:
		return 0, fmt.Errorf("%w: value slot holds %T", ErrBadSnapshot, v)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: value slot: %w", ErrBadSnapshot, err)
	}
	return ref, nil
}
