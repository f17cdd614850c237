package astbuild

import (
	"fmt"
	"math"

	"fortio.org/safecast"

	"projector/internal/model"
	"projector/internal/syntax"
)

// specialConstant is a value that has a named constant on its type.
type specialConstant struct {
	known  model.KnownType
	member string
}

// lookupSpecial finds the named constant for v. Unsigned MinValue (zero) is
// left out so that zero keeps printing as a literal.
func lookupSpecial(v any) (specialConstant, bool) {
	switch x := v.(type) {
	case int8:
		return boundary(model.KnownSByte, x == math.MinInt8, x == math.MaxInt8)
	case uint8:
		return boundary(model.KnownByte, false, x == math.MaxUint8)
	case int16:
		return boundary(model.KnownInt16, x == math.MinInt16, x == math.MaxInt16)
	case uint16:
		return boundary(model.KnownUInt16, false, x == math.MaxUint16)
	case int32:
		return boundary(model.KnownInt32, x == math.MinInt32, x == math.MaxInt32)
	case uint32:
		return boundary(model.KnownUInt32, false, x == math.MaxUint32)
	case int64:
		return boundary(model.KnownInt64, x == math.MinInt64, x == math.MaxInt64)
	case uint64:
		return boundary(model.KnownUInt64, false, x == math.MaxUint64)
	case float32:
		return floatSpecial(model.KnownSingle, float64(x), math.MaxFloat32, math.SmallestNonzeroFloat32)
	case float64:
		return floatSpecial(model.KnownDouble, x, math.MaxFloat64, math.SmallestNonzeroFloat64)
	case model.Decimal:
		return boundary(model.KnownDecimal, x == model.DecimalMin, x == model.DecimalMax)
	}
	return specialConstant{}, false
}

func boundary(k model.KnownType, isMin, isMax bool) (specialConstant, bool) {
	switch {
	case isMin:
		return specialConstant{k, "MinValue"}, true
	case isMax:
		return specialConstant{k, "MaxValue"}, true
	}
	return specialConstant{}, false
}

func floatSpecial(k model.KnownType, x, maxValue, epsilon float64) (specialConstant, bool) {
	switch {
	case math.IsNaN(x):
		return specialConstant{k, "NaN"}, true
	case math.IsInf(x, 1):
		return specialConstant{k, "PositiveInfinity"}, true
	case math.IsInf(x, -1):
		return specialConstant{k, "NegativeInfinity"}, true
	case x == maxValue:
		return specialConstant{k, "MaxValue"}, true
	case x == -maxValue:
		return specialConstant{k, "MinValue"}, true
	case x == epsilon:
		return specialConstant{k, "Epsilon"}, true
	}
	return specialConstant{}, false
}

// ConvertConstant encodes value, declared as type declared, for a slot of
// type expected. expected differs from declared when the value is boxed
// (an object-typed attribute argument, for instance).
func (b *Builder) ConvertConstant(expected, declared model.TypeID, value any) (syntax.Expr, error) {
	if value == nil {
		if !declared.IsValid() || b.m.KindOf(declared) == model.KindUnknown ||
			b.m.IsReferenceType(declared) || b.m.IsKnown(declared, model.KnownNullable) {
			return &syntax.NullExpr{}, nil
		}
		return &syntax.DefaultExpr{Type: b.convertType(declared)}, nil
	}

	switch v := value.(type) {
	case model.TypeValue:
		return &syntax.TypeOfExpr{Type: b.convertType(v.Type)}, nil
	case []model.TypedValue:
		return b.convertArray(declared, v)
	}

	if b.m.IsEnum(declared) {
		return b.convertEnumValue(declared, value)
	}

	k := b.m.KnownOf(declared)
	if want, ok := goKinds[k]; ok {
		if got := fmt.Sprintf("%T", value); got != want {
			return nil, fmt.Errorf("%w: %s value for %s", ErrConstantMismatch, got, b.m.FullName(declared))
		}
	} else {
		// object, ValueType or an unknown slot: the Go value carries the type.
		k = knownForValue(value)
		if k == model.KnownNone {
			return nil, fmt.Errorf("%w: unsupported constant %T", ErrConstantMismatch, value)
		}
		declared = b.m.KnownType(k)
	}

	if sc, ok := lookupSpecial(value); ok {
		if b.opts.UseSpecialConstants {
			return b.annotateConstant(syntax.Member(b.convertType(b.m.KnownType(sc.known)), sc.member), declared, value), nil
		}
		if e := infinityOrNaN(value); e != nil {
			return b.annotateConstant(e, declared, value), nil
		}
	}

	if k.IsSmallInteger() {
		lit := syntax.Literal(widen(value))
		if expected != declared {
			return b.annotateConstant(&syntax.CastExpr{Type: b.convertType(declared), Expr: lit}, declared, value), nil
		}
		return b.annotateConstant(lit, declared, value), nil
	}
	return b.annotateConstant(syntax.Literal(value), declared, value), nil
}

// goKinds maps primitive types to the Go type their constants use.
var goKinds = map[model.KnownType]string{
	model.KnownBoolean: "bool",
	model.KnownChar:    "model.Char",
	model.KnownSByte:   "int8",
	model.KnownByte:    "uint8",
	model.KnownInt16:   "int16",
	model.KnownUInt16:  "uint16",
	model.KnownInt32:   "int32",
	model.KnownUInt32:  "uint32",
	model.KnownInt64:   "int64",
	model.KnownUInt64:  "uint64",
	model.KnownSingle:  "float32",
	model.KnownDouble:  "float64",
	model.KnownDecimal: "model.Decimal",
	model.KnownString:  "string",
}

func knownForValue(v any) model.KnownType {
	switch v.(type) {
	case bool:
		return model.KnownBoolean
	case model.Char:
		return model.KnownChar
	case int8:
		return model.KnownSByte
	case uint8:
		return model.KnownByte
	case int16:
		return model.KnownInt16
	case uint16:
		return model.KnownUInt16
	case int32:
		return model.KnownInt32
	case uint32:
		return model.KnownUInt32
	case int64:
		return model.KnownInt64
	case uint64:
		return model.KnownUInt64
	case float32:
		return model.KnownSingle
	case float64:
		return model.KnownDouble
	case model.Decimal:
		return model.KnownDecimal
	case string:
		return model.KnownString
	}
	return model.KnownNone
}

// widen turns the integer widths without a literal form into int.
func widen(v any) any {
	switch x := v.(type) {
	case int8:
		return int32(x)
	case uint8:
		return int32(x)
	case int16:
		return int32(x)
	case uint16:
		return int32(x)
	}
	return v
}

// infinityOrNaN spells the non-finite values as divisions by zero, the
// only way to write them without the named constants.
func infinityOrNaN(v any) syntax.Expr {
	var x float64
	var lit func(float64) any
	switch f := v.(type) {
	case float32:
		x, lit = float64(f), func(n float64) any { return float32(n) }
	case float64:
		x, lit = f, func(n float64) any { return n }
	default:
		return nil
	}
	var num float64
	switch {
	case math.IsNaN(x):
		num = 0
	case math.IsInf(x, 1):
		num = 1
	case math.IsInf(x, -1):
		num = -1
	default:
		return nil
	}
	return &syntax.BinaryExpr{Op: syntax.OpDivide, Left: syntax.Literal(lit(num)), Right: syntax.Literal(lit(0))}
}

func (b *Builder) annotateConstant(e syntax.Expr, t model.TypeID, v any) syntax.Expr {
	if b.opts.AddResolveResultAnnotations {
		r := constantResult(t, v)
		e.Annotations().Resolved = &r
	}
	if b.opts.AddTypeReferenceAnnotations {
		e.Annotations().TypeRef = t
	}
	return e
}

// convertArray encodes an attribute array argument.
func (b *Builder) convertArray(declared model.TypeID, elems []model.TypedValue) (syntax.Expr, error) {
	elemType := b.m.Elem(declared)
	if b.m.KindOf(declared) != model.KindArray || !elemType.IsValid() {
		elemType = b.m.Unknown()
	}
	out := &syntax.ArrayCreateExpr{Elem: b.convertType(elemType), Init: make([]syntax.Expr, len(elems))}
	for i, el := range elems {
		t := el.EffectiveType()
		if !t.IsValid() {
			t = elemType
		}
		e, err := b.ConvertConstant(elemType, t, el.Value)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out.Init[i] = e
	}
	return out, nil
}

// intBits returns the two's-complement bits of an integral value.
func intBits(v any) (uint64, bool) {
	switch x := v.(type) {
	case int8:
		return uint64(x), true
	case uint8:
		return uint64(x), true
	case int16:
		return uint64(x), true
	case uint16:
		return uint64(x), true
	case int32:
		return uint64(x), true
	case uint32:
		return uint64(x), true
	case int64:
		return uint64(x), true
	case uint64:
		return x, true
	case model.Char:
		return uint64(x), true
	}
	return 0, false
}

// fromBits rebuilds the Go value of integral type k from its bits.
func fromBits(k model.KnownType, bits uint64) any {
	switch k {
	case model.KnownSByte:
		return int8(bits)
	case model.KnownByte:
		return uint8(bits)
	case model.KnownInt16:
		return int16(bits)
	case model.KnownUInt16:
		return uint16(bits)
	case model.KnownUInt32:
		return uint32(bits)
	case model.KnownInt64:
		return int64(bits)
	case model.KnownUInt64:
		return bits
	case model.KnownChar:
		return model.Char(bits)
	default:
		return int32(bits)
	}
}

// widthMask covers the bits of an integral type.
func widthMask(k model.KnownType) uint64 {
	w := k.BitWidth()
	if w == 0 || w >= 64 {
		return math.MaxUint64
	}
	n, err := safecast.Conv[uint](w)
	if err != nil {
		return math.MaxUint64
	}
	return 1<<n - 1
}
